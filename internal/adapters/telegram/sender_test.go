package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thailung128/whitefoxbot/internal/ports"
)

func TestToMarkup(t *testing.T) {
	kb := ports.Keyboard{
		{
			{Text: "Shuffle", Callback: "shuffle:three"},
			{Text: "Shop", URL: "https://example.com"},
		},
		{
			{Text: "Back", Callback: "back_to_spreads"},
		},
	}

	markup := toMarkup(kb)
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 2)

	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Shuffle", first.Text)
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, "shuffle:three", *first.CallbackData)

	link := markup.InlineKeyboard[0][1]
	require.NotNil(t, link.URL)
	assert.Equal(t, "https://example.com", *link.URL)
	assert.Nil(t, link.CallbackData)

	back := markup.InlineKeyboard[1][0]
	require.NotNil(t, back.CallbackData)
	assert.Equal(t, "back_to_spreads", *back.CallbackData)
}
