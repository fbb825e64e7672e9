package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thailung128/whitefoxbot/internal/adapters/content"
	"github.com/Thailung128/whitefoxbot/internal/domain"
)

func TestStore_Deck(t *testing.T) {
	store := content.NewStore()

	deck, err := store.Deck()
	require.NoError(t, err)
	require.Len(t, deck.Cards, 22)

	names := make(map[string]bool)
	for i, c := range deck.Cards {
		assert.Equal(t, i+1, c.ID, "IDs are 1..N in catalogue order")
		assert.False(t, names[c.Name], "duplicate name %q", c.Name)
		names[c.Name] = true
		assert.NotEmpty(t, c.Meanings.Upright)
		assert.NotEmpty(t, c.Meanings.Reversed)
	}
}

func TestStore_Spreads(t *testing.T) {
	store := content.NewStore()

	spreads, err := store.Spreads()
	require.NoError(t, err)
	require.NotEmpty(t, spreads)

	for _, sp := range spreads {
		assert.NotEmpty(t, sp.ID)
		assert.NotEmpty(t, sp.Title)
		assert.NotEmpty(t, sp.Positions)
		if len(sp.Hints) > 0 {
			assert.Len(t, sp.Hints, len(sp.Positions), "spread %s: hints must parallel positions", sp.ID)
		}
	}
}

func TestStore_SpreadLookup(t *testing.T) {
	store := content.NewStore()

	three, err := store.Spread("three")
	require.NoError(t, err)
	assert.Len(t, three.Positions, 3)
	assert.False(t, three.SuppressSummary)

	path, err := store.Spread("path")
	require.NoError(t, err)
	assert.True(t, path.SuppressSummary, "the path spread hides the overall summary")

	_, err = store.Spread("no_such_spread")
	assert.True(t, errors.Is(err, domain.ErrSpreadNotFound))
}

func TestDirAssets_CardImage(t *testing.T) {
	dir := t.TempDir()
	cards := filepath.Join(dir, "cards")
	require.NoError(t, os.MkdirAll(cards, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cards, "07.jpg"), []byte("x"), 0o644))

	assets := content.NewDirAssets(dir)

	path, ok := assets.CardImage(7)
	require.True(t, ok, "zero-padded file names must resolve")
	assert.Equal(t, filepath.Join(cards, "07.jpg"), path)

	_, ok = assets.CardImage(8)
	assert.False(t, ok)
}

func TestDirAssets_SpreadImage(t *testing.T) {
	dir := t.TempDir()
	spreads := filepath.Join(dir, "spreads")
	require.NoError(t, os.MkdirAll(spreads, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(spreads, "three.png"), []byte("x"), 0o644))

	assets := content.NewDirAssets(dir)

	path, ok := assets.SpreadImage("three")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(spreads, "three.png"), path)

	_, ok = assets.SpreadImage("celtic")
	assert.False(t, ok)
}
