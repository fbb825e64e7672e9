package app

import (
	"fmt"
	"strings"

	"github.com/Thailung128/whitefoxbot/internal/domain"
	"github.com/Thailung128/whitefoxbot/internal/ports"
)

const (
	catalogURL = "https://www.ozon.ru/seller/white-fox-2587631/?miniapp=seller_2587631"
	studioURL  = "https://t.me/whitefoxtarot"
)

// escapeHTML escapes the characters Telegram's HTML parse mode cares
// about in user- and model-supplied text.
func escapeHTML(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}

// renderReadings builds the per-card block of the final message.
func renderReadings(items []domain.CardReading) string {
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("<b>%d. %s — %s</b>\n%s",
			i+1, escapeHTML(it.Position), escapeHTML(it.Name), escapeHTML(it.Meaning)))
	}
	return strings.Join(lines, "\n\n")
}

func mainMenuKeyboard() ports.Keyboard {
	return ports.Keyboard{
		{{Text: "🔮 Ask a question", Callback: "ask"}},
		{{Text: "🛍️ Deck catalogue", URL: catalogURL}},
		{{Text: "🦊 About White Fox", URL: studioURL}},
		{{Text: "❓ How it works", Callback: "help"}},
	}
}

// spreadsKeyboard lays the spread options out two per row, with a
// back button on its own row.
func spreadsKeyboard(spreads []domain.Spread) ports.Keyboard {
	var kb ports.Keyboard
	var row []ports.Button
	for _, sp := range spreads {
		row = append(row, ports.Button{Text: sp.Title, Callback: "spread:" + sp.ID})
		if len(row) == 2 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, []ports.Button{{Text: "⬅️ Back", Callback: "back_to_main"}})
	return kb
}

func previewKeyboard(spreadID string) ports.Keyboard {
	return ports.Keyboard{
		{{Text: "🎴 Lay the cards", Callback: "shuffle:" + spreadID}},
		{{Text: "⬅️ Back", Callback: "back_to_spreads"}},
	}
}

func finalKeyboard() ports.Keyboard {
	return ports.Keyboard{
		{{Text: "🔁 New reading", Callback: "new"}},
	}
}
