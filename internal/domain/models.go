package domain

// Meanings holds the upright and reversed meaning texts for a card.
// Either may be empty when the deck has no text for it.
type Meanings struct {
	Upright  string `toml:"upright" json:"upright"`
	Reversed string `toml:"reversed" json:"reversed"`
}

// Card represents a single card in the deck. ID and Name are 1:1 and
// stable for the process lifetime.
type Card struct {
	ID       int
	Name     string
	Meanings Meanings
}

// DrawnCard is a card drawn into a spread position together with its
// orientation. Immutable once created.
type DrawnCard struct {
	Card
	Reversed bool
	Position string
}

// DisplayName returns the card name annotated when reversed.
func (d DrawnCard) DisplayName() string {
	if d.Reversed {
		return d.Name + " (reversed)"
	}
	return d.Name
}

// Spread is a named layout defining the ordered card positions of a
// reading. Hints, when present, parallel Positions one to one; a
// length mismatch is treated as "no hints".
type Spread struct {
	ID              string   `toml:"id"`
	Title           string   `toml:"title"`
	Positions       []string `toml:"positions"`
	Hints           []string `toml:"hints"`
	SuppressSummary bool     `toml:"suppress_summary"`
}

// HintsOrEmpty returns the hint list when it matches Positions in
// length, otherwise empty strings of the right length.
func (s Spread) HintsOrEmpty() []string {
	if len(s.Hints) == len(s.Positions) {
		return s.Hints
	}
	return make([]string, len(s.Positions))
}

// CardReading is one interpreted card as returned by the interpreter.
type CardReading struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Meaning  string `json:"meaning"`
}

// Interpretation is the structured result of an interpretation
// request. It is always structurally valid: Cards may be empty and
// Summary may carry a failure note, but consumers never see
// malformed data.
type Interpretation struct {
	Cards   []CardReading `json:"cards"`
	Summary string        `json:"summary"`
}
