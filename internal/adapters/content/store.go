package content

import (
	"embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Thailung128/whitefoxbot/internal/domain"
)

//go:embed data/*.toml
var contentFS embed.FS

type cardEntry struct {
	ID       int             `toml:"id"`
	Name     string          `toml:"name"`
	Meanings domain.Meanings `toml:"meanings"`
}

type deckFile struct {
	Cards []cardEntry `toml:"cards"`
}

type spreadsFile struct {
	Spreads []domain.Spread `toml:"spreads"`
}

// Store loads the embedded card and spread catalogue once and serves
// it for the process lifetime.
type Store struct {
	once    sync.Once
	deck    domain.Deck
	spreads []domain.Spread
	byID    map[string]domain.Spread
	err     error
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) init() {
	raw, err := contentFS.ReadFile("data/cards.toml")
	if err != nil {
		s.err = fmt.Errorf("read embedded cards: %w", err)
		return
	}
	var df deckFile
	if err := toml.Unmarshal(raw, &df); err != nil {
		s.err = fmt.Errorf("parse embedded cards: %w", err)
		return
	}

	seen := make(map[string]bool, len(df.Cards))
	cards := make([]domain.Card, 0, len(df.Cards))
	for _, e := range df.Cards {
		if seen[e.Name] {
			s.err = fmt.Errorf("duplicate card name %q", e.Name)
			return
		}
		seen[e.Name] = true
		cards = append(cards, domain.Card{ID: e.ID, Name: e.Name, Meanings: e.Meanings})
	}
	s.deck = domain.Deck{Cards: cards}

	raw, err = contentFS.ReadFile("data/spreads.toml")
	if err != nil {
		s.err = fmt.Errorf("read embedded spreads: %w", err)
		return
	}
	var sf spreadsFile
	if err := toml.Unmarshal(raw, &sf); err != nil {
		s.err = fmt.Errorf("parse embedded spreads: %w", err)
		return
	}
	s.spreads = sf.Spreads
	s.byID = make(map[string]domain.Spread, len(sf.Spreads))
	for _, sp := range sf.Spreads {
		s.byID[sp.ID] = sp
	}
}

// Deck returns the full card catalogue.
func (s *Store) Deck() (domain.Deck, error) {
	s.once.Do(s.init)
	return s.deck, s.err
}

// Spreads returns all spreads in catalogue order.
func (s *Store) Spreads() ([]domain.Spread, error) {
	s.once.Do(s.init)
	return s.spreads, s.err
}

// Spread looks up one spread by ID.
func (s *Store) Spread(id string) (domain.Spread, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Spread{}, s.err
	}
	sp, ok := s.byID[id]
	if !ok {
		return domain.Spread{}, domain.ErrSpreadNotFound
	}
	return sp, nil
}
