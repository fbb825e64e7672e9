package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Deck is the fixed catalogue of cards available for drawing.
type Deck struct {
	Cards []Card
}

// Draw selects k distinct cards uniformly without replacement and
// assigns each an independent 50/50 orientation. Position labels are
// left empty; the caller pairs cards with spread positions.
func (d Deck) Draw(k int, rng RNG) ([]DrawnCard, error) {
	if k > len(d.Cards) {
		return nil, ErrInsufficientDeck
	}

	// Fisher-Yates partial shuffle: only the first k elements matter.
	indices := make([]int, len(d.Cards))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	drawn := make([]DrawnCard, k)
	for i := range k {
		drawn[i] = DrawnCard{
			Card:     d.Cards[indices[i]],
			Reversed: rng.Intn(2) == 1,
		}
	}
	return drawn, nil
}
