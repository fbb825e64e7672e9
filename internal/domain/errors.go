package domain

import "errors"

var (
	ErrInsufficientDeck = errors.New("draw count exceeds number of cards in deck")
	ErrSpreadNotFound   = errors.New("spread not found")
)
