package ports

import (
	"context"

	"github.com/Thailung128/whitefoxbot/internal/domain"
)

// CardContext is a single drawn card as presented to the interpreter.
type CardContext struct {
	Position string          `json:"position"`
	Name     string          `json:"name"`
	Reversed bool            `json:"reversed"`
	Theses   domain.Meanings `json:"theses"`
	Hint     string          `json:"hint,omitempty"`
}

// InterpretRequest holds everything the interpreter needs for one
// reading. Hints, when its length matches Cards, is folded into the
// per-card context; otherwise it is ignored.
type InterpretRequest struct {
	Question    string
	SpreadTitle string
	Cards       []CardContext
	Hints       []string
}

// Interpreter produces a reading interpretation. Implementations never
// fail: configuration absence, transport errors and malformed upstream
// output all degrade to a structurally valid Interpretation whose
// summary explains what happened.
type Interpreter interface {
	Interpret(ctx context.Context, req InterpretRequest) domain.Interpretation
}
