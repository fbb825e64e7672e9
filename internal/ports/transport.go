package ports

import "context"

// Button is one inline action under an outbound message. Callback and
// URL are mutually exclusive.
type Button struct {
	Text     string
	Callback string
	URL      string
}

// Keyboard is rows of inline buttons.
type Keyboard [][]Button

// MessageRef identifies a previously sent message for best-effort
// deletion.
type MessageRef int

// Messenger delivers outbound presentation to one conversation.
// Callers decide between photo and text themselves; implementations
// do not silently fall back.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, path, caption string, kb Keyboard) (MessageRef, error)
	// Delete removes a previously sent message. Best-effort: failures
	// (already deleted, expired) are reported but never fatal.
	Delete(ctx context.Context, chatID int64, ref MessageRef) error
}
