package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Thailung128/whitefoxbot/internal/domain"
	"github.com/Thailung128/whitefoxbot/internal/ports"
)

// Catalog serves the fixed card and spread content.
type Catalog interface {
	Deck() (domain.Deck, error)
	Spreads() ([]domain.Spread, error)
	Spread(id string) (domain.Spread, error)
}

// Handler is the per-user conversation state machine. It sequences
// deck draws, image composition and interpretation, and emits the
// outbound message flow. Every external failure is soft: the user
// always gets a next step.
type Handler struct {
	sessions    *Store
	catalog     Catalog
	interpreter ports.Interpreter
	compositor  ports.Compositor
	assets      ports.AssetStore
	messenger   ports.Messenger
	rng         domain.RNG
	revealDelay time.Duration
	logger      *slog.Logger
}

func NewHandler(
	sessions *Store,
	catalog Catalog,
	interpreter ports.Interpreter,
	compositor ports.Compositor,
	assets ports.AssetStore,
	messenger ports.Messenger,
	rng domain.RNG,
	revealDelay time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:    sessions,
		catalog:     catalog,
		interpreter: interpreter,
		compositor:  compositor,
		assets:      assets,
		messenger:   messenger,
		rng:         rng,
		revealDelay: revealDelay,
		logger:      logger,
	}
}

// HandleStart processes /start: clears the session and shows the menu.
func (h *Handler) HandleStart(ctx context.Context, chatID int64) {
	h.sessions.Get(chatID).Reset()
	h.sendText(ctx, chatID,
		"Welcome to <b>White Fox</b> 🦊✨\n\nChoose an action:", mainMenuKeyboard())
}

// HandleText processes a free-text message. Outside the question
// prompt it is a corrective no-op that re-shows the menu.
func (h *Handler) HandleText(ctx context.Context, chatID int64, text string) {
	sess := h.sessions.Get(chatID)
	if sess.State != StateAwaitingQuestion {
		h.sendText(ctx, chatID, "Choose an action:", mainMenuKeyboard())
		return
	}

	question := strings.TrimSpace(text)
	if question == "" {
		h.sendText(ctx, chatID, "Put your question into <b>one message</b> ✍️", nil)
		return
	}

	sess.Question = question
	sess.State = StateSpreadChosen
	sess.SpreadID = ""
	h.promptSpreads(ctx, chatID, sess)
}

// HandleCallback dispatches an inline-button event.
func (h *Handler) HandleCallback(ctx context.Context, chatID int64, data string) {
	sess := h.sessions.Get(chatID)

	switch {
	case data == "ask":
		sess.State = StateAwaitingQuestion
		h.sendText(ctx, chatID,
			"Put your question into <b>one message</b> ✍️\n"+
				"For example:\n"+
				"• \"What advice for the coming week?\"\n"+
				"• \"What should I understand about this relationship?\"\n"+
				"• \"Which direction to take in my career?\"", nil)

	case data == "help":
		h.sendText(ctx, chatID,
			"How it works:\n"+
				"1) Write your question in a single message.\n"+
				"2) Pick a spread.\n"+
				"3) See the cards, their meanings and the overall answer.",
			mainMenuKeyboard())

	case data == "about":
		h.sendText(ctx, chatID,
			"The <b>White Fox</b> deck: minimalism and honest answers. 🎴\n"+
				"We make careful decks and honest readings.",
			mainMenuKeyboard())

	case data == "new", data == "back_to_main":
		sess.Reset()
		h.sendText(ctx, chatID, "Starting over. Choose an action:", mainMenuKeyboard())

	case data == "back_to_spreads":
		h.backToSpreads(ctx, chatID, sess)

	case strings.HasPrefix(data, "spread:"):
		h.pickSpread(ctx, chatID, sess, strings.TrimPrefix(data, "spread:"))

	case strings.HasPrefix(data, "shuffle:"):
		h.shuffle(ctx, chatID, sess, strings.TrimPrefix(data, "shuffle:"))

	default:
		h.logger.Warn("unknown callback", "chat_id", chatID, "data", data)
	}
}

func (h *Handler) promptSpreads(ctx context.Context, chatID int64, sess *Session) {
	spreads, err := h.catalog.Spreads()
	if err != nil {
		h.logger.Error("load spreads", "error", err)
		h.sendText(ctx, chatID, "Spreads are unavailable right now, please try again later.", mainMenuKeyboard())
		return
	}
	if ref, err := h.messenger.SendText(ctx, chatID, "Choose a spread:", spreadsKeyboard(spreads)); err == nil {
		sess.remember(ref)
	}
}

// pickSpread stores the chosen spread and emits its preview. A missing
// scheme image degrades to a text description, never blocks.
func (h *Handler) pickSpread(ctx context.Context, chatID int64, sess *Session, spreadID string) {
	if sess.Question == "" {
		h.sendText(ctx, chatID, "Ask your question first.", mainMenuKeyboard())
		return
	}

	spread, err := h.catalog.Spread(spreadID)
	if err != nil {
		h.logger.Warn("unknown spread picked", "chat_id", chatID, "spread", spreadID)
		h.promptSpreads(ctx, chatID, sess)
		return
	}

	sess.State = StateSpreadChosen
	sess.SpreadID = spread.ID

	caption := "<b>" + escapeHTML(spread.Title) + "</b>\n\nPositions: " +
		escapeHTML(strings.Join(spread.Positions, ", "))

	if path, ok := h.assets.SpreadImage(spread.ID); ok {
		ref, err := h.messenger.SendPhoto(ctx, chatID, path,
			caption+"\n\nChoose an action:", previewKeyboard(spread.ID))
		if err == nil {
			sess.remember(ref)
			return
		}
		h.logger.Warn("spread preview photo failed", "chat_id", chatID, "error", err)
	}

	if ref, err := h.messenger.SendText(ctx, chatID,
		caption+"\n\n(The scheme will be added later.)\n\nChoose an action:",
		previewKeyboard(spread.ID)); err == nil {
		sess.remember(ref)
	}
}

// backToSpreads removes the most recent preview messages best-effort
// and re-shows the spread list.
func (h *Handler) backToSpreads(ctx context.Context, chatID int64, sess *Session) {
	sess.State = StateSpreadChosen
	for _, ref := range sess.takeRecent() {
		if err := h.messenger.Delete(ctx, chatID, ref); err != nil {
			h.logger.Debug("preview cleanup failed", "chat_id", chatID, "ref", int(ref), "error", err)
		}
	}
	h.promptSpreads(ctx, chatID, sess)
}

// shuffle runs one full reading: draw, per-card reveal, one
// interpretation call, one final message. A shuffle event that does
// not match the stored spread is a corrective no-op.
func (h *Handler) shuffle(ctx context.Context, chatID int64, sess *Session, spreadID string) {
	if sess.SpreadID == "" || sess.SpreadID != spreadID {
		h.sendText(ctx, chatID, "Choose a spread first.", nil)
		return
	}

	spread, err := h.catalog.Spread(spreadID)
	if err != nil {
		h.logger.Error("stored spread vanished", "chat_id", chatID, "spread", spreadID, "error", err)
		h.promptSpreads(ctx, chatID, sess)
		return
	}
	deck, err := h.catalog.Deck()
	if err != nil {
		h.logger.Error("load deck", "error", err)
		h.sendText(ctx, chatID, "The deck is unavailable right now, please try again later.", finalKeyboard())
		return
	}

	sess.State = StateReading
	h.sendText(ctx, chatID, "Shuffling the deck… 🔁", nil)

	drawn, err := deck.Draw(len(spread.Positions), h.rng)
	if err != nil {
		h.logger.Error("draw failed", "spread", spreadID, "k", len(spread.Positions), "error", err)
		h.sendText(ctx, chatID, "Something went wrong with the deck. Try another spread.", finalKeyboard())
		sess.State = StateSpreadChosen
		return
	}
	for i := range drawn {
		drawn[i].Position = spread.Positions[i]
	}
	sess.Drawn = drawn

	for _, card := range drawn {
		h.revealCard(ctx, chatID, card)
		h.pause(ctx)
	}

	interp := h.interpreter.Interpret(ctx, ports.InterpretRequest{
		Question:    sess.Question,
		SpreadTitle: spread.Title,
		Cards:       toCardContexts(drawn),
		Hints:       spread.HintsOrEmpty(),
	})

	final := "<b>The answer to your question</b>\n\n" + renderReadings(interp.Cards)
	if !spread.SuppressSummary {
		final += "\n\n<b>Summary:</b> " + escapeHTML(interp.Summary) +
			"\n\n🌙 Thank you for your trust. The White Fox is near."
	}
	h.sendText(ctx, chatID, final, finalKeyboard())

	sess.State = StateSpreadChosen
}

// revealCard emits one card reveal, as a photo when the compositor
// can produce one and as plain text otherwise.
func (h *Handler) revealCard(ctx context.Context, chatID int64, card domain.DrawnCard) {
	caption := "A card turns over… ✨\n<b>" + escapeHTML(card.Position) + "</b> — " +
		escapeHTML(card.DisplayName())

	if src, ok := h.assets.CardImage(card.ID); ok {
		if path, ok := h.compositor.Compose(src); ok {
			_, err := h.messenger.SendPhoto(ctx, chatID, path, caption, nil)
			if err == nil {
				return
			}
			h.logger.Warn("card photo failed", "chat_id", chatID, "card", card.ID, "error", err)
		}
	}
	h.sendText(ctx, chatID, caption, nil)
}

func (h *Handler) pause(ctx context.Context) {
	if h.revealDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(h.revealDelay):
	}
}

func (h *Handler) sendText(ctx context.Context, chatID int64, text string, kb ports.Keyboard) {
	if _, err := h.messenger.SendText(ctx, chatID, text, kb); err != nil {
		h.logger.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func toCardContexts(drawn []domain.DrawnCard) []ports.CardContext {
	out := make([]ports.CardContext, len(drawn))
	for i, d := range drawn {
		out[i] = ports.CardContext{
			Position: d.Position,
			Name:     d.Name,
			Reversed: d.Reversed,
			Theses:   d.Meanings,
		}
	}
	return out
}
