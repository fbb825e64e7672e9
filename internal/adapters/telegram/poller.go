package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher receives decoded user events. Implemented by the session
// state machine.
type Dispatcher interface {
	HandleStart(ctx context.Context, chatID int64)
	HandleText(ctx context.Context, chatID int64, text string)
	HandleCallback(ctx context.Context, chatID int64, data string)
}

type eventKind int

const (
	eventStart eventKind = iota
	eventText
	eventCallback
)

// event is one decoded inbound user event.
type event struct {
	kind       eventKind
	chatID     int64
	payload    string // message text or callback data
	callbackID string // set for eventCallback, used for the ack
}

// decodeUpdate maps a raw Telegram update onto an event. The second
// return is false for updates the bot does not handle (edits, channel
// posts, callbacks whose message has expired).
func decodeUpdate(update tgbotapi.Update) (event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil {
			return event{}, false
		}
		return event{
			kind:       eventCallback,
			chatID:     cb.Message.Chat.ID,
			payload:    cb.Data,
			callbackID: cb.ID,
		}, true

	case update.Message != nil:
		msg := update.Message
		if msg.IsCommand() && msg.Command() == "start" {
			return event{kind: eventStart, chatID: msg.Chat.ID}, true
		}
		return event{kind: eventText, chatID: msg.Chat.ID, payload: msg.Text}, true
	}
	return event{}, false
}

// Poller long-polls Telegram for updates and dispatches them. Events
// for different chats run in parallel; events for the same chat are
// queued and handled strictly in arrival order, so the session is
// never touched concurrently and a user's events cannot overtake each
// other. Drained queues are dropped from the map.
type Poller struct {
	api        *tgbotapi.BotAPI
	dispatcher Dispatcher
	logger     *slog.Logger

	mu     sync.Mutex
	queues map[int64][]func()
}

func NewPoller(api *tgbotapi.BotAPI, dispatcher Dispatcher, logger *slog.Logger) *Poller {
	return &Poller{
		api:        api,
		dispatcher: dispatcher,
		logger:     logger,
		queues:     make(map[int64][]func()),
	}
}

// Run polls until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := p.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := decodeUpdate(update)
			if !ok {
				continue
			}
			// Acknowledge early so the button stops spinning even
			// while a long reading pipeline runs.
			if ev.callbackID != "" {
				if _, err := p.api.Request(tgbotapi.NewCallback(ev.callbackID, "")); err != nil {
					p.logger.Debug("callback ack failed", "chat_id", ev.chatID, "error", err)
				}
			}
			p.enqueue(ev.chatID, func() { p.handle(ctx, ev) })
		}
	}
}

func (p *Poller) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventStart:
		p.dispatcher.HandleStart(ctx, ev.chatID)
	case eventText:
		p.dispatcher.HandleText(ctx, ev.chatID, ev.payload)
	case eventCallback:
		p.dispatcher.HandleCallback(ctx, ev.chatID, ev.payload)
	}
}

// enqueue appends fn to the chat's queue, starting a drain worker when
// none is running. A key present in the map means a worker is alive.
func (p *Poller) enqueue(chatID int64, fn func()) {
	p.mu.Lock()
	_, running := p.queues[chatID]
	p.queues[chatID] = append(p.queues[chatID], fn)
	p.mu.Unlock()
	if !running {
		go p.drain(chatID)
	}
}

// drain runs the chat's queued events in FIFO order and removes the
// queue once empty.
func (p *Poller) drain(chatID int64) {
	for {
		p.mu.Lock()
		q := p.queues[chatID]
		if len(q) == 0 {
			delete(p.queues, chatID)
			p.mu.Unlock()
			return
		}
		fn := q[0]
		p.queues[chatID] = q[1:]
		p.mu.Unlock()
		fn()
	}
}
