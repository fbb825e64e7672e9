package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Thailung128/whitefoxbot/internal/ports"
)

// Sender implements ports.Messenger over the Telegram Bot API. All
// messages use HTML parse mode, matching the rendering layer.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendText(_ context.Context, chatID int64, text string, kb ports.Keyboard) (ports.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = toMarkup(kb)
	}
	sent, err := s.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return ports.MessageRef(sent.MessageID), nil
}

func (s *Sender) SendPhoto(_ context.Context, chatID int64, path, caption string, kb ports.Keyboard) (ports.MessageRef, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = toMarkup(kb)
	}
	sent, err := s.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return ports.MessageRef(sent.MessageID), nil
}

func (s *Sender) Delete(_ context.Context, chatID int64, ref ports.MessageRef) error {
	_, err := s.api.Request(tgbotapi.NewDeleteMessage(chatID, int(ref)))
	return err
}

func toMarkup(kb ports.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Callback))
			}
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
