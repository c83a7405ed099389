package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/notify"
)

// Sender adapts the Telegram client to the notify.Messenger contract so the
// notifier can be built before the full bot wiring.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) Send(chatID int64, text string, buttons [][]notify.Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard := inlineKeyboard(buttons); keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := s.api.Send(msg)
	return err
}

func inlineKeyboard(buttons [][]notify.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			if btn.URL != "" {
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL))
			} else {
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
			}
		}
		rows = append(rows, r)
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
