// Package telegramsink forwards toasts to a Telegram chat, so leave
// decisions reach people who are not watching the terminal. It is
// optional and enabled only when a bot token and chat id are
// configured.
package telegramsink

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/notify"
)

type Sink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logrus.Logger
}

func New(token string, chatID int64, log *logrus.Logger) (*Sink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sink{bot: bot, chatID: chatID, log: log}, nil
}

// Show delivers the toast asynchronously; delivery failures are logged
// and never reach the user flow.
func (s *Sink) Show(toast notify.Toast) {
	go func() {
		message := tgbotapi.NewMessage(s.chatID, toast.Message)
		if _, err := s.bot.Send(message); err != nil {
			s.log.WithError(err).Warn("telegram toast delivery failed")
		}
	}()
}
