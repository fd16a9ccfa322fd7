package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// TelegramConfig configuration of the telegram notifier
type TelegramConfig struct {
	Token  string
	ChatID int64
	Debug  bool
}

// TelegramNotifier is the alternate delivery channel, sending alerts to a
// telegram chat instead of a LINE user.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	config TelegramConfig
}

// NewTelegramNotifier creates a new telegram notifier
func NewTelegramNotifier(c TelegramConfig) (*TelegramNotifier, error) {
	if c.Token == "" {
		return nil, errors.Wrap(ErrUnauthorized, "missing telegram bot token")
	}
	if c.ChatID == 0 {
		return nil, errors.New("missing telegram chat id")
	}

	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}
	bot.Debug = c.Debug

	return &TelegramNotifier{bot: bot, config: c}, nil
}

func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Send delivers one plain-text message to the configured chat.
func (n *TelegramNotifier) Send(message string) error {
	msg := tgbotapi.NewMessage(n.config.ChatID, message)
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	return errors.Wrap(err, "could not send telegram message")
}
