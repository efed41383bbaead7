package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"officebot/core/telegram/keyboard"
	"officebot/dialog"
)

// botMessenger adapts a telebot bot to the dialog.Messenger contract.
type botMessenger struct {
	bot *tele.Bot
}

// NewMessenger wraps the bot for use by the dialog dispatcher.
func NewMessenger(bot *tele.Bot) dialog.Messenger {
	return &botMessenger{bot: bot}
}

func (m *botMessenger) Send(ctx context.Context, chatID int64, text string, rows [][]dialog.Button) (int, error) {
	msg, err := m.bot.Send(tele.ChatID(chatID), text, sendOptions(rows)...)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (m *botMessenger) Edit(ctx context.Context, chatID int64, messageID int, text string, rows [][]dialog.Button) error {
	ref := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if _, err := m.bot.Edit(ref, text, sendOptions(rows)...); err != nil {
		if notEditable(err) {
			return dialog.ErrNotEditable
		}
		return err
	}
	return nil
}

func sendOptions(rows [][]dialog.Button) []interface{} {
	opts := []interface{}{tele.ModeHTML}
	if len(rows) > 0 {
		opts = append(opts, keyboard.Markup(rows))
	}
	return opts
}

// notEditable recognizes the platform's refusals to edit a message
// (too old, deleted, or not owned by the bot).
func notEditable(err error) bool {
	var apiErr *tele.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	desc := strings.ToLower(apiErr.Description)
	return strings.Contains(desc, "can't be edited") ||
		strings.Contains(desc, "message to edit not found")
}
