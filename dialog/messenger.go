package dialog

import (
	"context"
	"errors"
)

// ErrNotEditable is returned by Messenger.Edit when the platform
// refuses to edit the message (too old, already deleted).
var ErrNotEditable = errors.New("dialog: message not editable")

// Button is one inline keyboard button in transport-neutral form.
// Data carries a callback payload; URL buttons open a link instead.
type Button struct {
	Text string
	Data string
	URL  string
}

// Messenger is the outbound side of the transport. Send returns the id
// of the created message so later redraws can edit it.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, rows [][]Button) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, rows [][]Button) error
}

// editOrSend redraws a menu in place when the triggering event carries
// an editable message, falling back to a fresh send when the platform
// rejects the edit. Every menu redraw goes through here.
func editOrSend(ctx context.Context, m Messenger, ev Event, text string, rows [][]Button) error {
	if ev.MessageID != 0 {
		err := m.Edit(ctx, ev.ChatID, ev.MessageID, text, rows)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotEditable) {
			return err
		}
	}
	_, err := m.Send(ctx, ev.ChatID, text, rows)
	return err
}
