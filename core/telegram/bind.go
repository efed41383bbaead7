package telegram

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"officebot/core/logger"
	"officebot/core/telegram/middleware"
	"officebot/dialog"

	"log/slog"
)

// BindOptions connects the dialog dispatcher to bot endpoints.
type BindOptions struct {
	Dispatcher *dialog.Dispatcher
}

// BindRoutes returns the endpoint routes driving the dialog machine:
// private text and callbacks feed the state machine, group chats only
// answer /chat with their id, and membership changes maintain the
// auto-registered groups.
func BindRoutes(opts BindOptions) []Route {
	d := opts.Dispatcher
	return []Route{
		{Endpoint: tele.OnText, Handler: func(c tele.Context) error {
			ctx := middleware.BuildContext(c)
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			if chat.Type != tele.ChatPrivate {
				// Service chats stay silent except for identification.
				if strings.EqualFold(strings.TrimSpace(c.Text()), "/chat") {
					return c.Send(fmt.Sprintf("Chat id=%d", chat.ID))
				}
				return nil
			}
			return d.HandleText(ctx, eventFrom(c))
		}},
		{Endpoint: tele.OnCallback, Handler: func(c tele.Context) error {
			ctx := middleware.BuildContext(c)
			cb := c.Callback()
			if cb == nil || cb.Message == nil {
				return nil
			}
			// Acknowledge the press so the client stops the spinner.
			if err := c.Respond(); err != nil {
				logger.TG.Warn("callback ack failed",
					slog.String("event", "tg.respond"),
					slog.String("err", err.Error()),
				)
			}
			ev := eventFrom(c)
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.ID
			ev.Text = strings.TrimPrefix(cb.Data, "\f")
			return d.HandleCallback(ctx, ev)
		}},
		{Endpoint: tele.OnMyChatMember, Handler: func(c tele.Context) error {
			ctx := middleware.BuildContext(c)
			upd := c.ChatMember()
			if upd == nil || upd.Chat == nil || upd.NewChatMember == nil {
				return nil
			}
			if upd.Chat.Type == tele.ChatPrivate {
				return nil
			}
			switch upd.NewChatMember.Role {
			case tele.Left, tele.Kicked:
				return d.BotRemoved(ctx, upd.Chat.ID, upd.Chat.Title)
			default:
				return d.BotAdded(ctx, upd.Chat.ID, upd.Chat.Title)
			}
		}},
	}
}

func eventFrom(c tele.Context) dialog.Event {
	ev := dialog.Event{Text: c.Text()}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
	}
	if sender := c.Sender(); sender != nil {
		ev.UserID = sender.ID
		ev.Username = sender.Username
		ev.Name = strings.TrimSpace(strings.TrimSpace(sender.FirstName) + " " + strings.TrimSpace(sender.LastName))
	}
	return ev
}
