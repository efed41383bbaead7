package middleware

import (
	"runtime/debug"

	"officebot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware turns a handler panic into an error log line so one
// bad update cannot take the whole bot down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			ctx, ok := ContextFrom(c)
			if !ok {
				ctx = logger.Background()
			}
			attrs := []slog.Attr{
				slog.String("event", "handler.panic"),
				slog.String("status", "fail"),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chat_id", chat.ID))
			}
			logger.TG.LogAttrs(ctx, slog.LevelError, "panic recovered", attrs...)
		}()
		return next(c)
	}
}
