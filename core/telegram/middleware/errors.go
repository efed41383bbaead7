package middleware

import (
	"fmt"

	"officebot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ErrorBoundary is the per-update error boundary: a failed handler is
// logged and the user gets a best-effort notification, but the error
// never propagates into the bot loop, so one broken interaction cannot
// take the process or other conversations down.
func ErrorBoundary(message string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			ctx := BuildContext(c)
			logger.Error(ctx, "tg", "handler.failed",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			if c.Chat() != nil {
				if sendErr := c.Send(fmt.Sprintf("%s: %v", message, err)); sendErr != nil {
					logger.Error(ctx, "tg", "error.notify",
						slog.String("status", "fail"),
						slog.String("err", sendErr.Error()),
					)
				}
			}
			return nil
		}
	}
}
