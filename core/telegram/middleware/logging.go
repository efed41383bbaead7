package middleware

import (
	"strings"
	"time"

	"officebot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware logs a single receipt line per update and seeds the
// request context with rid and update metadata.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		StoreContext(c, ctx)

		attrs := []slog.Attr{
			slog.String("status", "ok"),
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
		}
		if chatID != 0 && chat != nil {
			attrs = append(attrs,
				slog.Int64("chat_id", chatID),
				slog.String("chat_type", string(chat.Type)),
			)
		}
		if userID != 0 && user != nil {
			attrs = append(attrs, slog.Int64("user_id", userID))
			if user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
		}
		switch {
		case upd.Callback != nil:
			payload := strings.TrimPrefix(upd.Callback.Data, "\f")
			attrs = append(attrs, slog.String("command", logger.SanitizeLimit(payload, 128)))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("command", logger.SanitizeLimit(t, 128)))
			}
		}
		logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
