package middleware

import (
	"sync"
	"time"

	"officebot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures the per-user update throttle.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware drops updates arriving faster than Interval from
// the same user. Excluded update kinds ("callback", "message") pass
// untouched; menu taps are expected to come in bursts.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	throttle := newUserThrottle(opts.Interval)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}
			if throttle.allow(sender.ID, time.Now()) {
				return next(c)
			}

			ctx, ok := ContextFrom(c)
			if !ok {
				ctx = logger.Background()
			}
			attrs := []slog.Attr{
				slog.String("event", "update.throttled"),
				slog.String("status", "skip"),
				slog.Int64("user_id", sender.ID),
			}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chat_id", chat.ID))
			}
			logger.TG.LogAttrs(ctx, slog.LevelWarn, "update throttled", attrs...)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}

// userThrottle tracks the last accepted update per user id.
type userThrottle struct {
	mu       sync.Mutex
	interval time.Duration
	lastSeen map[int64]time.Time
}

func newUserThrottle(interval time.Duration) *userThrottle {
	return &userThrottle{interval: interval, lastSeen: make(map[int64]time.Time)}
}

func (t *userThrottle) allow(userID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.lastSeen[userID]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.lastSeen[userID] = now
	return true
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.MyChatMember != nil:
		return "my_chat_member"
	}
	return "other"
}
