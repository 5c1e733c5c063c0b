package middleware

import (
	"strconv"
	"strings"
	"time"

	"wordflip/internal/client"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AppKey is the context key holding the sender's *client.App
const AppKey = "app"

// SessionMiddleware attaches the sender's client session to the context
func SessionMiddleware(apps *client.Registry, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				logger.Debug("Skipping update without sender")
				return nil
			}

			c.Set(AppKey, apps.Get(UserKey(sender.ID)))
			return next(c)
		}
	}
}

// LoggingMiddleware logs every handled update
func LoggingMiddleware(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.Int("update_id", c.Update().ID),
				zap.Duration("duration", time.Since(start)),
			}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", cb.Unique))
			} else if msg := c.Message(); msg != nil && strings.HasPrefix(msg.Text, "/") {
				fields = append(fields, zap.String("command", strings.Fields(msg.Text)[0]))
			}

			if err != nil {
				logger.Error("Update failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}

// UserKey is the storage namespace of a Telegram user
func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
