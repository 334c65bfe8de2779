// Package attr provides slog attribute helpers so call sites stay terse and
// field names stay consistent across the codebase.
package attr

import (
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func Time(key string, value time.Time) slog.Attr {
	return slog.Time(key, value)
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func GiveawayID(id string) slog.Attr {
	return slog.String("giveaway_id", id)
}

func ChannelID(id string) slog.Attr {
	return slog.String("channel_id", id)
}

func Topic(topic string) slog.Attr {
	return slog.String("topic", topic)
}

func MessageID(msg *message.Message) slog.Attr {
	return slog.String("message_id", msg.UUID)
}

func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}
