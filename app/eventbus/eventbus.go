// Package eventbus provides the in-process message bus the giveaway engine
// fans out on. The bot is a single process, so a Watermill gochannel Pub/Sub
// stands in for an external broker.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

// EventBus is the publish/subscribe surface handed to the sweeper, the
// interaction managers, and the Watermill router.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates the gochannel-backed event bus.
func NewEventBus(logger *slog.Logger) EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})

	return &eventBus{
		pubSub: pubSub,
		logger: logger,
	}
}

func (b *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		b.logger.Debug("Publishing message",
			attr.Topic(topic),
			attr.MessageID(msg),
		)
	}
	return b.pubSub.Publish(topic, messages...)
}

func (b *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

func (b *eventBus) Close() error {
	return b.pubSub.Close()
}
