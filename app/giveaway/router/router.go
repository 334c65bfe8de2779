// Package giveawayrouter wires the giveaway event handlers into the
// Watermill router.
package giveawayrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	giveawayhandlers "github.com/glowmart/discord-giveaway-bot/app/giveaway/watermill/handlers"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

// GiveawayRouter handles routing for giveaway lifecycle events.
type GiveawayRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
}

// NewGiveawayRouter creates a new GiveawayRouter.
func NewGiveawayRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
) *GiveawayRouter {
	return &GiveawayRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
	}
}

// Configure attaches middleware and registers the handlers.
func (r *GiveawayRouter) Configure(ctx context.Context, handlers giveawayhandlers.Handler) error {
	metricsBuilder := metrics.NewPrometheusMetricsBuilder(prometheus.NewRegistry(), "", "")
	metricsBuilder.AddPrometheusRouterMetrics(r.Router)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register giveaway handlers: %w", err)
	}
	return nil
}

// RegisterHandlers wires all giveaway event handlers. Returned messages are
// published to the topic named in their metadata.
func (r *GiveawayRouter) RegisterHandlers(ctx context.Context, handlers giveawayhandlers.Handler) error {
	r.logger.InfoContext(ctx, "Registering giveaway handlers")

	eventsToHandlers := map[string]func(msg *message.Message) ([]*message.Message, error){
		giveawayevents.GiveawayExpiredTopic:   handlers.HandleGiveawayExpired,
		giveawayevents.GiveawayCreatedTopic:   handlers.HandleGiveawayCreated,
		giveawayevents.GiveawayFinalizedTopic: handlers.HandleGiveawayFinalized,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("giveaway.%s", topic)
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing giveaway message",
						attr.String("message_id", msg.UUID),
						attr.Error(err),
					)
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get("topic")
					if publishTopic == "" {
						r.logger.WarnContext(ctx, "Dropping result message without topic metadata",
							attr.String("message_id", m.UUID),
						)
						continue
					}
					if err := r.publisher.Publish(publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}

// Close stops the underlying router.
func (r *GiveawayRouter) Close() error {
	return r.Router.Close()
}
