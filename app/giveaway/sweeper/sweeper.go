// Package sweeper runs the periodic expiry scan over active giveaways.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
)

// Sweeper claims expired giveaways on a fixed interval and hands each one to
// the finalization pipeline via the event bus. Claiming happens before any
// publish, so a giveaway is finalized exactly once even when ticks overlap.
type Sweeper struct {
	store     store.GiveawayStore
	publisher eventbus.EventBus
	helper    utils.Helpers
	logger    *slog.Logger
	interval  time.Duration
}

// New creates a Sweeper.
func New(giveawayStore store.GiveawayStore, publisher eventbus.EventBus, helper utils.Helpers, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:     giveawayStore,
		publisher: publisher,
		helper:    helper,
		logger:    logger,
		interval:  interval,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	s.logger.Info("Starting giveaway sweeper", attr.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Giveaway sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce claims every expired giveaway and publishes one expiry event per
// claim. Failures are contained per giveaway; the failed one is abandoned
// (it is already out of the store) and the rest proceed. Returns the number
// of events published.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	claimed := s.store.ClaimExpired(time.Now())
	published := 0

	for _, g := range claimed {
		payload := giveawayevents.GiveawayExpiredPayload{
			MessageID:    g.MessageID,
			ChannelID:    g.ChannelID,
			GuildID:      g.GuildID,
			Prize:        g.Prize,
			WinnerCount:  g.WinnerCount,
			Description:  g.Description,
			ImageURL:     g.ImageURL,
			CreatedBy:    g.CreatedBy,
			EndTime:      g.EndTime,
			Participants: g.Participants,
		}

		msg, err := s.helper.CreateNewMessage(payload, giveawayevents.GiveawayExpiredTopic)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to build expiry event; abandoning giveaway",
				attr.GiveawayID(g.MessageID),
				attr.Error(err),
			)
			continue
		}
		if err := s.publisher.Publish(giveawayevents.GiveawayExpiredTopic, msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish expiry event; abandoning giveaway",
				attr.GiveawayID(g.MessageID),
				attr.Error(err),
			)
			continue
		}

		s.logger.InfoContext(ctx, "Giveaway expired, finalization dispatched",
			attr.GiveawayID(g.MessageID),
			attr.String("prize", g.Prize),
			attr.Int("participants", len(g.Participants)),
		)
		published++
	}
	return published
}
