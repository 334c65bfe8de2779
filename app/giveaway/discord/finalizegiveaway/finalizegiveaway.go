package finalizegiveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/config"
)

// Custom-ID prefix for the reroll button attached to terminal announcements.
const RerollButtonPrefix = "giveaway_reroll|"

// FinalizeGiveawayManager runs the one-time terminal processing of an
// expired giveaway.
type FinalizeGiveawayManager interface {
	FinalizeGiveaway(ctx context.Context, g giveawayevents.GiveawayExpiredPayload) (FinalizeGiveawayResult, error)
}

// FinalizeGiveawayResult reports the pipeline outcome. Abandoned means the
// terminal announcement could not be written; the giveaway is still
// considered finalized but no further side effects ran and no audit record
// should be emitted.
type FinalizeGiveawayResult struct {
	Payload       giveawayevents.GiveawayFinalizedPayload
	Abandoned     bool
	TicketsOpened int
}

type finalizeGiveawayManager struct {
	session          discord.Session
	logger           *slog.Logger
	config           *config.Config
	pick             func(participants []string, count int) ([]string, error)
	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (FinalizeGiveawayResult, error)) (FinalizeGiveawayResult, error)
}

// NewFinalizeGiveawayManager creates a FinalizeGiveawayManager. pick is the
// winner selection function (injectable for tests).
func NewFinalizeGiveawayManager(
	session discord.Session,
	logger *slog.Logger,
	cfg *config.Config,
	tracer trace.Tracer,
	pick func(participants []string, count int) ([]string, error),
) FinalizeGiveawayManager {
	return &finalizeGiveawayManager{
		session: session,
		logger:  logger,
		config:  cfg,
		pick:    pick,
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (FinalizeGiveawayResult, error)) (FinalizeGiveawayResult, error) {
			return wrapFinalizeOperation(ctx, opName, fn, logger, tracer)
		},
	}
}

// FinalizeGiveaway drives the pipeline: winner selection, terminal
// announcement, public mention, one ticket channel per winner. The giveaway
// is already claimed out of the store when this runs, so every failure mode
// is terminal; nothing here retries the whole pipeline.
func (m *finalizeGiveawayManager) FinalizeGiveaway(ctx context.Context, g giveawayevents.GiveawayExpiredPayload) (FinalizeGiveawayResult, error) {
	if m.config.Giveaway.FinalizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Giveaway.FinalizeTimeout)
		defer cancel()
	}

	return m.operationWrapper(ctx, "finalize_giveaway", func(ctx context.Context) (FinalizeGiveawayResult, error) {
		winners, err := m.pick(g.Participants, g.WinnerCount)
		if err != nil {
			return FinalizeGiveawayResult{Abandoned: true}, fmt.Errorf("winner selection failed for giveaway %s: %w", g.MessageID, err)
		}

		result := FinalizeGiveawayResult{
			Payload: giveawayevents.GiveawayFinalizedPayload{
				MessageID:        g.MessageID,
				ChannelID:        g.ChannelID,
				Prize:            g.Prize,
				ParticipantCount: len(g.Participants),
				WinnerCount:      g.WinnerCount,
				Winners:          winners,
				Reason:           giveawayevents.FinalizeReasonWinnersDrawn,
			},
		}
		if len(winners) == 0 {
			result.Payload.Reason = giveawayevents.FinalizeReasonNoParticipants
		}

		if err := m.announceTerminal(ctx, g, winners); err != nil {
			m.logger.ErrorContext(ctx, "Failed to rewrite giveaway announcement; abandoning finalization",
				attr.GiveawayID(g.MessageID),
				attr.Error(err),
			)
			result.Abandoned = true
			result.Payload.Reason = giveawayevents.FinalizeReasonAbandoned
			return result, nil
		}

		if len(winners) == 0 {
			m.notifyNoWinners(ctx, g)
			return result, nil
		}

		m.notifyWinners(ctx, g, winners)
		result.TicketsOpened = m.openTickets(ctx, g, winners)
		return result, nil
	})
}

// announceTerminal rewrites the original announcement in place with the
// terminal embed and a reroll button.
func (m *finalizeGiveawayManager) announceTerminal(ctx context.Context, g giveawayevents.GiveawayExpiredPayload, winners []string) error {
	edit := terminalMessageEdit(g, winners)
	return discord.RetryDiscordAPI(m.logger, "edit_giveaway_announcement", func() error {
		_, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
		return err
	})
}

func (m *finalizeGiveawayManager) notifyWinners(ctx context.Context, g giveawayevents.GiveawayExpiredPayload, winners []string) {
	content := fmt.Sprintf("🎉 Congratulations to %s on winning **%s**!", mentionList(winners), g.Prize)
	if _, err := m.session.ChannelMessageSend(g.ChannelID, content, discordgo.WithContext(ctx)); err != nil {
		m.logger.ErrorContext(ctx, "Failed to post winner notification",
			attr.GiveawayID(g.MessageID),
			attr.Error(err),
		)
	}
}

func (m *finalizeGiveawayManager) notifyNoWinners(ctx context.Context, g giveawayevents.GiveawayExpiredPayload) {
	content := fmt.Sprintf("❌ No winners for the **%s** giveaway because nobody joined.", g.Prize)
	if _, err := m.session.ChannelMessageSend(g.ChannelID, content, discordgo.WithContext(ctx)); err != nil {
		m.logger.ErrorContext(ctx, "Failed to post no-winner notice",
			attr.GiveawayID(g.MessageID),
			attr.Error(err),
		)
	}
}

// openTickets creates one private follow-up channel per winner. Failures are
// isolated per winner so one denied channel never blocks the rest.
func (m *finalizeGiveawayManager) openTickets(ctx context.Context, g giveawayevents.GiveawayExpiredPayload, winners []string) int {
	opened := 0
	for _, winnerID := range winners {
		if err := m.openTicket(ctx, g, winnerID); err != nil {
			m.logger.ErrorContext(ctx, "Failed to open winner ticket",
				attr.GiveawayID(g.MessageID),
				attr.UserID(winnerID),
				attr.Error(err),
			)
			continue
		}
		opened++
	}
	return opened
}

func (m *finalizeGiveawayManager) openTicket(ctx context.Context, g giveawayevents.GiveawayExpiredPayload, winnerID string) error {
	winner, err := m.session.User(winnerID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch winner %s: %w", winnerID, err)
	}

	channel, err := m.session.GuildChannelCreateComplex(g.GuildID, ticketChannelData(m.config, g, winner), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create ticket channel for %s: %w", winnerID, err)
	}

	seed := ticketSeedMessage(g, winnerID)
	if _, err := m.session.ChannelMessageSendComplex(channel.ID, seed, discordgo.WithContext(ctx)); err != nil {
		// The channel exists; a failed seed message is not worth tearing it
		// down for.
		m.logger.WarnContext(ctx, "Ticket channel created but seed message failed",
			attr.ChannelID(channel.ID),
			attr.UserID(winnerID),
			attr.Error(err),
		)
	}

	m.logger.InfoContext(ctx, "Winner ticket opened",
		attr.GiveawayID(g.MessageID),
		attr.UserID(winnerID),
		attr.ChannelID(channel.ID),
	)
	return nil
}

func wrapFinalizeOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (FinalizeGiveawayResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
) (result FinalizeGiveawayResult, err error) {
	if fn == nil {
		return FinalizeGiveawayResult{}, errors.New("operation function is nil")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	ctx, span := tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			span.RecordError(err)
			if logger != nil {
				logger.ErrorContext(ctx, "Recovered from panic", attr.Error(err))
			}
		}
		if logger != nil {
			logger.DebugContext(ctx, "Operation finished",
				attr.String("operation", operationName),
				attr.Duration("duration", time.Since(start)),
			)
		}
	}()

	return fn(ctx)
}
