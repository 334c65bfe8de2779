// Package giveawayhandlers consumes the giveaway lifecycle topics. The
// expired handler drives finalization; the created and finalized handlers
// write the audit trail to the logs channel.
package giveawayhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/finalizegiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
	"github.com/glowmart/discord-giveaway-bot/config"
)

// Handler defines the giveaway event handlers.
type Handler interface {
	HandleGiveawayExpired(msg *message.Message) ([]*message.Message, error)
	HandleGiveawayCreated(msg *message.Message) ([]*message.Message, error)
	HandleGiveawayFinalized(msg *message.Message) ([]*message.Message, error)
}

// GiveawayHandlers handles giveaway lifecycle events.
type GiveawayHandlers struct {
	logger    *slog.Logger
	config    *config.Config
	helper    utils.Helpers
	session   discord.Session
	finalizer finalizegiveaway.FinalizeGiveawayManager
	tracer    trace.Tracer
}

// NewGiveawayHandlers creates a new GiveawayHandlers struct.
func NewGiveawayHandlers(
	logger *slog.Logger,
	cfg *config.Config,
	helper utils.Helpers,
	session discord.Session,
	finalizer finalizegiveaway.FinalizeGiveawayManager,
	tracer trace.Tracer,
) Handler {
	return &GiveawayHandlers{
		logger:    logger,
		config:    cfg,
		helper:    helper,
		session:   session,
		finalizer: finalizer,
		tracer:    tracer,
	}
}

// HandleGiveawayExpired runs the finalization pipeline for one claimed
// giveaway. It always returns a nil error: the giveaway is out of the store,
// so redelivery would re-run Discord side effects rather than fix anything.
func (h *GiveawayHandlers) HandleGiveawayExpired(msg *message.Message) ([]*message.Message, error) {
	ctx := msg.Context()

	var payload giveawayevents.GiveawayExpiredPayload
	if err := h.helper.UnmarshalPayload(msg, &payload); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unmarshal expired giveaway event",
			attr.CorrelationIDFromMsg(msg),
			attr.Error(err),
		)
		return nil, nil
	}

	result, err := h.finalizer.FinalizeGiveaway(ctx, payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "Finalization failed",
			attr.GiveawayID(payload.MessageID),
			attr.CorrelationIDFromMsg(msg),
			attr.Error(err),
		)
		return nil, nil
	}
	if result.Abandoned {
		h.logger.WarnContext(ctx, "Finalization abandoned; no audit record emitted",
			attr.GiveawayID(payload.MessageID),
			attr.CorrelationIDFromMsg(msg),
		)
		return nil, nil
	}

	out, err := h.helper.CreateResultMessage(msg, result.Payload, giveawayevents.GiveawayFinalizedTopic)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build finalized event",
			attr.GiveawayID(payload.MessageID),
			attr.Error(err),
		)
		return nil, nil
	}

	h.logger.InfoContext(ctx, "Giveaway finalized",
		attr.GiveawayID(payload.MessageID),
		attr.String("reason", result.Payload.Reason),
		attr.Int("winner_count", len(result.Payload.Winners)),
		attr.Int("tickets_opened", result.TicketsOpened),
	)
	return []*message.Message{out}, nil
}

// HandleGiveawayCreated writes the creation audit embed. Fire-and-forget;
// audit must never block or retry the lifecycle.
func (h *GiveawayHandlers) HandleGiveawayCreated(msg *message.Message) ([]*message.Message, error) {
	ctx := msg.Context()

	var payload giveawayevents.GiveawayCreatedPayload
	if err := h.helper.UnmarshalPayload(msg, &payload); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unmarshal created giveaway event", attr.Error(err))
		return nil, nil
	}

	h.sendAudit(ctx, createdAuditMessage(payload))
	return nil, nil
}

// HandleGiveawayFinalized writes the outcome audit embed.
func (h *GiveawayHandlers) HandleGiveawayFinalized(msg *message.Message) ([]*message.Message, error) {
	ctx := msg.Context()

	var payload giveawayevents.GiveawayFinalizedPayload
	if err := h.helper.UnmarshalPayload(msg, &payload); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unmarshal finalized giveaway event", attr.Error(err))
		return nil, nil
	}

	h.sendAudit(ctx, finalizedAuditMessage(payload))
	return nil, nil
}
