// Package giveawayentry handles the join button on giveaway announcements.
// A press toggles membership: first press enters, second press withdraws.
package giveawayentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/creategiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

// GiveawayEntryManager defines the join/leave toggle operation.
type GiveawayEntryManager interface {
	HandleJoinButton(ctx context.Context, i *discordgo.InteractionCreate) (GiveawayEntryOperationResult, error)
}

// GiveawayEntryOperationResult is the outcome of one toggle.
type GiveawayEntryOperationResult struct {
	Success interface{}
	Error   error
}

type giveawayEntryManager struct {
	session          discord.Session
	logger           *slog.Logger
	store            store.GiveawayStore
	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (GiveawayEntryOperationResult, error)) (GiveawayEntryOperationResult, error)
}

// NewGiveawayEntryManager creates a new GiveawayEntryManager instance.
func NewGiveawayEntryManager(
	session discord.Session,
	logger *slog.Logger,
	giveawayStore store.GiveawayStore,
	tracer trace.Tracer,
) GiveawayEntryManager {
	return &giveawayEntryManager{
		session: session,
		logger:  logger,
		store:   giveawayStore,
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (GiveawayEntryOperationResult, error)) (GiveawayEntryOperationResult, error) {
			return wrapEntryOperation(ctx, opName, fn, logger, tracer)
		},
	}
}

// HandleJoinButton toggles the pressing user's membership in the giveaway
// posted as the interaction's message.
func (em *giveawayEntryManager) HandleJoinButton(ctx context.Context, i *discordgo.InteractionCreate) (GiveawayEntryOperationResult, error) {
	return em.operationWrapper(ctx, "toggle_giveaway_entry", func(ctx context.Context) (GiveawayEntryOperationResult, error) {
		if i.Message == nil || i.Member == nil {
			return GiveawayEntryOperationResult{Error: errors.New("join press without message or member")}, nil
		}
		messageID := i.Message.ID
		userID := i.Member.User.ID

		joined, count, err := em.store.ToggleParticipant(messageID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				em.respondEphemeral(ctx, i, "❌ This giveaway is no longer available.")
				return GiveawayEntryOperationResult{Success: "giveaway gone"}, nil
			}
			return GiveawayEntryOperationResult{Error: err}, nil
		}

		// The entry is already recorded; a stale count on the announcement is
		// cosmetic and the next toggle repairs it.
		if err := em.patchParticipantCount(ctx, i.Message, count); err != nil {
			em.logger.WarnContext(ctx, "Failed to update participant count on announcement",
				attr.GiveawayID(messageID),
				attr.Error(err),
			)
		}

		if joined {
			em.respondEphemeral(ctx, i, fmt.Sprintf("🎉 You're in! %d participant(s) so far.", count))
		} else {
			em.respondEphemeral(ctx, i, fmt.Sprintf("👋 You left the giveaway. %d participant(s) remain.", count))
		}

		em.logger.InfoContext(ctx, "Giveaway entry toggled",
			attr.GiveawayID(messageID),
			attr.UserID(userID),
			attr.Bool("joined", joined),
			attr.Int("participant_count", count),
		)
		return GiveawayEntryOperationResult{Success: joined}, nil
	})
}

// patchParticipantCount rewrites only the participant-count field of the
// announcement embed, leaving the rest of the message untouched.
func (em *giveawayEntryManager) patchParticipantCount(ctx context.Context, msg *discordgo.Message, count int) error {
	if len(msg.Embeds) == 0 {
		return errors.New("announcement has no embed")
	}

	embeds := make([]*discordgo.MessageEmbed, len(msg.Embeds))
	copy(embeds, msg.Embeds)

	patched := *embeds[0]
	patched.Fields = make([]*discordgo.MessageEmbedField, len(msg.Embeds[0].Fields))
	for idx, field := range msg.Embeds[0].Fields {
		if field.Name == creategiveaway.ParticipantsFieldName {
			updated := *field
			updated.Value = fmt.Sprintf("%d", count)
			patched.Fields[idx] = &updated
			continue
		}
		patched.Fields[idx] = field
	}
	embeds[0] = &patched

	_, err := em.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: msg.ChannelID,
		ID:      msg.ID,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	return err
}

func (em *giveawayEntryManager) respondEphemeral(ctx context.Context, i *discordgo.InteractionCreate, content string) {
	err := em.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		em.logger.ErrorContext(ctx, "Failed to respond to join press", attr.Error(err))
	}
}

func wrapEntryOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (GiveawayEntryOperationResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
) (result GiveawayEntryOperationResult, err error) {
	if fn == nil {
		return GiveawayEntryOperationResult{}, errors.New("operation function is nil")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	ctx, span := tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			span.RecordError(err)
			if logger != nil {
				logger.ErrorContext(ctx, "Recovered from panic", attr.Error(err))
			}
		}
	}()

	result, err = fn(ctx)
	if result.Error != nil {
		span.RecordError(result.Error)
	}
	return result, err
}
