// Package creategiveaway handles the admin-facing lifecycle commands: the
// creation commands that post a new giveaway announcement and the force-end
// command that collapses a running giveaway's deadline.
package creategiveaway

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
	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
	"github.com/glowmart/discord-giveaway-bot/config"
)

// JoinButtonID is the custom ID on the announcement's join button.
const JoinButtonID = "giveaway_join"

// ParticipantsFieldName names the announcement embed field the entry handler
// patches on every join/leave.
const ParticipantsFieldName = "Participants"

// CreateGiveawayManager defines the admin lifecycle operations.
type CreateGiveawayManager interface {
	HandleCreateGiveaway(ctx context.Context, i *discordgo.InteractionCreate) (CreateGiveawayOperationResult, error)
	HandleForceEnd(ctx context.Context, i *discordgo.InteractionCreate) (CreateGiveawayOperationResult, error)
}

// CreateGiveawayOperationResult is the outcome of one operation.
type CreateGiveawayOperationResult struct {
	Success interface{}
	Error   error
}

type createGiveawayManager struct {
	session          discord.Session
	publisher        eventbus.EventBus
	logger           *slog.Logger
	helper           utils.Helpers
	config           *config.Config
	store            store.GiveawayStore
	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (CreateGiveawayOperationResult, error)) (CreateGiveawayOperationResult, error)
}

// NewCreateGiveawayManager creates a new CreateGiveawayManager instance.
func NewCreateGiveawayManager(
	session discord.Session,
	publisher eventbus.EventBus,
	logger *slog.Logger,
	helper utils.Helpers,
	cfg *config.Config,
	giveawayStore store.GiveawayStore,
	tracer trace.Tracer,
) CreateGiveawayManager {
	return &createGiveawayManager{
		session:   session,
		publisher: publisher,
		logger:    logger,
		helper:    helper,
		config:    cfg,
		store:     giveawayStore,
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (CreateGiveawayOperationResult, error)) (CreateGiveawayOperationResult, error) {
			return wrapCreateGiveawayOperation(ctx, opName, fn, logger, tracer)
		},
	}
}

// HandleCreateGiveaway serves both creation commands. The options carry the
// same names in both, so one parser covers them.
func (cm *createGiveawayManager) HandleCreateGiveaway(ctx context.Context, i *discordgo.InteractionCreate) (CreateGiveawayOperationResult, error) {
	return cm.operationWrapper(ctx, "create_giveaway", func(ctx context.Context) (CreateGiveawayOperationResult, error) {
		if !cm.isAdmin(i) {
			cm.respondEphemeral(ctx, i, "❌ You need the giveaway admin role to run this command.")
			return CreateGiveawayOperationResult{Success: "denied: not an admin"}, nil
		}

		opts := commandOptions(i)
		prize := stringOption(opts, "prize")
		winners := int(intOption(opts, "winners"))
		duration := int(intOption(opts, "duration"))
		description := stringOption(opts, "description")
		imageURL := stringOption(opts, "image")

		limits := store.Limits{
			MaxWinners:         cm.config.Giveaway.MaxWinners,
			MaxDurationMinutes: cm.config.Giveaway.MaxDurationMinutes,
		}
		if err := store.ValidateSpec(winners, duration, limits); err != nil {
			cm.respondEphemeral(ctx, i, fmt.Sprintf("❌ %v", err))
			return CreateGiveawayOperationResult{Error: err}, nil
		}

		endTime := time.Now().Add(time.Duration(duration) * time.Minute)
		announcement, err := cm.session.ChannelMessageSendComplex(i.ChannelID, announcementMessage(prize, description, imageURL, winners, i.Member.User.ID, endTime))
		if err != nil {
			cm.logger.ErrorContext(ctx, "Failed to post giveaway announcement", attr.Error(err))
			cm.respondEphemeral(ctx, i, "❌ Could not post the giveaway announcement. Check the bot's channel permissions.")
			return CreateGiveawayOperationResult{Error: fmt.Errorf("failed to post announcement: %w", err)}, nil
		}

		giveaway, err := cm.store.Create(store.CreateSpec{
			MessageID:       announcement.ID,
			ChannelID:       i.ChannelID,
			GuildID:         i.GuildID,
			Prize:           prize,
			WinnerCount:     winners,
			DurationMinutes: duration,
			Description:     description,
			ImageURL:        imageURL,
			CreatedBy:       i.Member.User.ID,
		})
		if err != nil {
			cm.logger.ErrorContext(ctx, "Failed to track posted giveaway",
				attr.GiveawayID(announcement.ID),
				attr.Error(err),
			)
			cm.respondEphemeral(ctx, i, "❌ The announcement was posted but the giveaway could not be tracked.")
			return CreateGiveawayOperationResult{Error: err}, nil
		}

		cm.publishCreated(ctx, giveaway, duration)

		cm.logger.InfoContext(ctx, "Giveaway created",
			attr.GiveawayID(giveaway.MessageID),
			attr.String("prize", prize),
			attr.Int("winner_count", winners),
			attr.UserID(i.Member.User.ID),
		)
		cm.respondEphemeral(ctx, i, fmt.Sprintf("🎉 Giveaway for **%s** is live! It ends <t:%d:R>.", prize, endTime.Unix()))
		return CreateGiveawayOperationResult{Success: giveaway.MessageID}, nil
	})
}

// HandleForceEnd collapses the deadline; the sweeper finalizes on its next
// tick so forced and natural endings share one code path.
func (cm *createGiveawayManager) HandleForceEnd(ctx context.Context, i *discordgo.InteractionCreate) (CreateGiveawayOperationResult, error) {
	return cm.operationWrapper(ctx, "force_end_giveaway", func(ctx context.Context) (CreateGiveawayOperationResult, error) {
		if !cm.isAdmin(i) {
			cm.respondEphemeral(ctx, i, "❌ You need the giveaway admin role to run this command.")
			return CreateGiveawayOperationResult{Success: "denied: not an admin"}, nil
		}

		messageID := stringOption(commandOptions(i), "message_id")
		if err := cm.store.ForceEnd(messageID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				cm.respondEphemeral(ctx, i, "❌ That giveaway was not found or has already ended.")
				return CreateGiveawayOperationResult{Success: "not found"}, nil
			}
			return CreateGiveawayOperationResult{Error: err}, nil
		}

		cm.logger.InfoContext(ctx, "Giveaway force-ended",
			attr.GiveawayID(messageID),
			attr.UserID(i.Member.User.ID),
		)
		cm.respondEphemeral(ctx, i, "⏱️ Giveaway ending now; winners will be drawn shortly.")
		return CreateGiveawayOperationResult{Success: messageID}, nil
	})
}

func (cm *createGiveawayManager) publishCreated(ctx context.Context, g *store.Giveaway, durationMinutes int) {
	payload := giveawayevents.GiveawayCreatedPayload{
		MessageID:       g.MessageID,
		ChannelID:       g.ChannelID,
		GuildID:         g.GuildID,
		Prize:           g.Prize,
		WinnerCount:     g.WinnerCount,
		DurationMinutes: durationMinutes,
		Description:     g.Description,
		CreatedBy:       g.CreatedBy,
		EndTime:         g.EndTime,
	}

	msg, err := cm.helper.CreateNewMessage(payload, giveawayevents.GiveawayCreatedTopic)
	if err != nil {
		cm.logger.ErrorContext(ctx, "Failed to build created event", attr.Error(err))
		return
	}
	if err := cm.publisher.Publish(giveawayevents.GiveawayCreatedTopic, msg); err != nil {
		cm.logger.ErrorContext(ctx, "Failed to publish created event",
			attr.GiveawayID(g.MessageID),
			attr.Error(err),
		)
	}
}

// isAdmin accepts the configured admin role or a member with the
// Administrator permission.
func (cm *createGiveawayManager) isAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	for _, role := range i.Member.Roles {
		if role == cm.config.Discord.AdminRoleID {
			return true
		}
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func (cm *createGiveawayManager) respondEphemeral(ctx context.Context, i *discordgo.InteractionCreate, content string) {
	err := cm.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		cm.logger.ErrorContext(ctx, "Failed to respond to interaction", attr.Error(err))
	}
}

// commandOptions flattens top-level and subcommand options into one map.
func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	if len(options) == 1 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		options = options[0].Options
	}

	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if opt, ok := opts[name]; ok {
		return opt.IntValue()
	}
	return 0
}

func wrapCreateGiveawayOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (CreateGiveawayOperationResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
) (result CreateGiveawayOperationResult, err error) {
	if fn == nil {
		return CreateGiveawayOperationResult{}, errors.New("operation function is nil")
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
