// Package rerollgiveaway redraws winners for a giveaway that already ended.
// It works from the terminal announcement message, so it survives restarts
// that dropped the in-memory record.
package rerollgiveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	discord "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/finalizegiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

// ErrNoParticipants is returned when neither the retained record nor the
// reaction fallback yields anyone to draw from.
var ErrNoParticipants = errors.New("no participants to reroll from")

const reactionFallbackEmoji = "🎉"

// RerollGiveawayManager defines the reroll operations.
type RerollGiveawayManager interface {
	HandleRerollButton(ctx context.Context, i *discordgo.InteractionCreate) (RerollGiveawayOperationResult, error)
	HandleRerollCommand(ctx context.Context, i *discordgo.InteractionCreate) (RerollGiveawayOperationResult, error)
}

// RerollGiveawayOperationResult is the outcome of one reroll.
type RerollGiveawayOperationResult struct {
	Success interface{}
	Error   error
}

type rerollGiveawayManager struct {
	session          discord.Session
	logger           *slog.Logger
	store            store.GiveawayStore
	pick             func(participants []string, count int) ([]string, error)
	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (RerollGiveawayOperationResult, error)) (RerollGiveawayOperationResult, error)
}

// NewRerollGiveawayManager creates a new RerollGiveawayManager instance.
func NewRerollGiveawayManager(
	session discord.Session,
	logger *slog.Logger,
	giveawayStore store.GiveawayStore,
	tracer trace.Tracer,
	pick func(participants []string, count int) ([]string, error),
) RerollGiveawayManager {
	return &rerollGiveawayManager{
		session: session,
		logger:  logger,
		store:   giveawayStore,
		pick:    pick,
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (RerollGiveawayOperationResult, error)) (RerollGiveawayOperationResult, error) {
			return wrapRerollOperation(ctx, opName, fn, logger, tracer)
		},
	}
}

// HandleRerollButton serves the reroll button on terminal announcements. The
// message ID rides in the custom ID after the prefix.
func (rm *rerollGiveawayManager) HandleRerollButton(ctx context.Context, i *discordgo.InteractionCreate) (RerollGiveawayOperationResult, error) {
	return rm.operationWrapper(ctx, "reroll_giveaway_button", func(ctx context.Context) (RerollGiveawayOperationResult, error) {
		customID := i.MessageComponentData().CustomID
		messageID := strings.TrimPrefix(customID, finalizegiveaway.RerollButtonPrefix)
		if messageID == "" || messageID == customID {
			return RerollGiveawayOperationResult{Error: fmt.Errorf("malformed reroll custom ID %q", customID)}, nil
		}
		return rm.reroll(ctx, i, messageID)
	})
}

// HandleRerollCommand serves the slash subcommand with an explicit message ID.
func (rm *rerollGiveawayManager) HandleRerollCommand(ctx context.Context, i *discordgo.InteractionCreate) (RerollGiveawayOperationResult, error) {
	return rm.operationWrapper(ctx, "reroll_giveaway_command", func(ctx context.Context) (RerollGiveawayOperationResult, error) {
		messageID := messageIDOption(i)
		if messageID == "" {
			rm.respondEphemeral(ctx, i, "❌ Provide the message ID of an ended giveaway.")
			return RerollGiveawayOperationResult{Error: errors.New("missing message_id option")}, nil
		}
		return rm.reroll(ctx, i, messageID)
	})
}

func (rm *rerollGiveawayManager) reroll(ctx context.Context, i *discordgo.InteractionCreate, messageID string) (RerollGiveawayOperationResult, error) {
	msg, err := rm.session.ChannelMessage(i.ChannelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		rm.respondEphemeral(ctx, i, "❌ That giveaway message was not found in this channel.")
		return RerollGiveawayOperationResult{Error: fmt.Errorf("failed to fetch giveaway message %s: %w", messageID, err)}, nil
	}

	prize, ok := terminalPrize(msg)
	if !ok {
		rm.respondEphemeral(ctx, i, "❌ That message is not an ended giveaway.")
		return RerollGiveawayOperationResult{Success: "not a terminal announcement"}, nil
	}

	participants, winnerCount, err := rm.recoverParticipants(ctx, msg)
	if err != nil {
		if errors.Is(err, ErrNoParticipants) {
			rm.respondEphemeral(ctx, i, "❌ There are no participants in this giveaway.")
			return RerollGiveawayOperationResult{Error: err}, nil
		}
		rm.respondEphemeral(ctx, i, "❌ Could not recover the participants. Try again.")
		return RerollGiveawayOperationResult{Error: err}, nil
	}

	winners, err := rm.pick(participants, winnerCount)
	if err != nil {
		return RerollGiveawayOperationResult{Error: fmt.Errorf("winner selection failed: %w", err)}, nil
	}

	mentions := make([]string, 0, len(winners))
	for _, id := range winners {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}
	announcement := fmt.Sprintf("🎉 The new winner(s) of the **%s** giveaway: %s!", prize, strings.Join(mentions, ", "))
	if _, err := rm.session.ChannelMessageSend(msg.ChannelID, announcement, discordgo.WithContext(ctx)); err != nil {
		rm.respondEphemeral(ctx, i, "❌ The reroll succeeded but the announcement could not be posted.")
		return RerollGiveawayOperationResult{Error: fmt.Errorf("failed to announce reroll: %w", err)}, nil
	}

	rm.logger.InfoContext(ctx, "Giveaway rerolled",
		attr.GiveawayID(messageID),
		attr.Int("participant_count", len(participants)),
		attr.Int("winner_count", len(winners)),
	)
	rm.respondEphemeral(ctx, i, fmt.Sprintf("✅ Picked new winner(s) for **%s**.", prize))
	return RerollGiveawayOperationResult{Success: winners}, nil
}

// recoverParticipants prefers the retained store record; when the bot
// restarted since the giveaway ended it falls back to the 🎉 reactions on the
// announcement, excluding bot accounts.
func (rm *rerollGiveawayManager) recoverParticipants(ctx context.Context, msg *discordgo.Message) ([]string, int, error) {
	if record, err := rm.store.GetEnded(msg.ID); err == nil {
		if len(record.Participants) == 0 {
			return nil, 0, ErrNoParticipants
		}
		return record.Participants, record.WinnerCount, nil
	}

	users, err := rm.session.MessageReactions(msg.ChannelID, msg.ID, reactionFallbackEmoji, 100, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reaction participants: %w", err)
	}

	participants := make([]string, 0, len(users))
	for _, user := range users {
		if user.Bot {
			continue
		}
		participants = append(participants, user.ID)
	}
	if len(participants) == 0 {
		return nil, 0, ErrNoParticipants
	}
	// The original winner count is gone with the record.
	return participants, 1, nil
}

// terminalPrize extracts the prize from a terminal announcement embed title.
func terminalPrize(msg *discordgo.Message) (string, bool) {
	if msg == nil || len(msg.Embeds) == 0 {
		return "", false
	}
	title := msg.Embeds[0].Title
	if !strings.HasPrefix(title, finalizegiveaway.TerminalTitlePrefix) {
		return "", false
	}
	return strings.TrimPrefix(title, finalizegiveaway.TerminalTitlePrefix), true
}

func messageIDOption(i *discordgo.InteractionCreate) string {
	options := i.ApplicationCommandData().Options
	if len(options) == 1 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		options = options[0].Options
	}
	for _, opt := range options {
		if opt.Name == "message_id" {
			return opt.StringValue()
		}
	}
	return ""
}

func (rm *rerollGiveawayManager) respondEphemeral(ctx context.Context, i *discordgo.InteractionCreate, content string) {
	err := rm.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		rm.logger.ErrorContext(ctx, "Failed to respond to reroll interaction", attr.Error(err))
	}
}

func wrapRerollOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (RerollGiveawayOperationResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
) (result RerollGiveawayOperationResult, err error) {
	if fn == nil {
		return RerollGiveawayOperationResult{}, errors.New("operation function is nil")
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
