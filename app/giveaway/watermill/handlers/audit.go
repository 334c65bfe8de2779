package giveawayhandlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

const (
	auditColorCreated   = 0x3498DB
	auditColorFinalized = 0x9B59B6
)

// sendAudit posts an audit embed to the logs channel when one is configured.
func (h *GiveawayHandlers) sendAudit(ctx context.Context, embed *discordgo.MessageEmbed) {
	logsChannelID := h.config.Discord.LogsChannelID
	if logsChannelID == "" {
		return
	}

	_, err := h.session.ChannelMessageSendComplex(logsChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to write audit embed",
			attr.ChannelID(logsChannelID),
			attr.Error(err),
		)
	}
}

func createdAuditMessage(p giveawayevents.GiveawayCreatedPayload) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📋 Giveaway Started",
		Color: auditColorCreated,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prize", Value: p.Prize, Inline: true},
			{Name: "Winners", Value: fmt.Sprintf("%d", p.WinnerCount), Inline: true},
			{Name: "Duration", Value: fmt.Sprintf("%d minute(s)", p.DurationMinutes), Inline: true},
			{Name: "Started By", Value: fmt.Sprintf("<@%s>", p.CreatedBy), Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", p.ChannelID), Inline: true},
			{Name: "Ends", Value: fmt.Sprintf("<t:%d:F>", p.EndTime.Unix()), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Message ID: " + p.MessageID},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func finalizedAuditMessage(p giveawayevents.GiveawayFinalizedPayload) *discordgo.MessageEmbed {
	winners := "none"
	if len(p.Winners) > 0 {
		mentions := make([]string, 0, len(p.Winners))
		for _, id := range p.Winners {
			mentions = append(mentions, fmt.Sprintf("<@%s>", id))
		}
		winners = strings.Join(mentions, ", ")
	}

	return &discordgo.MessageEmbed{
		Title: "🏁 Giveaway Ended",
		Color: auditColorFinalized,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prize", Value: p.Prize, Inline: true},
			{Name: "Participants", Value: fmt.Sprintf("%d", p.ParticipantCount), Inline: true},
			{Name: "Outcome", Value: p.Reason, Inline: true},
			{Name: "Winners", Value: winners},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", p.ChannelID), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Message ID: " + p.MessageID},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
