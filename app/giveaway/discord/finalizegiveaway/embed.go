package finalizegiveaway

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/config"
)

// TerminalTitlePrefix marks an announcement message as finalized. The reroll
// handler checks for it before agreeing to redraw, so it doubles as the
// "this giveaway is over" sentinel on Discord itself.
const TerminalTitlePrefix = "🎉 Giveaway Ended: "

const embedColorEnded = 0x95A5A6

var channelNameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// terminalMessageEdit builds the in-place rewrite of the original
// announcement: ended embed, join button gone, reroll button attached.
func terminalMessageEdit(g giveawayevents.GiveawayExpiredPayload, winners []string) *discordgo.MessageEdit {
	winnersLine := "Nobody joined, so no winners were drawn."
	if len(winners) > 0 {
		winnersLine = mentionList(winners)
	}

	embed := &discordgo.MessageEmbed{
		Title: TerminalTitlePrefix + g.Prize,
		Color: embedColorEnded,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winners", Value: winnersLine},
			{Name: "Participants", Value: fmt.Sprintf("%d", len(g.Participants)), Inline: true},
			{Name: "Hosted By", Value: fmt.Sprintf("<@%s>", g.CreatedBy), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Giveaway ended"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if g.Description != "" {
		embed.Description = g.Description
	}
	if g.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: g.ImageURL}
	}

	embeds := []*discordgo.MessageEmbed{embed}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Reroll",
					Style:    discordgo.SecondaryButton,
					CustomID: RerollButtonPrefix + g.MessageID,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎲"},
				},
			},
		},
	}

	return &discordgo.MessageEdit{
		Channel:    g.ChannelID,
		ID:         g.MessageID,
		Embeds:     &embeds,
		Components: &components,
	}
}

// ticketChannelData describes the private winner channel: hidden from
// @everyone, visible to the winner and the admin role.
func ticketChannelData(cfg *config.Config, g giveawayevents.GiveawayExpiredPayload, winner *discordgo.User) discordgo.GuildChannelCreateData {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   g.GuildID, // @everyone shares the guild ID
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    winner.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}
	if cfg.Discord.AdminRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.Discord.AdminRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}

	return discordgo.GuildChannelCreateData{
		Name:                 ticketChannelName(winner.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Prize claim for %s", g.Prize),
		ParentID:             cfg.Discord.TicketCategoryID,
		PermissionOverwrites: overwrites,
	}
}

func ticketChannelName(username string) string {
	safe := channelNameUnsafe.ReplaceAllString(strings.ToLower(username), "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		safe = "winner"
	}
	stamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("giveaway-%s-%s", safe, stamp[len(stamp)-4:])
}

func ticketSeedMessage(g giveawayevents.GiveawayExpiredPayload, winnerID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", winnerID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "🎁 Claim Your Prize",
				Description: fmt.Sprintf("Congratulations <@%s>! You won **%s**.\nA staff member will be with you shortly to arrange delivery.", winnerID, g.Prize),
				Color:       0x2ECC71,
			},
		},
	}
}

func mentionList(userIDs []string) string {
	mentions := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}
	return strings.Join(mentions, ", ")
}
