package creategiveaway

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const embedColorActive = 0xF1C40F

// announcementMessage builds the public giveaway post: prize embed plus the
// join button every member toggles.
func announcementMessage(prize, description, imageURL string, winnerCount int, hostID string, endTime time.Time) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title: "🎉 Giveaway: " + prize,
		Color: embedColorActive,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winners", Value: fmt.Sprintf("%d", winnerCount), Inline: true},
			{Name: ParticipantsFieldName, Value: "0", Inline: true},
			{Name: "Ends", Value: fmt.Sprintf("<t:%d:R>", endTime.Unix()), Inline: true},
			{Name: "Hosted By", Value: fmt.Sprintf("<@%s>", hostID), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Press the button to enter"},
		Timestamp: endTime.UTC().Format(time.RFC3339),
	}
	if description != "" {
		embed.Description = description
	}
	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Join Giveaway",
						Style:    discordgo.PrimaryButton,
						CustomID: JoinButtonID,
						Emoji:    &discordgo.ComponentEmoji{Name: "🎉"},
					},
				},
			},
		},
	}
}
