// Package discord registers the bot's slash commands.
package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	discordwrapper "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/config"
)

func minOne() *float64 {
	v := float64(1)
	return &v
}

func createOptions(cfg *config.Config) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prize",
			Description: "What the winners receive",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "winners",
			Description: "How many winners to draw",
			Required:    true,
			MinValue:    minOne(),
			MaxValue:    float64(cfg.Giveaway.MaxWinners),
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duration",
			Description: "How long the giveaway runs, in minutes",
			Required:    true,
			MinValue:    minOne(),
			MaxValue:    float64(cfg.Giveaway.MaxDurationMinutes),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "description",
			Description: "Extra text shown on the announcement",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "image",
			Description: "Image URL shown on the announcement",
		},
	}
}

// RegisterCommands registers the giveaway slash commands, scoped to the
// configured guild so updates propagate immediately.
func RegisterCommands(s discordwrapper.Session, logger *slog.Logger, cfg *config.Config) error {
	botUser, err := s.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to retrieve bot user: %w", err)
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "giveaway",
			Description: "Manage giveaways",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Start a new giveaway",
					Options:     createOptions(cfg),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "End a running giveaway now",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message_id",
							Description: "Message ID of the giveaway announcement",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reroll",
					Description: "Draw new winners for an ended giveaway",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message_id",
							Description: "Message ID of the ended giveaway",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "giveawayroll",
			Description: "Start a giveaway in the current channel",
			Options:     createOptions(cfg),
		},
	}

	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(botUser.ID, cfg.Discord.GuildID, cmd); err != nil {
			logger.Error("Failed to register command", attr.String("command", cmd.Name), attr.Error(err))
			return fmt.Errorf("failed to register '/%s' command: %w", cmd.Name, err)
		}
		logger.Info("Registered command", attr.String("command", cmd.Name))
	}

	return nil
}
