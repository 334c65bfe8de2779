package giveawayentry

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/creategiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/interactions"
)

// RegisterHandlers wires the join button into the interaction registry.
func RegisterHandlers(registry *interactions.Registry, manager GiveawayEntryManager) {
	registry.RegisterHandler(creategiveaway.JoinButtonID, func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleJoinButton(ctx, i)
	})
}
