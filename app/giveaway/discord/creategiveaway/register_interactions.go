package creategiveaway

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/glowmart/discord-giveaway-bot/app/interactions"
)

// RegisterHandlers wires the creation and force-end commands into the
// interaction registry.
func RegisterHandlers(registry *interactions.Registry, manager CreateGiveawayManager) {
	registry.RegisterHandler("giveaway create", func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleCreateGiveaway(ctx, i)
	})
	registry.RegisterHandler("giveawayroll", func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleCreateGiveaway(ctx, i)
	})
	registry.RegisterHandler("giveaway end", func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleForceEnd(ctx, i)
	})
}
