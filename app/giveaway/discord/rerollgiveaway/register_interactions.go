package rerollgiveaway

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/finalizegiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/interactions"
)

// RegisterHandlers wires the reroll button and subcommand into the
// interaction registry.
func RegisterHandlers(registry *interactions.Registry, manager RerollGiveawayManager) {
	registry.RegisterHandler(finalizegiveaway.RerollButtonPrefix, func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleRerollButton(ctx, i)
	})
	registry.RegisterHandler("giveaway reroll", func(ctx context.Context, i *discordgo.InteractionCreate) {
		manager.HandleRerollCommand(ctx, i)
	})
}
