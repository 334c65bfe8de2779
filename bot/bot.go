// Package bot assembles and runs the Discord giveaway bot.
package bot

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	discordapp "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/sweeper"
	"github.com/glowmart/discord-giveaway-bot/app/health"
	"github.com/glowmart/discord-giveaway-bot/app/interactions"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/config"
	"github.com/glowmart/discord-giveaway-bot/discord"
)

// DiscordBot owns the long-lived pieces of the process: the gateway session,
// the Watermill router, the event bus, and the expiry sweeper.
type DiscordBot struct {
	Session         discordapp.Session
	Logger          *slog.Logger
	Config          *config.Config
	Registry        *interactions.Registry
	WatermillRouter *message.Router
	EventBus        eventbus.EventBus
	Sweeper         *sweeper.Sweeper
	Health          *health.Handler
}

// NewDiscordBot creates a DiscordBot from already-wired components.
func NewDiscordBot(
	session discordapp.Session,
	cfg *config.Config,
	logger *slog.Logger,
	registry *interactions.Registry,
	eventBus eventbus.EventBus,
	router *message.Router,
	giveawaySweeper *sweeper.Sweeper,
	healthHandler *health.Handler,
) *DiscordBot {
	return &DiscordBot{
		Session:         session,
		Logger:          logger,
		Config:          cfg,
		Registry:        registry,
		WatermillRouter: router,
		EventBus:        eventBus,
		Sweeper:         giveawaySweeper,
		Health:          healthHandler,
	}
}

// Run registers commands and gateway handlers, opens the session, and starts
// the router and the sweeper. It returns once startup is complete; shutdown
// rides on ctx cancellation.
func (bot *DiscordBot) Run(ctx context.Context) error {
	if err := discord.RegisterCommands(bot.Session, bot.Logger, bot.Config); err != nil {
		bot.Logger.ErrorContext(ctx, "Failed to register slash commands", attr.Error(err))
		return err
	}

	bot.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		bot.Registry.HandleInteraction(s, i)
	})
	bot.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		bot.Logger.InfoContext(ctx, "Discord gateway connected",
			attr.String("username", r.User.Username),
		)
		if bot.Health != nil {
			bot.Health.SetReady(true)
		}
	})

	if err := bot.Session.Open(); err != nil {
		bot.Logger.ErrorContext(ctx, "Error opening Discord connection", attr.Error(err))
		return err
	}

	go func() {
		if err := bot.WatermillRouter.Run(ctx); err != nil {
			bot.Logger.ErrorContext(ctx, "Watermill router stopped", attr.Error(err))
		}
	}()
	<-bot.WatermillRouter.Running()

	bot.Sweeper.Start(ctx)
	bot.Logger.InfoContext(ctx, "Discord giveaway bot is now running")

	go func() {
		<-ctx.Done()
		bot.Logger.Info("Shutting down Discord giveaway bot")
		bot.Close()
	}()

	return nil
}

// Close tears the process down in dependency order.
func (bot *DiscordBot) Close() {
	if bot.Health != nil {
		bot.Health.SetReady(false)
	}

	if bot.WatermillRouter != nil {
		if err := bot.WatermillRouter.Close(); err != nil {
			bot.Logger.Error("Failed to close Watermill router", attr.Error(err))
		}
	}

	if err := bot.Session.Close(); err != nil {
		bot.Logger.Error("Failed to close Discord session", attr.Error(err))
	}

	if bot.EventBus != nil {
		if err := bot.EventBus.Close(); err != nil {
			bot.Logger.Error("Failed to close event bus", attr.Error(err))
		}
	}
}
