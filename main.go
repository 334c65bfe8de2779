package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace/noop"

	discordapp "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/creategiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/finalizegiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/giveawayentry"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/discord/rerollgiveaway"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/draw"
	giveawayrouter "github.com/glowmart/discord-giveaway-bot/app/giveaway/router"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
	"github.com/glowmart/discord-giveaway-bot/app/giveaway/sweeper"
	giveawayhandlers "github.com/glowmart/discord-giveaway-bot/app/giveaway/watermill/handlers"
	"github.com/glowmart/discord-giveaway-bot/app/health"
	"github.com/glowmart/discord-giveaway-bot/app/interactions"
	"github.com/glowmart/discord-giveaway-bot/app/observability"
	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
	"github.com/glowmart/discord-giveaway-bot/bot"
	"github.com/glowmart/discord-giveaway-bot/config"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, stopLogger, err := observability.NewLogger(cfg.Service.Name, cfg.Loki.URL, cfg.Loki.TenantID)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer stopLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer := noop.NewTracerProvider().Tracer(cfg.Service.Name)
	eventBus := eventbus.NewEventBus(logger)
	helper := utils.NewHelper(logger)

	giveawayStore := store.NewInMemoryStore(ctx, store.Limits{
		MaxWinners:         cfg.Giveaway.MaxWinners,
		MaxDurationMinutes: cfg.Giveaway.MaxDurationMinutes,
	}, cfg.Giveaway.EndedRetention)

	discordSession, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	discordSession.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	sessionWrapper := discordapp.NewDiscordSession(discordSession, logger)

	// Interaction managers.
	createManager := creategiveaway.NewCreateGiveawayManager(sessionWrapper, eventBus, logger, helper, cfg, giveawayStore, tracer)
	entryManager := giveawayentry.NewGiveawayEntryManager(sessionWrapper, logger, giveawayStore, tracer)
	rerollManager := rerollgiveaway.NewRerollGiveawayManager(sessionWrapper, logger, giveawayStore, tracer, draw.Pick)
	finalizer := finalizegiveaway.NewFinalizeGiveawayManager(sessionWrapper, logger, cfg, tracer, draw.Pick)

	registry := interactions.NewRegistry(logger)
	creategiveaway.RegisterHandlers(registry, createManager)
	giveawayentry.RegisterHandlers(registry, entryManager)
	rerollgiveaway.RegisterHandlers(registry, rerollManager)

	// Event plumbing.
	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		log.Fatalf("Failed to create Watermill router: %v", err)
	}
	handlers := giveawayhandlers.NewGiveawayHandlers(logger, cfg, helper, sessionWrapper, finalizer, tracer)
	router := giveawayrouter.NewGiveawayRouter(logger, watermillRouter, eventBus, eventBus)
	if err := router.Configure(ctx, handlers); err != nil {
		log.Fatalf("Failed to configure giveaway router: %v", err)
	}

	giveawaySweeper := sweeper.New(giveawayStore, eventBus, helper, logger, cfg.Giveaway.SweepInterval)

	healthHandler := health.NewHandler(cfg.Service.Version, giveawayStore)
	go func() {
		if err := healthHandler.StartServer(cfg.Health.Addr); err != nil {
			logger.Error("Health server stopped", attr.Error(err))
		}
	}()

	discordBot := bot.NewDiscordBot(sessionWrapper, cfg, logger, registry, eventBus, watermillRouter, giveawaySweeper, healthHandler)
	go func() {
		if err := discordBot.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Discord bot error", attr.Error(err))
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully")
	cancel()
	discordBot.Close()
	logger.Info("Shutdown complete")
}
