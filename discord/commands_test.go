package discord

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"

	discordwrapper "github.com/glowmart/discord-giveaway-bot/app/discordgo"
	"github.com/glowmart/discord-giveaway-bot/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{GuildID: "guild-1"},
		Giveaway: config.GiveawayConfig{
			MaxWinners:         10,
			MaxDurationMinutes: 10080,
		},
	}
}

func TestRegisterCommands(t *testing.T) {
	fake := discordwrapper.NewFakeSession()
	var registered []string
	fake.ApplicationCommandCreateFunc = func(appID, guildID string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
		if guildID != "guild-1" {
			t.Errorf("command %s registered for guild %q, want guild-1", cmd.Name, guildID)
		}
		registered = append(registered, cmd.Name)
		return cmd, nil
	}

	if err := RegisterCommands(fake, slog.New(slog.DiscardHandler), testConfig()); err != nil {
		t.Fatalf("RegisterCommands() error = %v", err)
	}

	want := []string{"giveaway", "giveawayroll"}
	if len(registered) != len(want) {
		t.Fatalf("registered = %v, want %v", registered, want)
	}
	for idx, name := range want {
		if registered[idx] != name {
			t.Errorf("registered[%d] = %q, want %q", idx, registered[idx], name)
		}
	}
}

func TestRegisterCommands_CreateFailure(t *testing.T) {
	fake := discordwrapper.NewFakeSession()
	fake.ApplicationCommandCreateFunc = func(string, string, *discordgo.ApplicationCommand, ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
		return nil, errors.New("missing applications.commands scope")
	}

	if err := RegisterCommands(fake, slog.New(slog.DiscardHandler), testConfig()); err == nil {
		t.Fatal("expected error when command creation fails")
	}
}
