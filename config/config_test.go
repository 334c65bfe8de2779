package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
service:
  name: giveaway-bot-test
discord:
  token: test-token
  guild_id: "123"
  admin_role_id: "456"
  giveaway_logs_channel_id: "789"
giveaway:
  sweep_interval: 5s
  max_winners: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Discord.Token != "test-token" {
		t.Errorf("Token = %q, want %q", cfg.Discord.Token, "test-token")
	}
	if cfg.Giveaway.SweepInterval != 5*time.Second {
		t.Errorf("SweepInterval = %v, want 5s", cfg.Giveaway.SweepInterval)
	}
	if cfg.Giveaway.MaxWinners != 5 {
		t.Errorf("MaxWinners = %d, want 5", cfg.Giveaway.MaxWinners)
	}
	// Defaults still apply for unset fields.
	if cfg.Giveaway.MaxDurationMinutes != defaultMaxDurationMinutes {
		t.Errorf("MaxDurationMinutes = %d, want %d", cfg.Giveaway.MaxDurationMinutes, defaultMaxDurationMinutes)
	}
	if cfg.Health.Addr != defaultHealthAddr {
		t.Errorf("Health.Addr = %q, want %q", cfg.Health.Addr, defaultHealthAddr)
	}
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DISCORD_GUILD_ID", "guild-env")
	t.Setenv("GIVEAWAY_SWEEP_INTERVAL_SECONDS", "30")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Discord.Token != "env-token" {
		t.Errorf("Token = %q, want %q", cfg.Discord.Token, "env-token")
	}
	if cfg.Discord.GuildID != "guild-env" {
		t.Errorf("GuildID = %q, want %q", cfg.Discord.GuildID, "guild-env")
	}
	if cfg.Giveaway.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %v, want 30s", cfg.Giveaway.SweepInterval)
	}
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() expected error for missing token, got nil")
	}
}
