package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings for the bot.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Discord  DiscordConfig  `yaml:"discord"`
	Giveaway GiveawayConfig `yaml:"giveaway"`
	Loki     LokiConfig     `yaml:"loki"`
	Health   HealthConfig   `yaml:"health"`
}

// ServiceConfig holds general service configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token            string `yaml:"token"`
	GuildID          string `yaml:"guild_id"`
	AppID            string `yaml:"app_id"`
	AdminRoleID      string `yaml:"admin_role_id"`
	LogsChannelID    string `yaml:"giveaway_logs_channel_id"`
	TicketCategoryID string `yaml:"giveaway_ticket_category_id"`
}

// GiveawayConfig holds tunables for the giveaway engine.
type GiveawayConfig struct {
	SweepInterval      time.Duration `yaml:"sweep_interval"`
	MaxWinners         int           `yaml:"max_winners"`
	MaxDurationMinutes int           `yaml:"max_duration_minutes"`
	EndedRetention     time.Duration `yaml:"ended_retention"`
	FinalizeTimeout    time.Duration `yaml:"finalize_timeout"`
}

// LokiConfig holds Loki configuration.
type LokiConfig struct {
	URL      string `yaml:"url"`
	TenantID string `yaml:"tenant_id"`
	Enabled  bool   `yaml:"enabled"`
}

// HealthConfig holds the health endpoint configuration.
type HealthConfig struct {
	Addr string `yaml:"addr"`
}

const (
	defaultSweepInterval      = 10 * time.Second
	defaultMaxWinners         = 10
	defaultMaxDurationMinutes = 10080 // one week
	defaultEndedRetention     = 24 * time.Hour
	defaultFinalizeTimeout    = 2 * time.Minute
	defaultHealthAddr         = ":8086"
)

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables for anything unset.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := loadConfigFromEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// loadConfigFromEnv fills unset fields from environment variables. Only the
// Discord token is required.
func loadConfigFromEnv(cfg *Config) error {
	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")
		if cfg.Discord.Token == "" {
			return fmt.Errorf("discord token not set in config file or DISCORD_TOKEN")
		}
	}
	if cfg.Discord.GuildID == "" {
		cfg.Discord.GuildID = os.Getenv("DISCORD_GUILD_ID")
	}
	if cfg.Discord.AppID == "" {
		cfg.Discord.AppID = os.Getenv("DISCORD_APP_ID")
	}
	if cfg.Discord.AdminRoleID == "" {
		cfg.Discord.AdminRoleID = os.Getenv("DISCORD_ADMIN_ROLE_ID")
	}
	if cfg.Discord.LogsChannelID == "" {
		cfg.Discord.LogsChannelID = os.Getenv("GIVEAWAY_LOGS_CHANNEL_ID")
	}
	if cfg.Discord.TicketCategoryID == "" {
		cfg.Discord.TicketCategoryID = os.Getenv("GIVEAWAY_TICKET_CATEGORY_ID")
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = os.Getenv("SERVICE_NAME")
	}
	if cfg.Loki.URL == "" {
		cfg.Loki.URL = os.Getenv("LOKI_URL")
	}
	if cfg.Giveaway.SweepInterval == 0 {
		if v := os.Getenv("GIVEAWAY_SWEEP_INTERVAL_SECONDS"); v != "" {
			secs, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid GIVEAWAY_SWEEP_INTERVAL_SECONDS %q: %w", v, err)
			}
			cfg.Giveaway.SweepInterval = time.Duration(secs) * time.Second
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "discord-giveaway-bot"
	}
	if cfg.Giveaway.SweepInterval <= 0 {
		cfg.Giveaway.SweepInterval = defaultSweepInterval
	}
	if cfg.Giveaway.MaxWinners <= 0 {
		cfg.Giveaway.MaxWinners = defaultMaxWinners
	}
	if cfg.Giveaway.MaxDurationMinutes <= 0 {
		cfg.Giveaway.MaxDurationMinutes = defaultMaxDurationMinutes
	}
	if cfg.Giveaway.EndedRetention <= 0 {
		cfg.Giveaway.EndedRetention = defaultEndedRetention
	}
	if cfg.Giveaway.FinalizeTimeout <= 0 {
		cfg.Giveaway.FinalizeTimeout = defaultFinalizeTimeout
	}
	if cfg.Health.Addr == "" {
		cfg.Health.Addr = defaultHealthAddr
	}
}
