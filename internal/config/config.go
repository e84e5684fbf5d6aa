package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultRestricted lists the symbols barred from shorting (defence and PSU
// names under exchange restrictions).
var defaultRestricted = []string{
	"BEML", "MAZDOCK", "BDL", "PARAS", "COCHINSHIP", "GRSE",
	"ADANIPORTS", "ADANIENT", "IRCON", "HAL", "RAILTEL",
}

// Config holds all application configuration.
type Config struct {
	Watchlist  string `yaml:"watchlist"`
	Output     string `yaml:"output"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		Exchange     string `yaml:"exchange"`
		LookbackDays int    `yaml:"lookback_days"`
		Pace         string `yaml:"pace"`
		TokenCache   string `yaml:"token_cache"`
	} `yaml:"data_source"`
	Restricted []string `yaml:"restricted"`
	Schedule   struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("ANGEL_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("WATCHLIST_PATH"); v != "" {
		cfg.Watchlist = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Watchlist == "" {
		cfg.Watchlist = "data/stocks.json"
	}
	if cfg.Output == "" {
		cfg.Output = "data/config.json"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://apiconnect.angelone.in"
	}
	if cfg.DataSource.Exchange == "" {
		cfg.DataSource.Exchange = "NSE"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 95
	}
	if cfg.DataSource.Pace == "" {
		cfg.DataSource.Pace = "1s"
	}
	if cfg.DataSource.TokenCache == "" {
		cfg.DataSource.TokenCache = "data/token_map.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/planner.db"
	}
	if len(cfg.Restricted) == 0 {
		cfg.Restricted = append([]string(nil), defaultRestricted...)
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well-formed.
func (c *Config) Validate() error {
	if c.Watchlist == "" {
		return fmt.Errorf("watchlist path is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.Exchange == "" {
		return fmt.Errorf("data_source.exchange is required")
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if _, err := time.ParseDuration(c.DataSource.Pace); err != nil {
		return fmt.Errorf("data_source.pace: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// PaceInterval returns the parsed pacing delay between data-source requests.
func (c *Config) PaceInterval() time.Duration {
	d, err := time.ParseDuration(c.DataSource.Pace)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// RestrictedSet returns the restricted symbols as a lookup set.
func (c *Config) RestrictedSet() map[string]bool {
	set := make(map[string]bool, len(c.Restricted))
	for _, s := range c.Restricted {
		set[s] = true
	}
	return set
}
