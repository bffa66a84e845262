package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds engine settings (in-memory representation).
// User preferences such as currency and plan are persisted by internal/db.
type Config struct {
	Port    int    `yaml:"port" json:"port" env:"PORT"`
	DBPath  string `yaml:"db_path" json:"db_path" env:"DB_PATH"`
	Version string `yaml:"-" json:"version"`
	UserID  string `yaml:"user_id" json:"user_id" env:"USER_ID"`

	LogLevel      string `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`
	LogFormat     string `yaml:"log_format" json:"log_format" env:"LOG_FORMAT"`
	LogOutput     string `yaml:"log_output" json:"log_output" env:"LOG_OUTPUT"`
	LogMaxAgeDays int    `yaml:"log_max_age_days" json:"log_max_age_days" env:"LOG_MAX_AGE_DAYS"`

	// Wallet / fees. All amounts in CR.
	DefaultBalance  int64   `yaml:"default_balance" json:"default_balance" env:"DEFAULT_BALANCE"`
	TradeFeePct     float64 `yaml:"trade_fee_pct" json:"trade_fee_pct" env:"TRADE_FEE_PCT"`
	TradeFeeMinCR   int64   `yaml:"trade_fee_min_cr" json:"trade_fee_min_cr" env:"TRADE_FEE_MIN_CR"`
	AcceptFeeCR     int64   `yaml:"accept_fee_cr" json:"accept_fee_cr" env:"ACCEPT_FEE_CR"`
	BuyFeePct       float64 `yaml:"buy_fee_pct" json:"buy_fee_pct" env:"BUY_FEE_PCT"`
	BuyFeePctPro    float64 `yaml:"buy_fee_pct_pro" json:"buy_fee_pct_pro" env:"BUY_FEE_PCT_PRO"`
	ProBonusCR      int64   `yaml:"pro_bonus_cr" json:"pro_bonus_cr" env:"PRO_BONUS_CR"`
	DefaultCurrency string  `yaml:"default_currency" json:"default_currency" env:"DEFAULT_CURRENCY"`

	// Active-trade tracker.
	TradeStepInterval time.Duration `yaml:"trade_step_interval" json:"trade_step_interval" env:"TRADE_STEP_INTERVAL"`

	// Price history synthesis.
	HistoryDays int `yaml:"history_days" json:"history_days" env:"HISTORY_DAYS"`

	// Hosted database. Empty URL or key disables the remote source.
	RemoteURL        string        `yaml:"remote_url" json:"remote_url" env:"REMOTE_URL"`
	RemoteKey        string        `yaml:"remote_key" json:"-" env:"REMOTE_KEY"`
	RemoteTimeout    time.Duration `yaml:"remote_timeout" json:"remote_timeout" env:"REMOTE_TIMEOUT"`
	RemoteRatePerSec float64       `yaml:"remote_rate_per_sec" json:"remote_rate_per_sec" env:"REMOTE_RATE_PER_SEC"`
	RemoteLatency    time.Duration `yaml:"remote_latency" json:"remote_latency" env:"REMOTE_LATENCY"`
	ChatChannel      string        `yaml:"chat_channel" json:"chat_channel" env:"CHAT_CHANNEL"`
	ChatRealtime     bool          `yaml:"chat_realtime" json:"chat_realtime" env:"CHAT_REALTIME"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:              13380,
		DBPath:            "fashion-insider.db",
		Version:           "dev",
		UserID:            "default",
		LogLevel:          "info",
		LogFormat:         "text",
		LogOutput:         "stdout",
		DefaultBalance:    5450,
		TradeFeePct:       0.05,
		TradeFeeMinCR:     50,
		AcceptFeeCR:       25,
		BuyFeePct:         5,
		BuyFeePctPro:      2,
		ProBonusCR:        500,
		DefaultCurrency:   "USD",
		TradeStepInterval: 5 * time.Second,
		HistoryDays:       14,
		RemoteTimeout:     10 * time.Second,
		RemoteRatePerSec:  10,
		RemoteLatency:     300 * time.Millisecond,
		ChatChannel:       "general",
		ChatRealtime:      true,
	}
}

// Load builds a Config from defaults, an optional YAML file, an optional
// .env file and FI_-prefixed environment variables, in that order.
// A missing YAML or .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "FI_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TradeFeePct < 0 || c.BuyFeePct < 0 || c.BuyFeePctPro < 0 {
		return fmt.Errorf("fee percentages must be non-negative")
	}
	if c.TradeStepInterval <= 0 {
		return fmt.Errorf("trade_step_interval must be positive")
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive")
	}
	if c.UserID == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("remote_timeout must be positive")
	}
	return nil
}

// RemoteEnabled reports whether a hosted database is configured.
func (c *Config) RemoteEnabled() bool {
	return strings.TrimSpace(c.RemoteURL) != "" && strings.TrimSpace(c.RemoteKey) != ""
}
