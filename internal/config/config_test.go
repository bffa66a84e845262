package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.DefaultBalance != 5450 {
		t.Errorf("DefaultBalance = %v, want 5450", c.DefaultBalance)
	}
	if c.TradeFeePct != 0.05 || c.TradeFeeMinCR != 50 {
		t.Errorf("trade fee = %v/%v, want 0.05/50", c.TradeFeePct, c.TradeFeeMinCR)
	}
	if c.BuyFeePct != 5 || c.BuyFeePctPro != 2 {
		t.Errorf("buy fee = %v/%v, want 5/2", c.BuyFeePct, c.BuyFeePctPro)
	}
	if c.TradeStepInterval != 5*time.Second {
		t.Errorf("TradeStepInterval = %v, want 5s", c.TradeStepInterval)
	}
	if c.HistoryDays != 14 {
		t.Errorf("HistoryDays = %v, want 14", c.HistoryDays)
	}
	if c.RemoteEnabled() {
		t.Error("remote should be disabled by default")
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "port: 9000\ntrade_fee_min_cr: 75\ntrade_step_interval: 2s\nremote_url: https://example.test\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FI_TRADE_FEE_MIN_CR", "60")
	t.Setenv("FI_REMOTE_KEY", "anon")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000 from yaml", cfg.Port)
	}
	if cfg.TradeFeeMinCR != 60 {
		t.Errorf("TradeFeeMinCR = %d, want env override 60", cfg.TradeFeeMinCR)
	}
	if cfg.TradeStepInterval != 2*time.Second {
		t.Errorf("TradeStepInterval = %v, want 2s", cfg.TradeStepInterval)
	}
	if !cfg.RemoteEnabled() {
		t.Error("remote should be enabled with url + key")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultBalance != 5450 {
		t.Errorf("DefaultBalance = %d, want 5450", cfg.DefaultBalance)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"fee", func(c *Config) { c.TradeFeePct = -1 }},
		{"interval", func(c *Config) { c.TradeStepInterval = 0 }},
		{"days", func(c *Config) { c.HistoryDays = 0 }},
		{"user", func(c *Config) { c.UserID = "" }},
		{"timeout", func(c *Config) { c.RemoteTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mut(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRemoteEnabled_BlankValues(t *testing.T) {
	tests := []struct {
		url, key string
		want     bool
	}{
		{"https://x.example", "anon", true},
		{"  ", "anon", false},
		{"https://x.example", " ", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c := Default()
		c.RemoteURL, c.RemoteKey = tt.url, tt.key
		if got := c.RemoteEnabled(); got != tt.want {
			t.Errorf("RemoteEnabled(%q, %q) = %v, want %v", tt.url, tt.key, got, tt.want)
		}
	}
}
