package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"helpbot/internal/application"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helpbot.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Prefix != "!" {
		t.Errorf("expected prefix !, got %q", cfg.Prefix)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("expected 15m refresh interval, got %v", cfg.RefreshInterval)
	}
	if cfg.ListSettle != 3*time.Second || cfg.CardSettle != 3*time.Second {
		t.Errorf("expected 3s settle delays, got %v/%v", cfg.ListSettle, cfg.CardSettle)
	}
	if cfg.Cadence != 0 {
		t.Errorf("expected zero cadence, got %v", cfg.Cadence)
	}
	if len(cfg.IgnoreLists) != 2 {
		t.Errorf("expected default ignore lists, got %v", cfg.IgnoreLists)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
prefix: "?"
admin: "1234"
channel_match: "support|help"
trello:
  key: k
  token: tok
  board: b1
ignore_lists: [drafts]
topic_list: Topics
store: memory://
refresh_interval: 5m
list_settle: 0s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Prefix != "?" || cfg.Admin != "1234" {
		t.Errorf("unexpected prefix/admin: %q %q", cfg.Prefix, cfg.Admin)
	}
	if cfg.Trello.Board != "b1" || cfg.Trello.Key != "k" {
		t.Errorf("unexpected trello config: %+v", cfg.Trello)
	}
	if len(cfg.IgnoreLists) != 1 || cfg.IgnoreLists[0] != "drafts" {
		t.Errorf("unexpected ignore lists: %v", cfg.IgnoreLists)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.RefreshInterval)
	}
	if cfg.ListSettle != 0 {
		t.Errorf("expected list settle override to 0, got %v", cfg.ListSettle)
	}
	if cfg.CardSettle != DefaultSettle {
		t.Errorf("expected untouched card settle default, got %v", cfg.CardSettle)
	}
	if err := cfg.ValidateRemote(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "prefix: \"?\"\nwebhook_addr: \":7000\"\n")
	t.Setenv("HELPBOT_PREFIX", "$")
	t.Setenv("HELPBOT_IGNORE_LISTS", " aim , , archive ")
	t.Setenv("HELPBOT_CADENCE", "10m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != "$" {
		t.Errorf("expected env prefix, got %q", cfg.Prefix)
	}
	if len(cfg.IgnoreLists) != 2 || cfg.IgnoreLists[1] != "archive" {
		t.Errorf("unexpected ignore lists: %v", cfg.IgnoreLists)
	}
	if cfg.Cadence != 10*time.Minute {
		t.Errorf("expected 10m cadence, got %v", cfg.Cadence)
	}
	if cfg.WebhookAddr != ":7000" {
		t.Errorf("expected file webhook addr, got %q", cfg.WebhookAddr)
	}
}

func TestLoad_Port(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WebhookAddr != ":8080" {
		t.Errorf("expected PORT to set the webhook addr, got %q", cfg.WebhookAddr)
	}

	t.Setenv("HELPBOT_WEBHOOK_ADDR", "127.0.0.1:9000")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WebhookAddr != "127.0.0.1:9000" {
		t.Errorf("expected HELPBOT_WEBHOOK_ADDR to win over PORT, got %q", cfg.WebhookAddr)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("HELPBOT_LIST_SETTLE", "soon")
	_, err := Load("")

	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "HELPBOT_LIST_SETTLE" {
		t.Errorf("unexpected field %q", vErr.Field)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := Load(writeConfig(t, "prefix: [unterminated")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing board", func(c *Config) { c.Trello.Board = "" }, "boardID"},
		{"missing key", func(c *Config) { c.Trello.Key = " " }, "apiKey"},
		{"empty prefix", func(c *Config) { c.Prefix = "" }, "prefix"},
		{"bad channel pattern", func(c *Config) { c.ChannelMatch = "(" }, "channel_match"},
		{"negative settle", func(c *Config) { c.CardSettle = -time.Second }, "card_settle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Trello = Trello{Key: "k", Token: "t", Board: "b"}
			tt.mutate(&cfg)

			var vErr *application.ValidationError
			if err := cfg.ValidateRemote(); !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
			}
		})
	}
}

func TestValidate_LocalOnly(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should be valid for local commands, got %v", err)
	}
}

func TestChannelPattern(t *testing.T) {
	cfg := Config{ChannelMatch: "support"}
	re, err := cfg.ChannelPattern()
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("Help-SUPPORT") {
		t.Error("expected case-insensitive match")
	}

	re, err = Config{}.ChannelPattern()
	if err != nil || re != nil {
		t.Errorf("expected nil pattern for empty match, got %v, %v", re, err)
	}
}
