// Package config loads helpbot settings from defaults, a YAML file and the
// environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"helpbot/internal/application"
	"helpbot/internal/domain"
)

const (
	DefaultPrefix          = "!"
	DefaultTopicList       = "Keywords"
	DefaultRefreshInterval = 15 * time.Minute
	DefaultSettle          = 3 * time.Second
	DefaultWebhookAddr     = ":5000"
)

// Trello holds the remote board credentials
type Trello struct {
	Key   string `yaml:"key"`
	Token string `yaml:"token"`
	Board string `yaml:"board"`
}

// Config is the complete runtime configuration
type Config struct {
	Prefix       string `yaml:"prefix"`
	Admin        string `yaml:"admin"`
	ChannelMatch string `yaml:"channel_match"` // case-insensitive pattern of allowed channels

	Trello      Trello   `yaml:"trello"`
	ReadyColor  string   `yaml:"ready_color"`
	IgnoreLists []string `yaml:"ignore_lists"`
	TopicList   string   `yaml:"topic_list"`

	Store string `yaml:"store"` // DSN understood by storage.Open

	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// Cadence is how old a stored list or card must be before a pass rewrites
	// it. Zero, the default, rewrites every record on every pass. A non-zero
	// cadence skips records refreshed within it, so a repeat pass inside the
	// cadence makes no writes.
	Cadence         time.Duration `yaml:"cadence"`
	ListSettle      time.Duration `yaml:"list_settle"`
	CardSettle      time.Duration `yaml:"card_settle"`
	RunTimeout      time.Duration `yaml:"run_timeout"`

	WebhookAddr string `yaml:"webhook_addr"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Prefix:          DefaultPrefix,
		ReadyColor:      domain.DefaultReadyColor,
		IgnoreLists:     append([]string(nil), domain.DefaultIgnoreLists...),
		TopicList:       DefaultTopicList,
		RefreshInterval: DefaultRefreshInterval,
		ListSettle:      DefaultSettle,
		CardSettle:      DefaultSettle,
		WebhookAddr:     DefaultWebhookAddr,
	}
}

// Path returns the config file from HELPBOT_CONFIG, or "" when unset
func Path() string {
	return os.Getenv("HELPBOT_CONFIG")
}

// Load reads path (when non-empty) over the defaults, then applies HELPBOT_*
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HELPBOT_PREFIX":        &c.Prefix,
		"HELPBOT_ADMIN":         &c.Admin,
		"HELPBOT_CHANNEL_MATCH": &c.ChannelMatch,
		"HELPBOT_TRELLO_KEY":    &c.Trello.Key,
		"HELPBOT_TRELLO_TOKEN":  &c.Trello.Token,
		"HELPBOT_TRELLO_BOARD":  &c.Trello.Board,
		"HELPBOT_READY_COLOR":   &c.ReadyColor,
		"HELPBOT_TOPIC_LIST":    &c.TopicList,
		"HELPBOT_STORE":         &c.Store,
		"HELPBOT_WEBHOOK_ADDR":  &c.WebhookAddr,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	// PORT matches what hosting platforms set for the webhook listener
	if v, ok := lookup("PORT"); ok && v != "" {
		if _, set := lookup("HELPBOT_WEBHOOK_ADDR"); !set {
			c.WebhookAddr = ":" + v
		}
	}
	if v, ok := lookup("HELPBOT_IGNORE_LISTS"); ok {
		c.IgnoreLists = splitList(v)
	}

	durations := map[string]*time.Duration{
		"HELPBOT_REFRESH_INTERVAL": &c.RefreshInterval,
		"HELPBOT_CADENCE":          &c.Cadence,
		"HELPBOT_LIST_SETTLE":      &c.ListSettle,
		"HELPBOT_CARD_SETTLE":      &c.CardSettle,
		"HELPBOT_RUN_TIMEOUT":      &c.RunTimeout,
	}
	var errs []error
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, &application.ValidationError{Field: name, Message: "must be a duration like 30s or 15m"})
			continue
		}
		*dst = d
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings every command depends on
func (c Config) Validate() error {
	if err := application.ValidateRequired("prefix", c.Prefix); err != nil {
		return err
	}
	if c.ChannelMatch != "" {
		if _, err := c.ChannelPattern(); err != nil {
			return &application.ValidationError{Field: "channel_match", Message: err.Error()}
		}
	}
	for name, d := range map[string]time.Duration{
		"refresh_interval": c.RefreshInterval,
		"cadence":          c.Cadence,
		"list_settle":      c.ListSettle,
		"card_settle":      c.CardSettle,
		"run_timeout":      c.RunTimeout,
	} {
		if d < 0 {
			return &application.ValidationError{Field: name, Message: "cannot be negative"}
		}
	}
	return nil
}

// ValidateRemote also checks the credentials needed to reach the board
func (c Config) ValidateRemote() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := application.ValidateRequired("apiKey", c.Trello.Key); err != nil {
		return err
	}
	if err := application.ValidateRequired("apiToken", c.Trello.Token); err != nil {
		return err
	}
	return application.ValidateRequired("boardID", c.Trello.Board)
}

// ChannelPattern compiles ChannelMatch case-insensitively; nil allows every channel
func (c Config) ChannelPattern() (*regexp.Regexp, error) {
	if c.ChannelMatch == "" {
		return nil, nil
	}
	return regexp.Compile("(?i)" + c.ChannelMatch)
}
