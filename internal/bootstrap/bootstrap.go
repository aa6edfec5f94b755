// Package bootstrap wires the adapters and services shared by every binary
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"helpbot/internal/adapters/fuzzy"
	"helpbot/internal/adapters/storage"
	"helpbot/internal/adapters/trello"
	"helpbot/internal/application"
	"helpbot/internal/application/catalog"
	"helpbot/internal/application/commands"
	"helpbot/internal/application/index"
	"helpbot/internal/application/reconcile"
	"helpbot/internal/application/trigger"
	"helpbot/internal/application/vote"
	"helpbot/internal/config"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// ErrRemoteNotConfigured is returned by operations that need Trello credentials
var ErrRemoteNotConfigured = errors.New("trello credentials are not configured")

// Services holds the wired application
type Services struct {
	Config  config.Config
	Logger  ports.Logger
	Store   ports.Store
	Catalog *catalog.Catalog
	Index   *index.Index
	Ledger  *vote.Ledger

	// nil unless the remote is configured
	Remote     *trello.Client
	Engine     *reconcile.Engine
	Controller *trigger.Controller

	Handler   *commands.Handler
	Reactions *commands.ReactionHandler
}

// NewLogger returns the key=value logger used by the binaries
func NewLogger(w io.Writer) *log.Logger {
	return log.New(w, "helpbot ", log.LstdFlags)
}

// New opens the store and wires every service. The remote side is wired only
// when cfg passes ValidateRemote.
func New(ctx context.Context, cfg config.Config, logger ports.Logger) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	channels, err := cfg.ChannelPattern()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ignore := domain.NewNameSet(cfg.IgnoreLists...)
	locker := application.NewKeyLocker()
	cat := catalog.New(store)

	s := &Services{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Catalog: cat,
		Index:   index.New(cat, index.Options{Ignore: ignore, TopicList: cfg.TopicList, Logger: logger}),
		Ledger:  vote.NewLedger(cat, locker, logger),
	}

	if cfg.ValidateRemote() == nil {
		s.Remote = trello.NewClient(trello.ClientOptions{
			Key:       cfg.Trello.Key,
			Token:     cfg.Trello.Token,
			UserAgent: "helpbot",
		})
		s.Engine, err = reconcile.NewEngine(s.Remote, cat, reconcile.Options{
			BoardID:    cfg.Trello.Board,
			Ignore:     ignore,
			ReadyColor: cfg.ReadyColor,
			Cadence:    cfg.Cadence,
			Locker:     locker,
			Logger:     logger,
		})
		if err != nil {
			store.Close()
			return nil, err
		}
		s.Controller = trigger.New(s.Engine, s.Index, trigger.Options{
			ListSettle: cfg.ListSettle,
			CardSettle: cfg.CardSettle,
			RunTimeout: cfg.RunTimeout,
			Logger:     logger,
		})
	}

	var purger commands.Purger
	if s.Controller != nil {
		purger = s.Controller
	}
	resolver := commands.NewResolver(fuzzy.NewRanker(), logger)
	s.Handler = commands.NewHandler(s.Index, resolver, cat, purger, commands.HandlerConfig{
		Prefix:       cfg.Prefix,
		AdminID:      cfg.Admin,
		ChannelMatch: channels,
		TopicList:    cfg.TopicList,
	}, logger)
	s.Reactions = commands.NewReactionHandler(s.Index, s.Ledger, logger)

	return s, nil
}

// Load reads the config at path and wires the services
func Load(ctx context.Context, path string, logger ports.Logger) (*Services, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, logger)
}

// Warm publishes a snapshot from what the store already holds
func (s *Services) Warm(ctx context.Context) error {
	_, err := s.Index.Rebuild(ctx)
	return err
}

// Sync runs one full pipeline in the caller's goroutine
func (s *Services) Sync(ctx context.Context, source trigger.Source) (trigger.RunReport, error) {
	if s.Controller == nil {
		return trigger.RunReport{}, ErrRemoteNotConfigured
	}
	return s.Controller.RunOnce(ctx, source)
}

// Close releases the store
func (s *Services) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
