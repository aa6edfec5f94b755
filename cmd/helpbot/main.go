package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"helpbot/internal/adapters/browser"
	"helpbot/internal/adapters/tui"
	"helpbot/internal/adapters/tui/views"
	"helpbot/internal/application/trigger"
	"helpbot/internal/bootstrap"
	"helpbot/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	logFlag := flag.String("log", "", "append logs to this file")
	flag.Parse()

	if err := run(*configFlag, *logFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The alternate screen owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := bootstrap.NewLogger(logOut)

	svc, err := bootstrap.Load(ctx, configPath, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Warm(ctx); err != nil {
		logger.Printf("component=main action=warm error=%q", err)
	}

	var (
		syncer  views.Syncer
		reports <-chan trigger.RunReport
	)
	if c := svc.Controller; c != nil {
		syncer = c
		reports = c.Results()
		go c.Run(ctx)
		go c.Schedule(ctx, svc.Config.RefreshInterval)
		c.Trigger(trigger.SourceStartup)
	}

	chat := views.NewChatModel(ctx, svc.Handler, svc.Reactions, syncer, browser.NewOpener())
	app := tui.NewApp(chat, svc.Config.Prefix, reports)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
