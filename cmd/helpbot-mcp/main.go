package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "helpbot/internal/adapters/mcp"
	"helpbot/internal/bootstrap"
	"helpbot/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Parse()

	ctx := context.Background()
	// stdout carries the protocol
	logger := bootstrap.NewLogger(os.Stderr)

	svc, err := bootstrap.Load(ctx, *configFlag, logger)
	if err != nil {
		log.Fatalf("helpbot-mcp: %v", err)
	}
	defer svc.Close()

	if err := svc.Warm(ctx); err != nil {
		logger.Printf("component=main action=warm error=%q", err)
	}

	mcpServer := server.NewMCPServer(
		"helpbot-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	var syncer mcpadapter.Syncer
	if svc.Controller != nil {
		syncer = svc.Controller
	}
	mcpadapter.RegisterReadTools(mcpServer, svc.Handler)
	mcpadapter.RegisterWriteTools(mcpServer, svc.Reactions, syncer)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("helpbot-mcp: %v", err)
	}
}
