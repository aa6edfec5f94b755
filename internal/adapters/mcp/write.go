package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"helpbot/internal/application/commands"
	"helpbot/internal/application/trigger"
	"helpbot/internal/application/vote"
	"helpbot/internal/domain"
)

// Syncer runs one reconciliation synchronously
type Syncer interface {
	RunOnce(ctx context.Context, source trigger.Source) (trigger.RunReport, error)
}

// RegisterWriteTools adds the tools that change the knowledge base. syncer
// may be nil when the remote board is not configured.
func RegisterWriteTools(s *server.MCPServer, reactions *commands.ReactionHandler, syncer Syncer) {
	s.AddTool(voteTool(), voteHandler(reactions))
	if syncer != nil {
		s.AddTool(syncTool(), syncHandler(syncer))
	}
}

// --- vote ---

func voteTool() mcp.Tool {
	return mcp.NewTool("vote",
		mcp.WithDescription("Record or retract a helpfulness vote on an answer, by the short ID shown in its footer."),
		mcp.WithString("short_id",
			mcp.Description("Short ID from the answer footer, e.g. Xy12Ab"),
			mcp.Required(),
		),
		mcp.WithString("direction",
			mcp.Description("up or down"),
			mcp.Enum("up", "down"),
			mcp.Required(),
		),
		mcp.WithBoolean("retract",
			mcp.Description("Remove a previously recorded vote instead of adding one"),
		),
	)
}

func voteHandler(reactions *commands.ReactionHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		shortID := req.GetString("short_id", "")
		if shortID == "" {
			return toolError(fmt.Errorf("short_id is required"))
		}
		dir, err := domain.ParseVoteDirection(req.GetString("direction", ""))
		if err != nil {
			return toolError(err)
		}
		retract := req.GetBool("retract", false)

		card, err := reactions.Vote(ctx, shortID, dir, retract)
		if err != nil {
			return toolError(err)
		}
		verb := "Recorded"
		if retract {
			verb = "Retracted"
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s %s vote on %q (%s)", verb, dir, card.Question, vote.Tally(card))), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Pull the board now and rebuild the knowledge base. Fails if a sync is already running."),
	)
}

func syncHandler(syncer Syncer) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := syncer.RunOnce(ctx, trigger.SourceOperator)
		if err != nil {
			if !report.Started.IsZero() {
				return toolError(fmt.Errorf("%s", report.Summary()))
			}
			return toolError(err)
		}
		return mcp.NewToolResultText(report.Summary()), nil
	}
}
