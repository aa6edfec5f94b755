// Package mcp exposes the help commands as MCP tools
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"helpbot/internal/application/commands"
	"helpbot/internal/domain"
)

// RegisterReadTools adds the query tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, h *commands.Handler) {
	s.AddTool(askTool(), askHandler(h))
	s.AddTool(listsTool(), listsHandler(h))
	s.AddTool(listTool(), listHandler(h))
	s.AddTool(topTool(), topHandler(h))
	s.AddTool(topicTool(), topicHandler(h))
	s.AddTool(helpTool(), helpHandler(h))
}

// --- ask ---

func askTool() mcp.Tool {
	return mcp.NewTool("ask",
		mcp.WithDescription("Answer a support question from the knowledge base. The closest matching question wins; its answer carries a short ID usable with the vote tool."),
		mcp.WithString("question",
			mcp.Description("Free-text question"),
			mcp.Required(),
		),
	)
}

func askHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := strings.TrimSpace(req.GetString("question", ""))
		if question == "" {
			return toolError(fmt.Errorf("question is required"))
		}
		return replyResult(h.Ask(question))
	}
}

// --- lists ---

func listsTool() mcp.Tool {
	return mcp.NewTool("lists",
		mcp.WithDescription("List the support categories that have at least one answered question."),
	)
}

func listsHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return replyResult(h.Lists())
	}
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List the questions of one support category."),
		mcp.WithString("category",
			mcp.Description("Category name, case-insensitive (e.g. Billing)"),
			mcp.Required(),
		),
	)
}

func listHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category := strings.TrimSpace(req.GetString("category", ""))
		if category == "" {
			return toolError(fmt.Errorf("category is required"))
		}
		return replyResult(h.List(category))
	}
}

// --- top ---

func topTool() mcp.Tool {
	return mcp.NewTool("top",
		mcp.WithDescription("Show the most up-voted questions."),
	)
}

func topHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return replyResult(h.Top(ctx))
	}
}

// --- topic ---

func topicTool() mcp.Tool {
	return mcp.NewTool("topic",
		mcp.WithDescription("Show a support topic by its exact name."),
		mcp.WithString("name",
			mcp.Description("Topic name, case-insensitive"),
			mcp.Required(),
		),
	)
}

func topicHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := strings.TrimSpace(req.GetString("name", ""))
		if name == "" {
			return toolError(fmt.Errorf("name is required"))
		}
		return replyResult(h.Topic(name))
	}
}

// --- help ---

func helpTool() mcp.Tool {
	return mcp.NewTool("help",
		mcp.WithDescription("Show the chat commands and the available support topics."),
	)
}

func helpHandler(h *commands.Handler) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return replyResult(h.Help())
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func replyResult(r domain.Reply) (*mcp.CallToolResult, error) {
	text := r.String()
	if text == "" {
		return mcp.NewToolResultText("No results."), nil
	}
	return mcp.NewToolResultText(text), nil
}
