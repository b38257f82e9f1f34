// Package mcp implements the Model Context Protocol surface for kokoro.
//
// The MCP server exposes the same caller-facing operations as the HTTP
// API through tools, so MCP-compatible agents can journal statements and
// work with the resulting orbs.
package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kokoro-ai/kokoro/internal/session"
)

// Server wraps the MCP server with kokoro's service layer.
type Server struct {
	mcpServer *mcpserver.MCPServer
	svc       *session.Service
	logger    *slog.Logger
}

// New creates and configures a new MCP server with all tools.
func New(svc *session.Service, logger *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"kokoro",
		"0.1.0",
		mcpserver.WithToolCapabilities(true),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// kokoro_submit: classify and record a statement.
	s.mcpServer.AddTool(
		mcplib.NewTool("kokoro_submit",
			mcplib.WithDescription("Classify a short emotional statement and record it as an orb. Returns the orb with its emotion, color, intensity, confidence, and evolution state."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithString("text",
				mcplib.Description("The statement to classify, up to 500 characters"),
				mcplib.Required(),
			),
		),
		s.handleSubmit,
	)

	// kokoro_orbs: list recorded orbs.
	s.mcpServer.AddTool(
		mcplib.NewTool("kokoro_orbs",
			mcplib.WithDescription("List recorded orbs, newest first."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum orbs to return"),
				mcplib.Min(1),
				mcplib.Max(100),
				mcplib.DefaultNumber(20),
			),
		),
		s.handleOrbs,
	)

	// kokoro_combine: resolve a combination of existing orbs.
	s.mcpServer.AddTool(
		mcplib.NewTool("kokoro_combine",
			mcplib.WithDescription("Combine two or more existing orbs into a composite emotional descriptor. Resolution alone does not change history; set commit to append the result as a new orb."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("orb_ids",
				mcplib.Description("Comma-separated orb ids, at least two"),
				mcplib.Required(),
			),
			mcplib.WithBoolean("commit",
				mcplib.Description("Append the composite to history as a new orb"),
			),
		),
		s.handleCombine,
	)

	// kokoro_feedback: record a classification correction.
	s.mcpServer.AddTool(
		mcplib.NewTool("kokoro_feedback",
			mcplib.WithDescription("Record a correction of a classification result: the statement, the emotion the classifier predicted, and the emotion it should have been. Corrections feed the lexicon improvement suggestions in feedback stats."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("text",
				mcplib.Description("The statement that was classified"),
				mcplib.Required(),
			),
			mcplib.WithString("predicted_emotion",
				mcplib.Description("The emotion the classifier predicted"),
				mcplib.Required(),
			),
			mcplib.WithNumber("predicted_confidence",
				mcplib.Description("The classifier's confidence, 0.0 to 1.0"),
				mcplib.Min(0),
				mcplib.Max(1),
			),
			mcplib.WithString("corrected_emotion",
				mcplib.Description("The emotion the statement actually expresses"),
				mcplib.Required(),
			),
			mcplib.WithNumber("corrected_confidence",
				mcplib.Description("How certain the correction is, 0.0 to 1.0"),
				mcplib.Min(0),
				mcplib.Max(1),
				mcplib.DefaultNumber(1),
			),
			mcplib.WithString("notes",
				mcplib.Description("Optional free-form notes"),
			),
		),
		s.handleFeedback,
	)

	// kokoro_analytics: current analytics snapshot.
	s.mcpServer.AddTool(
		mcplib.NewTool("kokoro_analytics",
			mcplib.WithDescription("Get the current analytics snapshot: per-emotion totals, per-day totals, and streak high-water marks."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleAnalytics,
	)
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
