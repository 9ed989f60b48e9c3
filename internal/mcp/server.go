// Package mcp exposes plan progress over the Model Context Protocol so
// AI assistants can query the current state of the plans workspace.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/darraghh1/plantrack/internal/tracker"
	"github.com/darraghh1/plantrack/pkg/plan"
)

// Server wraps the tracker to provide MCP tool access.
type Server struct {
	tracker *tracker.Tracker
	server  *server.MCPServer
}

// NewServer creates a new MCP server backed by the given tracker.
func NewServer(t *tracker.Tracker, version string) *Server {
	s := &Server{
		tracker: t,
	}

	mcpServer := server.NewMCPServer(
		"plantrack",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("progress",
			mcp.WithDescription("Project-wide plan progress summary: totals, completion percentage, and per-plan counts."),
		),
		s.handleProgress,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_plans",
			mcp.WithDescription("List all plans with their status and completion."),
		),
		s.handleListPlans,
	)

	mcpServer.AddTool(
		mcp.NewTool("plan_detail",
			mcp.WithDescription("Full detail for one plan, including its phase list."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Plan id (the plan's directory name)"),
			),
		),
		s.handlePlanDetail,
	)

	mcpServer.AddTool(
		mcp.NewTool("refresh",
			mcp.WithDescription("Re-scan the plans workspace and return the fresh summary."),
		),
		s.handleRefresh,
	)
}

func (s *Server) handleProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return progressResult(s.tracker.Progress())
}

func (s *Server) handleRefresh(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return progressResult(s.tracker.Refresh())
}

func progressResult(progress plan.ProjectProgress) (*mcp.CallToolResult, error) {
	result := map[string]interface{}{
		"project":          progress.ProjectName,
		"root":             progress.RootPath,
		"plans":            len(progress.Plans),
		"total_phases":     progress.TotalPhases,
		"completed_phases": progress.CompletedPhases,
		"percentage":       progress.Percentage,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal progress failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListPlans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress := s.tracker.Progress()
	if len(progress.Plans) == 0 {
		return mcp.NewToolResultText("No plans found."), nil
	}

	var b strings.Builder
	for _, p := range progress.Plans {
		fmt.Fprintf(&b, "%s  [%s]  %d/%d phases (%d%%)  %s\n",
			p.ID, p.Status, p.CompletedCount, p.TotalCount, p.Percentage, p.DisplayName)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handlePlanDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	record, ok := s.tracker.Plan(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plan not found: %s", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", record.DisplayName, record.ID)
	fmt.Fprintf(&b, "Status: %s  Progress: %d/%d (%d%%)\n",
		record.Status, record.CompletedCount, record.TotalCount, record.Percentage)
	if record.Priority != plan.PriorityNone {
		fmt.Fprintf(&b, "Priority: %s\n", record.Priority)
	}
	if record.Branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", record.Branch)
	}
	if record.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", record.Description)
	}
	b.WriteString("\nPhases:\n")
	for _, ph := range record.Phases {
		fmt.Fprintf(&b, "  %d. %s [%s]", ph.Number, ph.Name, ph.Status)
		if ph.Effort != "" {
			fmt.Fprintf(&b, " (%s)", ph.Effort)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}
