package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"design2prompt/internal/catalog"
	"design2prompt/internal/service"
)

// Server is the MCP server for the design canvas.
// It exposes tools, resources, and prompts so AI agents can compose layouts.
type Server struct {
	mcp      *server.MCPServer
	emitter  service.EventEmitter
	approval *ApprovalQueue
	logger   *log.Logger

	// Services (injected from app layer)
	canvas      *service.CanvasService
	catalog     *catalog.Registry
	export      *service.ExportService
	collections *service.CollectionService
	backups     *service.BackupService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
// Collections and Backups are optional; their tools are not registered
// when nil.
type Deps struct {
	Emitter     service.EventEmitter
	Canvas      *service.CanvasService
	Catalog     *catalog.Registry
	Export      *service.ExportService
	Collections *service.CollectionService
	Backups     *service.BackupService
	Logger      *log.Logger
	// When set, approvals go through the shared database (standalone mode).
	Approvals ApprovalStore
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	if deps.Emitter == nil {
		deps.Emitter = service.NoopEmitter{}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.Approvals != nil {
		approval.SetStore(deps.Approvals)
	}
	s := &Server{
		emitter:     deps.Emitter,
		approval:    approval,
		logger:      deps.Logger,
		canvas:      deps.Canvas,
		catalog:     deps.Catalog,
		export:      deps.Export,
		collections: deps.Collections,
		backups:     deps.Backups,
	}

	s.mcp = server.NewMCPServer(
		"design2prompt-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerCanvasTools()
	s.registerCatalogTools()
	s.registerResources()
	s.registerPrompts()
	if s.collections != nil {
		s.registerCollectionTools()
	}
	if s.backups != nil {
		s.registerBackupTools()
	}

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// MCP exposes the underlying server, e.g. for an SSE or HTTP transport.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
