package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBackupTools() {
	s.mcp.AddTool(mcp.NewTool("list_backups",
		mcp.WithDescription("List layout backups, newest first"),
	), s.handleListBackups)

	s.mcp.AddTool(mcp.NewTool("run_backup",
		mcp.WithDescription("Write a layout backup now"),
	), s.handleRunBackup)

	s.mcp.AddTool(mcp.NewTool("restore_backup",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace the canvas with a backup. Requires user approval."),
		mcp.WithString("name", mcp.Description("Backup file name from list_backups"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRestoreBackup)
}

func (s *Server) handleListBackups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := s.backups.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return jsonResult(names)
}

func (s *Server) handleRunBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.backups.RunOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("run backup: %w", err)
	}
	if path == "" {
		return textResult("A backup is already running"), nil
	}
	return textResult(fmt.Sprintf("Backup written to %s", filepath.Base(path))), nil
}

func (s *Server) handleRestoreBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := filepath.Base(req.GetString("name", ""))
	doc, err := s.backups.LoadByName(name)
	if err != nil {
		return nil, err
	}

	approved, err := s.approval.Request("restore_backup",
		fmt.Sprintf("Replace the canvas (%d instances) with backup %s (%d instances)",
			len(s.canvas.Layout().Instances), name, len(doc.Instances)))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}
	s.canvas.Import(*doc)
	return textResult(fmt.Sprintf("Restored %s", name)), nil
}
