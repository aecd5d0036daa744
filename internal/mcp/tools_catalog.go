package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"design2prompt/internal/domain"
)

func (s *Server) registerCatalogTools() {
	// ── list_catalog ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List catalog components, optionally filtered by category or a search query"),
		mcp.WithString("category", mcp.Description("Only this category (optional)")),
		mcp.WithString("query", mcp.Description("Match against name, description and tags (optional)")),
	), s.handleListCatalog)

	// ── get_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_component",
		mcp.WithDescription("Get a catalog component with its option schema and default style parameters"),
		mcp.WithString("refId", mcp.Description("Catalog id"), mcp.Required()),
	), s.handleGetComponent)

	// ── export_prompt ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_prompt",
		mcp.WithDescription("Render a code-generation prompt for one instance, a catalog component, or the whole canvas when neither is given"),
		mcp.WithString("instanceId", mcp.Description("Instance to export (optional)")),
		mcp.WithString("refId", mcp.Description("Catalog component to export with styleParams (optional)")),
		mcp.WithString("styleParams", mcp.Description("JSON style overrides used with refId (optional)")),
	), s.handleExportPrompt)

	// ── export_layout_json ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_layout_json",
		mcp.WithDescription("Return the persisted layout document as JSON"),
	), s.handleExportLayoutJSON)

	// ── share_link ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("share_link",
		mcp.WithDescription("Encode a component configuration as a deep-link config blob"),
		mcp.WithString("refId", mcp.Description("Catalog id"), mcp.Required()),
		mcp.WithString("styleParams", mcp.Description("JSON style parameters"), mcp.Required()),
	), s.handleShareLink)
}

type catalogSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleListCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := strings.TrimSpace(req.GetString("category", ""))
	query := strings.TrimSpace(req.GetString("query", ""))

	out := []catalogSummary{}
	for _, d := range s.catalog.Filter(query, category) {
		out = append(out, catalogSummary{ID: d.ID, Name: d.Name, Category: d.Category, Description: d.Description, Tags: d.Tags})
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refID := req.GetString("refId", "")
	def, ok := s.catalog.Lookup(refID)
	if !ok {
		return nil, fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
	}
	return jsonResult(def)
}

func (s *Server) handleExportPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		text string
		err  error
	)
	switch id, ref := req.GetString("instanceId", ""), req.GetString("refId", ""); {
	case id != "":
		text, err = s.export.InstancePrompt(id)
	case ref != "":
		params, perr := styleParamsArg(req.GetArguments(), "styleParams")
		if perr != nil {
			return nil, perr
		}
		text, err = s.export.ComponentPrompt(ref, params)
	default:
		text, err = s.export.LayoutPrompt()
	}
	if err != nil {
		return nil, fmt.Errorf("export prompt: %w", err)
	}
	return textResult(text), nil
}

func (s *Server) handleExportLayoutJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.export.LayoutJSON()
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func (s *Server) handleShareLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refID := req.GetString("refId", "")
	if _, ok := s.catalog.Lookup(refID); !ok {
		return nil, fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
	}
	params, err := styleParamsArg(req.GetArguments(), "styleParams")
	if err != nil {
		return nil, err
	}
	blob, err := s.export.ShareBlob(params)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]string{
		"component": refID,
		"config":    blob,
		"query":     fmt.Sprintf("component=%s&config=%s", refID, blob),
	})
}
