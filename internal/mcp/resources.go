package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	layoutURI         = "canvas://layout"
	catalogURI        = "canvas://catalog"
	instanceURIPrefix = "canvas://instance/"
)

func (s *Server) registerResources() {
	// ── canvas://layout ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		layoutURI,
		"Canvas Layout",
		mcp.WithResourceDescription("The persisted layout document: viewport, grid, guides and instances"),
		mcp.WithMIMEType("application/json"),
	), s.handleLayoutResource)

	// ── canvas://catalog ───────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		catalogURI,
		"Component Catalog",
		mcp.WithResourceDescription("Every catalog definition with its option schema"),
		mcp.WithMIMEType("application/json"),
	), s.handleCatalogResource)

	// ── canvas://instance/{id} ─────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			instanceURIPrefix+"{id}",
			"Instance Prompt",
		),
		s.handleInstanceResource,
	)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(layoutURI, s.canvas.Layout())
}

func (s *Server) handleCatalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(catalogURI, s.catalog.List())
}

// handleInstanceResource returns the generation prompt of one instance.
func (s *Server) handleInstanceResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, instanceURIPrefix)
	if id == "" || id == uri {
		return nil, fmt.Errorf("could not extract instance id from URI: %s", uri)
	}
	text, err := s.export.InstancePrompt(id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}
