package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"design2prompt/internal/service"
)

func (s *Server) registerCollectionTools() {
	s.mcp.AddTool(mcp.NewTool("list_collections",
		mcp.WithDescription("List saved collections with their component configurations"),
	), s.handleListCollections)

	s.mcp.AddTool(mcp.NewTool("create_collection",
		mcp.WithDescription("Create a named collection of saved component configurations"),
		mcp.WithString("name", mcp.Description("Collection name"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Optional description")),
	), s.handleCreateCollection)

	s.mcp.AddTool(mcp.NewTool("save_to_collection",
		mcp.WithDescription("Save a component configuration into a collection. Pass instanceId to save a placed instance, or refId with styleParams."),
		mcp.WithString("collectionId", mcp.Description("Collection ID"), mcp.Required()),
		mcp.WithString("instanceId", mcp.Description("Instance to save (optional)")),
		mcp.WithString("refId", mcp.Description("Catalog id (when no instanceId)")),
		mcp.WithString("styleParams", mcp.Description("JSON style parameters (when no instanceId)")),
		mcp.WithString("name", mcp.Description("Display name (optional)")),
	), s.handleSaveToCollection)

	s.mcp.AddTool(mcp.NewTool("place_saved_component",
		mcp.WithDescription("Place a saved configuration from a collection onto the canvas"),
		mcp.WithString("collectionId", mcp.Description("Collection ID"), mcp.Required()),
		mcp.WithString("componentId", mcp.Description("Saved component ID"), mcp.Required()),
	), s.handlePlaceSavedComponent)

	s.mcp.AddTool(mcp.NewTool("delete_collection",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a collection and its saved components. Requires user approval."),
		mcp.WithString("collectionId", mcp.Description("Collection ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteCollection)
}

func (s *Server) handleListCollections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.collections.List()
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return jsonResult(list)
}

func (s *Server) handleCreateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.collections.Create(ctx, req.GetString("name", ""), req.GetString("description", ""))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return jsonResult(c)
}

func (s *Server) handleSaveToCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collectionID := req.GetString("collectionId", "")
	name := req.GetString("name", "")

	refID := req.GetString("refId", "")
	params, err := styleParamsArg(req.GetArguments(), "styleParams")
	if err != nil {
		return nil, err
	}
	if id := req.GetString("instanceId", ""); id != "" {
		inst, err := s.canvas.Instance(id)
		if err != nil {
			return nil, err
		}
		refID, params = inst.RefID, inst.StyleParams
	}
	if refID == "" {
		return nil, fmt.Errorf("instanceId or refId is required")
	}

	sc, err := s.collections.SaveComponent(ctx, collectionID, refID, name, params)
	if err != nil {
		return nil, fmt.Errorf("save component: %w", err)
	}
	return jsonResult(sc)
}

func (s *Server) handlePlaceSavedComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sc, err := s.collections.Component(req.GetString("collectionId", ""), req.GetString("componentId", ""))
	if err != nil {
		return nil, err
	}
	inst, err := s.canvas.Place(service.PlaceInput{RefID: sc.RefID, StyleParams: sc.StyleParams})
	if err != nil {
		return nil, fmt.Errorf("place saved component: %w", err)
	}
	return jsonResult(inst)
}

func (s *Server) handleDeleteCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.collections.Get(req.GetString("collectionId", ""))
	if err != nil {
		return nil, err
	}
	approved, err := s.approval.Request("delete_collection",
		fmt.Sprintf("Delete collection %q with %d saved component(s)", c.Name, len(c.Components)))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}
	if err := s.collections.Delete(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}
	return textResult(fmt.Sprintf("Collection %s deleted", c.ID)), nil
}
