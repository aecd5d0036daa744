package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"design2prompt/internal/domain"
	"design2prompt/internal/service"
)

func (s *Server) registerCanvasTools() {
	// ── list_instances ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_instances",
		mcp.WithDescription("List every component instance on the canvas in paint order (back to front)"),
	), s.handleListInstances)

	// ── place_component ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("place_component",
		mcp.WithDescription("Place a catalog component on the canvas. Position is auto-calculated if not provided."),
		mcp.WithString("refId", mcp.Description("Catalog id, see list_catalog"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (optional, uses the component default)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, uses the component default)")),
		mcp.WithString("styleParams", mcp.Description(`JSON object of style overrides, e.g. {"primaryColor":"#ff0080"}`)),
	), s.handlePlaceComponent)

	// ── duplicate_instance ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_instance",
		mcp.WithDescription("Place a copy of an instance at the next free spot"),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
	), s.handleDuplicateInstance)

	// ── move_instance ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_instance",
		mcp.WithDescription("Move an instance. The position is snapped to the grid when snapping is on and kept inside the viewport."),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveInstance)

	// ── resize_instance ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_instance",
		mcp.WithDescription("Resize an instance. The top-left corner stays fixed; minimum 100x80."),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeInstance)

	// ── update_style ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_style",
		mcp.WithDescription("Merge style parameters into an instance. Values outside the component's options fall back to defaults."),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
		mcp.WithString("styleParams", mcp.Description("JSON object of style overrides"), mcp.Required()),
	), s.handleUpdateStyle)

	// ── remove_instance (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("remove_instance",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove one or more instances. Requires user approval."),
		mcp.WithString("instanceIds", mcp.Description("Comma-separated instance IDs"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveInstance)

	// ── toggle_lock / toggle_hidden / bring_to_front ───
	s.mcp.AddTool(mcp.NewTool("toggle_lock",
		mcp.WithDescription("Lock or unlock an instance. Locked instances cannot be dragged or resized by the pointer."),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
	), s.handleToggleLock)
	s.mcp.AddTool(mcp.NewTool("toggle_hidden",
		mcp.WithDescription("Hide or show an instance. Hidden instances are left out of the layout prompt."),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
	), s.handleToggleHidden)
	s.mcp.AddTool(mcp.NewTool("bring_to_front",
		mcp.WithDescription("Raise an instance above every other instance"),
		mcp.WithString("instanceId", mcp.Description("Instance ID"), mcp.Required()),
	), s.handleBringToFront)

	// ── set_grid ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_grid",
		mcp.WithDescription("Change grid settings. Omitted fields keep their value."),
		mcp.WithNumber("cellSize", mcp.Description("Grid cell size in pixels (>= 1)")),
		mcp.WithBoolean("visible", mcp.Description("Show the grid")),
		mcp.WithBoolean("snap", mcp.Description("Snap positions and sizes to the grid")),
	), s.handleSetGrid)

	// ── set_viewport ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_viewport",
		mcp.WithDescription("Switch the device preset that bounds the canvas"),
		mcp.WithString("name", mcp.Description("mobile, tablet or desktop"), mcp.Required()),
	), s.handleSetViewport)

	// ── arrange_instances ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_instances",
		mcp.WithDescription("Lay every unlocked instance out in rows, in paint order"),
	), s.handleArrangeInstances)

	// ── clear_canvas (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_canvas",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove every instance from the canvas. Requires user approval."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearCanvas)
}

// ── Handlers ───────────────────────────────────────────────

type instanceSummary struct {
	ID     string  `json:"id"`
	RefID  string  `json:"refId"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex int     `json:"zIndex"`
	Locked bool    `json:"locked,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
}

func (s *Server) handleListInstances(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.canvas.Render()
	out := make([]instanceSummary, len(items))
	for i, it := range items {
		name := it.Instance.RefID
		if it.Found {
			name = it.Definition.Name
		}
		out[i] = instanceSummary{
			ID:     it.Instance.ID,
			RefID:  it.Instance.RefID,
			Name:   name,
			X:      it.Instance.Position.X,
			Y:      it.Instance.Position.Y,
			Width:  it.Instance.Size.Width,
			Height: it.Instance.Size.Height,
			ZIndex: it.Instance.ZIndex,
			Locked: it.Instance.Locked,
			Hidden: it.Instance.Hidden,
		}
	}
	return jsonResult(out)
}

func (s *Server) handlePlaceComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	refID := req.GetString("refId", "")
	if refID == "" {
		return nil, fmt.Errorf("refId is required")
	}
	params, err := styleParamsArg(args, "styleParams")
	if err != nil {
		return nil, err
	}

	in := service.PlaceInput{RefID: refID, StyleParams: params}
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if hasX && hasY {
		in.Position = &domain.Position{X: x, Y: y}
	}
	_, hasW := args["width"].(float64)
	_, hasH := args["height"].(float64)
	if hasW || hasH {
		def, ok := s.catalog.Lookup(refID)
		if !ok {
			return nil, fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
		}
		in.Size = &domain.Size{
			Width:  getFloat(args, "width", def.DefaultSize.Width),
			Height: getFloat(args, "height", def.DefaultSize.Height),
		}
	}

	inst, err := s.canvas.Place(in)
	if err != nil {
		return nil, fmt.Errorf("place component: %w", err)
	}
	return jsonResult(inst)
}

func (s *Server) handleDuplicateInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inst, err := s.canvas.Duplicate(req.GetString("instanceId", ""))
	if err != nil {
		return nil, fmt.Errorf("duplicate instance: %w", err)
	}
	return jsonResult(inst)
}

func (s *Server) handleMoveInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("instanceId", "")
	cur, err := s.canvas.Instance(id)
	if err != nil {
		return nil, err
	}
	inst, err := s.canvas.Move(id, domain.Position{
		X: getFloat(args, "x", cur.Position.X),
		Y: getFloat(args, "y", cur.Position.Y),
	})
	if err != nil {
		return nil, fmt.Errorf("move instance: %w", err)
	}
	return textResult(fmt.Sprintf("Instance %s moved to (%.0f, %.0f)", inst.ID, inst.Position.X, inst.Position.Y)), nil
}

func (s *Server) handleResizeInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("instanceId", "")
	cur, err := s.canvas.Instance(id)
	if err != nil {
		return nil, err
	}
	inst, err := s.canvas.Resize(id, domain.Size{
		Width:  getFloat(args, "width", cur.Size.Width),
		Height: getFloat(args, "height", cur.Size.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("resize instance: %w", err)
	}
	return textResult(fmt.Sprintf("Instance %s resized to (%.0f × %.0f)", inst.ID, inst.Size.Width, inst.Size.Height)), nil
}

func (s *Server) handleUpdateStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := styleParamsArg(req.GetArguments(), "styleParams")
	if err != nil {
		return nil, err
	}
	inst, err := s.canvas.UpdateStyleParams(req.GetString("instanceId", ""), params)
	if err != nil {
		return nil, fmt.Errorf("update style: %w", err)
	}
	return jsonResult(inst)
}

func (s *Server) handleRemoveInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("instanceIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("instanceIds is required")
	}
	for _, id := range ids {
		if _, err := s.canvas.Instance(id); err != nil {
			return nil, err
		}
	}

	meta, _ := json.Marshal(map[string][]string{"instanceIds": ids})
	approved, err := s.approval.Request("remove_instance",
		fmt.Sprintf("Remove %d instance(s) from the canvas", len(ids)), string(meta))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	removed := 0
	for _, id := range ids {
		if err := s.canvas.Remove(id); err == nil {
			removed++
		}
	}
	return textResult(fmt.Sprintf("Removed %d instance(s)", removed)), nil
}

func (s *Server) handleToggleLock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inst, err := s.canvas.ToggleLock(req.GetString("instanceId", ""))
	if err != nil {
		return nil, fmt.Errorf("toggle lock: %w", err)
	}
	return textResult(fmt.Sprintf("Instance %s locked=%t", inst.ID, inst.Locked)), nil
}

func (s *Server) handleToggleHidden(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inst, err := s.canvas.ToggleHidden(req.GetString("instanceId", ""))
	if err != nil {
		return nil, fmt.Errorf("toggle hidden: %w", err)
	}
	return textResult(fmt.Sprintf("Instance %s hidden=%t", inst.ID, inst.Hidden)), nil
}

func (s *Server) handleBringToFront(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inst, err := s.canvas.BringToFront(req.GetString("instanceId", ""))
	if err != nil {
		return nil, fmt.Errorf("bring to front: %w", err)
	}
	return textResult(fmt.Sprintf("Instance %s is now at z=%d", inst.ID, inst.ZIndex)), nil
}

func (s *Server) handleSetGrid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var patch domain.GridPatch
	if v, ok := args["cellSize"].(float64); ok {
		if v < domain.MinCellSize {
			return nil, fmt.Errorf("cellSize must be at least %g: %w", domain.MinCellSize, domain.ErrInvalidInput)
		}
		patch.CellSize = &v
	}
	if v, ok := args["visible"].(bool); ok {
		patch.Visible = &v
	}
	if v, ok := args["snap"].(bool); ok {
		patch.SnapEnabled = &v
	}
	return jsonResult(s.canvas.SetGrid(patch))
}

func (s *Server) handleSetViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.canvas.SetViewport(req.GetString("name", "")); err != nil {
		return nil, err
	}
	return jsonResult(s.canvas.Viewports())
}

func (s *Server) handleArrangeInstances(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instances := s.canvas.Arrange()
	return textResult(fmt.Sprintf("Arranged %d instance(s)", len(instances))), nil
}

func (s *Server) handleClearCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := len(s.canvas.Layout().Instances)
	if n == 0 {
		return textResult("Canvas is already empty"), nil
	}
	approved, err := s.approval.Request("clear_canvas", fmt.Sprintf("Remove all %d instance(s) from the canvas", n))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}
	s.canvas.Clear()
	return textResult(fmt.Sprintf("Cleared %d instance(s)", n)), nil
}
