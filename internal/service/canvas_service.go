package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"design2prompt/internal/canvas"
	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Canvas Service — catalog placement and gesture entry points
// ─────────────────────────────────────────────────────────────

// CanvasService is the single entry point the desktop bindings, the MCP
// server and the HTTP API use to reach the layout. The core itself never
// fails; this layer turns silent no-ops on unknown ids into ErrNotFound.
type CanvasService struct {
	store     *canvas.LayoutStore
	selection *canvas.SelectionModel
	surface   *canvas.Surface
	ctl       *canvas.InteractionController
	catalog   domain.Catalog
	emitter   EventEmitter
	logger    *log.Logger
}

func NewCanvasService(store *canvas.LayoutStore, cat domain.Catalog, emitter EventEmitter, logger *log.Logger) *CanvasService {
	if logger == nil {
		logger = log.Default()
	}
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	selection := canvas.NewSelectionModel()
	surface := canvas.NewSurface()
	s := &CanvasService{
		store:     store,
		selection: selection,
		surface:   surface,
		ctl:       canvas.NewInteractionController(store, selection, surface),
		catalog:   cat,
		emitter:   emitter,
		logger:    logger,
	}
	store.SetChangeHook(func(doc domain.LayoutDocument) {
		s.emitter.Emit(context.Background(), EventCanvasChanged, doc)
	})
	return s
}

// Store exposes the underlying layout store.
func (s *CanvasService) Store() *canvas.LayoutStore { return s.store }

func (s *CanvasService) instance(id string) (domain.PlacedInstance, error) {
	inst, ok := s.store.Instance(id)
	if !ok {
		return domain.PlacedInstance{}, fmt.Errorf("instance %s: %w", id, domain.ErrNotFound)
	}
	return inst, nil
}

// ── Placement ──────────────────────────────────────────────

// PlaceInput describes a catalog placement. Nil Position asks for the next
// free spot; nil Size uses the definition's default size.
type PlaceInput struct {
	RefID       string             `json:"refId"`
	Position    *domain.Position   `json:"position,omitempty"`
	Size        *domain.Size       `json:"size,omitempty"`
	StyleParams domain.StyleParams `json:"styleParams,omitempty"`
}

// Place adds an instance of a catalog definition. Parameters are layered
// over the definition defaults and validated against its options.
func (s *CanvasService) Place(in PlaceInput) (domain.PlacedInstance, error) {
	def, ok := s.catalog.Lookup(in.RefID)
	if !ok {
		return domain.PlacedInstance{}, fmt.Errorf("catalog entry %q: %w", in.RefID, domain.ErrNotFound)
	}
	size := def.DefaultSize
	if in.Size != nil {
		size = *in.Size
	}
	var pos domain.Position
	if in.Position != nil {
		pos = *in.Position
	} else {
		var free bool
		pos, free = canvas.NewPlacer(s.store.Grid()).NextPosition(s.store.Instances(), size, s.store.Bounds())
		if !free {
			s.logger.Debug("[canvas] no free spot, cascading", "refId", in.RefID)
		}
	}
	inst := s.store.AddInstance(domain.PlacedInstance{
		RefID:       def.ID,
		Position:    pos,
		Size:        size,
		StyleParams: catalog.Resolve(def, in.StyleParams),
	})
	s.logger.Info("[canvas] placed", "id", inst.ID, "refId", inst.RefID)
	return inst, nil
}

// Duplicate places a copy of id at the next free spot, keeping its size
// and parameters.
func (s *CanvasService) Duplicate(id string) (domain.PlacedInstance, error) {
	src, err := s.instance(id)
	if err != nil {
		return domain.PlacedInstance{}, err
	}
	pos, _ := canvas.NewPlacer(s.store.Grid()).NextPosition(s.store.Instances(), src.Size, s.store.Bounds())
	return s.store.AddInstance(domain.PlacedInstance{
		RefID:       src.RefID,
		Position:    pos,
		Size:        src.Size,
		StyleParams: src.StyleParams,
	}), nil
}

// ── Mutations ──────────────────────────────────────────────

func (s *CanvasService) Move(id string, pos domain.Position) (domain.PlacedInstance, error) {
	if _, err := s.instance(id); err != nil {
		return domain.PlacedInstance{}, err
	}
	s.store.SetPosition(id, pos)
	return s.instance(id)
}

func (s *CanvasService) Resize(id string, size domain.Size) (domain.PlacedInstance, error) {
	if _, err := s.instance(id); err != nil {
		return domain.PlacedInstance{}, err
	}
	s.store.SetSize(id, size)
	return s.instance(id)
}

// Remove deletes id, ending any gesture on it first.
func (s *CanvasService) Remove(id string) error {
	if _, err := s.instance(id); err != nil {
		return err
	}
	s.ctl.Cancel(id)
	s.selection.Remove(id)
	s.store.RemoveInstance(id)
	return nil
}

// ToggleLock flips the lock flag. A running gesture on the instance ends
// when it becomes locked.
func (s *CanvasService) ToggleLock(id string) (domain.PlacedInstance, error) {
	if _, err := s.instance(id); err != nil {
		return domain.PlacedInstance{}, err
	}
	s.store.ToggleLock(id)
	inst, err := s.instance(id)
	if err == nil && inst.Locked {
		s.ctl.Cancel(id)
	}
	return inst, err
}

func (s *CanvasService) ToggleHidden(id string) (domain.PlacedInstance, error) {
	if _, err := s.instance(id); err != nil {
		return domain.PlacedInstance{}, err
	}
	s.store.ToggleHidden(id)
	inst, err := s.instance(id)
	if err == nil && inst.Hidden {
		s.ctl.Cancel(id)
	}
	return inst, err
}

func (s *CanvasService) BringToFront(id string) (domain.PlacedInstance, error) {
	if _, err := s.instance(id); err != nil {
		return domain.PlacedInstance{}, err
	}
	s.store.BringToFront(id)
	return s.instance(id)
}

// UpdateStyleParams merges params into the instance's bag, validated
// against its definition when the definition is known.
func (s *CanvasService) UpdateStyleParams(id string, params domain.StyleParams) (domain.PlacedInstance, error) {
	inst, err := s.instance(id)
	if err != nil {
		return domain.PlacedInstance{}, err
	}
	merged := inst.StyleParams.Merge(params)
	if def, ok := s.catalog.Lookup(inst.RefID); ok {
		merged = catalog.Sanitize(def, merged)
	}
	s.store.UpdateStyleParams(id, merged)
	return s.instance(id)
}

func (s *CanvasService) SetGrid(patch domain.GridPatch) domain.GridConfig {
	s.store.SetGrid(patch)
	return s.store.Grid()
}

func (s *CanvasService) SetGuides(patch domain.GuidePatch) domain.GuideConfig {
	s.store.SetGuides(patch)
	return s.store.Guides()
}

// SetViewport switches the preset. Unknown names are an input error here.
func (s *CanvasService) SetViewport(name string) error {
	if _, ok := s.store.Viewports().Lookup(name); !ok {
		return fmt.Errorf("viewport %q: %w", name, domain.ErrInvalidInput)
	}
	s.store.SetViewport(name)
	return nil
}

// Clear removes every instance and ends any gesture.
func (s *CanvasService) Clear() {
	if id := s.ctl.ActiveID(); id != "" {
		s.ctl.Cancel(id)
	}
	s.selection.Clear()
	s.store.Clear()
}

// Arrange lays every unlocked instance out in rows, in paint order.
func (s *CanvasService) Arrange() []domain.PlacedInstance {
	var movable []domain.PlacedInstance
	for _, inst := range s.paintOrder() {
		if !inst.Locked {
			movable = append(movable, inst)
		}
	}
	positions := canvas.NewPlacer(s.store.Grid()).Arrange(movable, s.store.Bounds())
	for _, inst := range movable {
		s.store.SetPosition(inst.ID, positions[inst.ID])
	}
	return s.store.Instances()
}

// Import replaces the whole layout, e.g. with a restored backup.
func (s *CanvasService) Import(doc domain.LayoutDocument) {
	if id := s.ctl.ActiveID(); id != "" {
		s.ctl.Cancel(id)
	}
	s.selection.Clear()
	s.store.Replace(doc)
}

// Reload re-reads the persisted document, e.g. after another process
// wrote it. A failed read leaves the current layout and selection alone.
func (s *CanvasService) Reload() error {
	if err := s.store.Reload(); err != nil {
		return err
	}
	if id := s.ctl.ActiveID(); id != "" {
		s.ctl.Cancel(id)
	}
	for _, id := range s.selection.IDs() {
		if _, ok := s.store.Instance(id); !ok {
			s.selection.Remove(id)
		}
	}
	return nil
}

// ── Pointer entry points ───────────────────────────────────

func (s *CanvasService) Click(id string, additive bool) { s.ctl.Click(id, additive) }
func (s *CanvasService) ClickEmpty()                    { s.ctl.ClickEmpty() }

// PointerDown starts a drag on id. It reports whether a session began.
func (s *CanvasService) PointerDown(id string, p canvas.Point, additive bool) bool {
	return s.ctl.BeginDrag(id, p, additive)
}

// ResizeStart starts a resize from handle ("e", "s" or "se").
func (s *CanvasService) ResizeStart(id, handle string, p canvas.Point) bool {
	h, ok := canvas.ParseHandle(handle)
	if !ok {
		return false
	}
	return s.ctl.BeginResize(id, h, p)
}

func (s *CanvasService) PointerMove(p canvas.Point) { s.surface.Move(p) }
func (s *CanvasService) PointerUp(p canvas.Point)   { s.surface.Up(p) }

// Blur reports that the window lost the pointer mid-gesture.
func (s *CanvasService) Blur() { s.surface.Blur() }

func (s *CanvasService) SetZoom(z float64)        { s.ctl.SetZoom(z) }
func (s *CanvasService) Selection() []string      { return s.selection.IDs() }
func (s *CanvasService) Interaction() canvas.State { return s.ctl.State() }

// ── Readers ────────────────────────────────────────────────

// RenderItem pairs an instance with its definition for preview rendering.
// Found is false when the catalog no longer knows the reference id.
type RenderItem struct {
	Instance   domain.PlacedInstance    `json:"instance"`
	Definition domain.CatalogDefinition `json:"definition"`
	Found      bool                     `json:"found"`
	Selected   bool                     `json:"selected"`
}

func (s *CanvasService) paintOrder() []domain.PlacedInstance {
	instances := s.store.Instances()
	sort.SliceStable(instances, func(i, j int) bool { return instances[i].ZIndex < instances[j].ZIndex })
	return instances
}

// Render returns every instance in paint order (lowest z first).
func (s *CanvasService) Render() []RenderItem {
	instances := s.paintOrder()
	items := make([]RenderItem, len(instances))
	for i, inst := range instances {
		def, ok := s.catalog.Lookup(inst.RefID)
		items[i] = RenderItem{
			Instance:   inst,
			Definition: def,
			Found:      ok,
			Selected:   s.selection.Contains(inst.ID),
		}
	}
	return items
}

func (s *CanvasService) Layout() domain.LayoutDocument { return s.store.Document() }

func (s *CanvasService) Instance(id string) (domain.PlacedInstance, error) { return s.instance(id) }

type ViewportInfo struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Active bool    `json:"active"`
}

func (s *CanvasService) Viewports() []ViewportInfo {
	adapter := s.store.Viewports()
	active := s.store.Viewport()
	var out []ViewportInfo
	for _, name := range adapter.Names() {
		size, _ := adapter.Lookup(name)
		out = append(out, ViewportInfo{Name: name, Width: size.Width, Height: size.Height, Active: name == active})
	}
	return out
}
