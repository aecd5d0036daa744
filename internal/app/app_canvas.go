package app

import (
	"design2prompt/internal/canvas"
	"design2prompt/internal/domain"
	"design2prompt/internal/service"
)

// ============================================================
// Canvas
// ============================================================

func (a *App) GetLayout() domain.LayoutDocument      { return a.core.Canvas.Layout() }
func (a *App) RenderCanvas() []service.RenderItem    { return a.core.Canvas.Render() }
func (a *App) ListViewports() []service.ViewportInfo { return a.core.Canvas.Viewports() }
func (a *App) GetSelection() []string                { return a.core.Canvas.Selection() }
func (a *App) GetInteractionState() string           { return a.core.Canvas.Interaction().String() }
func (a *App) SetViewport(name string) error         { return a.core.Canvas.SetViewport(name) }

func (a *App) SetGrid(p domain.GridPatch) domain.GridConfig {
	return a.core.Canvas.SetGrid(p)
}

func (a *App) SetGuides(p domain.GuidePatch) domain.GuideConfig {
	return a.core.Canvas.SetGuides(p)
}

// PlaceComponent drops a catalog entry on the canvas at the next free spot.
func (a *App) PlaceComponent(refID string, params domain.StyleParams) (domain.PlacedInstance, error) {
	return a.core.Canvas.Place(service.PlaceInput{RefID: refID, StyleParams: params})
}

// PlaceComponentAt drops a catalog entry where the user released it.
func (a *App) PlaceComponentAt(refID string, x, y float64) (domain.PlacedInstance, error) {
	return a.core.Canvas.Place(service.PlaceInput{RefID: refID, Position: &domain.Position{X: x, Y: y}})
}

func (a *App) DuplicateInstance(id string) (domain.PlacedInstance, error) {
	return a.core.Canvas.Duplicate(id)
}

func (a *App) MoveInstance(id string, x, y float64) (domain.PlacedInstance, error) {
	return a.core.Canvas.Move(id, domain.Position{X: x, Y: y})
}

func (a *App) ResizeInstance(id string, width, height float64) (domain.PlacedInstance, error) {
	return a.core.Canvas.Resize(id, domain.Size{Width: width, Height: height})
}

func (a *App) UpdateStyleParams(id string, params domain.StyleParams) (domain.PlacedInstance, error) {
	return a.core.Canvas.UpdateStyleParams(id, params)
}

func (a *App) RemoveInstance(id string) error { return a.core.Canvas.Remove(id) }

func (a *App) ToggleLock(id string) (domain.PlacedInstance, error) {
	return a.core.Canvas.ToggleLock(id)
}

func (a *App) ToggleHidden(id string) (domain.PlacedInstance, error) {
	return a.core.Canvas.ToggleHidden(id)
}

func (a *App) BringToFront(id string) (domain.PlacedInstance, error) {
	return a.core.Canvas.BringToFront(id)
}

func (a *App) ArrangeInstances() []domain.PlacedInstance { return a.core.Canvas.Arrange() }
func (a *App) ClearCanvas()                              { a.core.Canvas.Clear() }

// ── Pointer gestures ───────────────────────────────────────

func (a *App) ClickInstance(id string, additive bool) { a.core.Canvas.Click(id, additive) }
func (a *App) ClickCanvas()                           { a.core.Canvas.ClickEmpty() }

func (a *App) PointerDown(id string, x, y float64, additive bool) bool {
	return a.core.Canvas.PointerDown(id, canvas.Point{X: x, Y: y}, additive)
}

func (a *App) ResizeStart(id, handle string, x, y float64) bool {
	return a.core.Canvas.ResizeStart(id, handle, canvas.Point{X: x, Y: y})
}

func (a *App) PointerMove(x, y float64) { a.core.Canvas.PointerMove(canvas.Point{X: x, Y: y}) }
func (a *App) PointerUp(x, y float64)   { a.core.Canvas.PointerUp(canvas.Point{X: x, Y: y}) }

// PointerCancel is sent when the WebView loses focus mid-gesture.
func (a *App) PointerCancel() { a.core.Canvas.Blur() }
