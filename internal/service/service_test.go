package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design2prompt/internal/canvas"
	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
	"design2prompt/internal/logging"
	"design2prompt/internal/service"
	"design2prompt/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────

func newCanvas(t *testing.T) (*service.CanvasService, *service.MockEmitter, *canvas.MemoryPersister) {
	t.Helper()
	p := canvas.NewMemoryPersister()
	store := canvas.NewLayoutStore(canvas.DefaultViewports(), p, logging.Discard())
	emitter := &service.MockEmitter{}
	return service.NewCanvasService(store, catalog.NewRegistry(), emitter, logging.Discard()), emitter, p
}

func posPtr(x, y float64) *domain.Position { return &domain.Position{X: x, Y: y} }

// ─────────────────────────────────────────────────────────────
// CanvasService
// ─────────────────────────────────────────────────────────────

func TestCanvasService_PlaceUsesCatalogDefaults(t *testing.T) {
	svc, emitter, _ := newCanvas(t)

	inst, err := svc.Place(service.PlaceInput{
		RefID:       "neon-card",
		StyleParams: domain.StyleParams{"glowIntensity": domain.NumberValue(500)},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, inst.ID)
	assert.Equal(t, domain.Size{Width: 320, Height: 220}, inst.Size)
	assert.Equal(t, domain.Position{}, inst.Position)
	assert.Equal(t, domain.NumberValue(100), inst.StyleParams["glowIntensity"], "clamped to option max")
	assert.Equal(t, domain.NumberValue(40), inst.StyleParams["glowSpread"])
	assert.Equal(t, 1, emitter.Count(service.EventCanvasChanged))
}

func TestCanvasService_PlaceFindsFreeSpot(t *testing.T) {
	svc, _, _ := newCanvas(t)
	first, err := svc.Place(service.PlaceInput{RefID: "glass-card"})
	require.NoError(t, err)
	second, err := svc.Place(service.PlaceInput{RefID: "glass-card"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Position, second.Position)
	assert.GreaterOrEqual(t, second.Position.X, first.Position.X+first.Size.Width)
}

func TestCanvasService_PlaceExplicitGeometry(t *testing.T) {
	svc, _, _ := newCanvas(t)
	inst, err := svc.Place(service.PlaceInput{
		RefID:    "gradient-btn",
		Position: posPtr(1150, 10),
		Size:     &domain.Size{Width: 20, Height: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Size{Width: 100, Height: 80}, inst.Size)
	assert.Equal(t, 1100.0, inst.Position.X)
}

func TestCanvasService_PlaceUnknownRef(t *testing.T) {
	svc, emitter, _ := newCanvas(t)
	_, err := svc.Place(service.PlaceInput{RefID: "hologram"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, emitter.Count(service.EventCanvasChanged))
}

func TestCanvasService_MissingIDsReportNotFound(t *testing.T) {
	svc, _, p := newCanvas(t)
	saves := p.Saves()

	_, err := svc.Move("ghost", domain.Position{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Resize("ghost", domain.Size{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Remove("ghost"), domain.ErrNotFound)
	_, err = svc.ToggleLock("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.BringToFront("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateStyleParams("ghost", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, saves, p.Saves())
}

func TestCanvasService_MoveAndResizeAreConstrained(t *testing.T) {
	svc, _, _ := newCanvas(t)
	inst, err := svc.Place(service.PlaceInput{RefID: "glass-card", Position: posPtr(0, 0)})
	require.NoError(t, err)

	moved, err := svc.Move(inst.ID, domain.Position{X: 57, Y: 143})
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 60, Y: 140}, moved.Position)

	resized, err := svc.Resize(inst.ID, domain.Size{Width: 5000, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.Size{Width: 1140, Height: 80}, resized.Size)
}

func TestCanvasService_RemoveEndsGesture(t *testing.T) {
	svc, _, _ := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})

	require.True(t, svc.PointerDown(inst.ID, canvas.Point{}, false))
	assert.Equal(t, canvas.Dragging, svc.Interaction())
	assert.Equal(t, []string{inst.ID}, svc.Selection())

	require.NoError(t, svc.Remove(inst.ID))
	assert.Equal(t, canvas.Idle, svc.Interaction())
	assert.Empty(t, svc.Selection())

	other, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})
	assert.True(t, svc.PointerDown(other.ID, canvas.Point{}, false), "capture was released")
}

func TestCanvasService_LockingEndsGesture(t *testing.T) {
	svc, _, _ := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})

	require.True(t, svc.PointerDown(inst.ID, canvas.Point{}, false))
	locked, err := svc.ToggleLock(inst.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Equal(t, canvas.Idle, svc.Interaction())
	assert.False(t, svc.PointerDown(inst.ID, canvas.Point{}, false))
}

func TestCanvasService_PointerFlow(t *testing.T) {
	svc, emitter, _ := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "glass-card", Position: posPtr(40, 40)})
	svc.Click(inst.ID, false)

	require.True(t, svc.ResizeStart(inst.ID, "se", canvas.Point{X: 10, Y: 10}))
	assert.False(t, svc.ResizeStart(inst.ID, "nw", canvas.Point{}))
	before := emitter.Count(service.EventCanvasChanged)
	svc.PointerMove(canvas.Point{X: 30, Y: 50})
	svc.PointerMove(canvas.Point{X: 50, Y: 90})
	svc.PointerUp(canvas.Point{X: 50, Y: 90})

	got, err := svc.Instance(inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Size{Width: 360, Height: 300}, got.Size)
	assert.Equal(t, before+2, emitter.Count(service.EventCanvasChanged))

	last, ok := emitter.Last(service.EventCanvasChanged)
	require.True(t, ok)
	doc := last.Data.(domain.LayoutDocument)
	assert.Equal(t, 360.0, doc.Instances[0].Size.Width)
}

func TestCanvasService_UpdateStyleParamsValidates(t *testing.T) {
	svc, _, _ := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "step-form"})

	got, err := svc.UpdateStyleParams(inst.ID, domain.StyleParams{
		"progressStyle": domain.StringValue("spiral"),
		"stepCount":     domain.NumberValue(4),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StringValue("bar"), got.StyleParams["progressStyle"])
	assert.Equal(t, domain.NumberValue(4), got.StyleParams["stepCount"])
}

func TestCanvasService_RenderPaintOrder(t *testing.T) {
	svc, _, _ := newCanvas(t)
	a, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})
	b, _ := svc.Place(service.PlaceInput{RefID: "neo-btn"})
	svc.Store().AddInstance(domain.PlacedInstance{RefID: "retired-widget", Size: domain.Size{Width: 100, Height: 80}})
	_, err := svc.BringToFront(a.ID)
	require.NoError(t, err)

	items := svc.Render()
	require.Len(t, items, 3)
	assert.Equal(t, b.ID, items[0].Instance.ID)
	assert.Equal(t, "retired-widget", items[1].Instance.RefID)
	assert.False(t, items[1].Found)
	assert.Equal(t, a.ID, items[2].Instance.ID)
	assert.True(t, items[2].Found)
	assert.Equal(t, "Glassmorphic Card", items[2].Definition.Name)
}

func TestCanvasService_ViewportsAndArrange(t *testing.T) {
	svc, _, _ := newCanvas(t)
	assert.ErrorIs(t, svc.SetViewport("watch"), domain.ErrInvalidInput)
	require.NoError(t, svc.SetViewport("tablet"))

	vps := svc.Viewports()
	require.Len(t, vps, 3)
	assert.True(t, vps[1].Active)
	assert.Equal(t, "tablet", vps[1].Name)

	for i := 0; i < 3; i++ {
		_, err := svc.Place(service.PlaceInput{RefID: "glass-card", Position: posPtr(300, 300)})
		require.NoError(t, err)
	}
	arranged := svc.Arrange()
	seen := map[domain.Position]bool{}
	for _, inst := range arranged {
		assert.False(t, seen[inst.Position], "overlapping %v", inst.Position)
		seen[inst.Position] = true
		assert.LessOrEqual(t, inst.Position.X+inst.Size.Width, 768.0)
	}
}

func TestCanvasService_ReloadFailureKeepsLayout(t *testing.T) {
	svc, _, p := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})
	svc.Click(inst.ID, false)

	p.LoadFail = errors.New("read timeout")
	err := svc.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read timeout")

	_, err = svc.Instance(inst.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{inst.ID}, svc.Selection())

	p.LoadFail = nil
	_, err = svc.Move(inst.ID, domain.Position{X: 40, Y: 40})
	require.NoError(t, err)
	saved, err := p.LoadLayout(domain.LayoutNamespace)
	require.NoError(t, err)
	assert.Len(t, saved.Instances, 1)
}

func TestCanvasService_ImportAndReload(t *testing.T) {
	svc, _, p := newCanvas(t)
	inst, _ := svc.Place(service.PlaceInput{RefID: "glass-card"})
	svc.Click(inst.ID, false)

	// another process rewrites the document
	doc := domain.DefaultLayoutDocument()
	doc.Viewport = "mobile"
	require.NoError(t, p.SaveLayout(domain.LayoutNamespace, &doc))

	require.NoError(t, svc.Reload())
	assert.Equal(t, "mobile", svc.Layout().Viewport)
	assert.Empty(t, svc.Layout().Instances)
	assert.Empty(t, svc.Selection(), "selection drops vanished ids")

	doc.Instances = []domain.PlacedInstance{{ID: "r1", RefID: "neo-btn", Size: domain.Size{Width: 200, Height: 80}, ZIndex: 1}}
	svc.Import(doc)
	_, err := svc.Instance("r1")
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────
// CollectionService
// ─────────────────────────────────────────────────────────────

func newCollections(t *testing.T) (*service.CollectionService, *service.MockEmitter) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "canvas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	emitter := &service.MockEmitter{}
	return service.NewCollectionService(storage.NewCollectionStore(db), catalog.NewRegistry(), emitter), emitter
}

func TestCollectionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, emitter := newCollections(t)

	_, err := svc.Create(ctx, "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := svc.Create(ctx, "Landing", "hero bits")
	require.NoError(t, err)

	sc, err := svc.SaveComponent(ctx, c.ID, "gradient-hero", "", domain.StyleParams{"gradientAngle": domain.NumberValue(90)})
	require.NoError(t, err)
	assert.Equal(t, "Gradient Hero", sc.Name)
	assert.Equal(t, domain.NumberValue(90), sc.StyleParams["gradientAngle"])
	assert.Equal(t, domain.StringValue("#10b981"), sc.StyleParams["primaryColor"])

	_, err = svc.SaveComponent(ctx, c.ID, "nope", "x", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := svc.UpdateComponent(ctx, c.ID, sc.ID, "Hero B", domain.StyleParams{"gradientAngle": domain.NumberValue(999)})
	require.NoError(t, err)
	assert.Equal(t, "Hero B", updated.Name)
	assert.Equal(t, domain.NumberValue(360), updated.StyleParams["gradientAngle"])

	renamed, err := svc.Update(ctx, c.ID, "", "new description")
	require.NoError(t, err)
	assert.Equal(t, "Landing", renamed.Name)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new description", list[0].Description)
	require.Len(t, list[0].Components, 1)

	require.NoError(t, svc.RemoveComponent(ctx, c.ID, sc.ID))
	_, err = svc.Component(c.ID, sc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(c.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, 6, emitter.Count(service.EventCollectionsChanged))
}

// ─────────────────────────────────────────────────────────────
// ExportService
// ─────────────────────────────────────────────────────────────

func TestExportService(t *testing.T) {
	svc, _, _ := newCanvas(t)
	exp := service.NewExportService(svc.Store(), catalog.NewRegistry())

	inst, _ := svc.Place(service.PlaceInput{RefID: "neo-btn"})
	prompt, err := exp.InstancePrompt(inst.ID)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Neomorphic depth: 8px")

	_, err = exp.InstancePrompt("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = exp.ComponentPrompt("ghost", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	layout, err := exp.LayoutPrompt()
	require.NoError(t, err)
	assert.Contains(t, layout, "1200x800")
	assert.Contains(t, layout, "Neomorphic Button")

	data, err := exp.LayoutJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), inst.ID)

	blob, err := exp.ShareBlob(domain.StyleParams{"neoDepth": domain.NumberValue(12)})
	require.NoError(t, err)
	wc := exp.DeepLink("neo-btn", blob)
	assert.True(t, wc.FromLink)
	assert.Equal(t, domain.NumberValue(12), wc.StyleParams["neoDepth"])
}

// ─────────────────────────────────────────────────────────────
// BackupService
// ─────────────────────────────────────────────────────────────

func TestBackupService_RunOnceAndPrune(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultLayoutDocument()
	doc.Viewport = "tablet"
	emitter := &service.MockEmitter{}
	svc := service.NewBackupService(func() domain.LayoutDocument { return doc }, dir, 2, emitter, logging.Discard())

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, p)
		paths = append(paths, p)
		time.Sleep(5 * time.Millisecond)
	}

	list, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{paths[2], paths[1]}, list)
	_, err = os.Stat(paths[0])
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 3, emitter.Count(service.EventBackupCompleted))

	got, err := svc.Load(list[0])
	require.NoError(t, err)
	assert.Equal(t, "tablet", got.Viewport)

	got, err = svc.LoadByName("../../" + filepath.Base(list[1]))
	require.NoError(t, err)
	assert.Equal(t, "tablet", got.Viewport)
	_, err = svc.LoadByName(filepath.Base(paths[0]))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackupService_Schedule(t *testing.T) {
	svc := service.NewBackupService(domain.DefaultLayoutDocument, t.TempDir(), 0, nil, logging.Discard())
	ctx := context.Background()

	assert.NoError(t, svc.Start(ctx, ""))
	err := svc.Start(ctx, "every tuesday")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid backup schedule"))

	require.NoError(t, svc.Start(ctx, "@every 1h"))
	svc.Stop(ctx)
}

func TestBackupService_ListMissingDir(t *testing.T) {
	svc := service.NewBackupService(domain.DefaultLayoutDocument, filepath.Join(t.TempDir(), "none"), 3, nil, logging.Discard())
	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ─────────────────────────────────────────────────────────────
// WindowSettingsService
// ─────────────────────────────────────────────────────────────

func TestWindowSettings(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "canvas.db"))
	require.NoError(t, err)
	defer db.Close()
	svc := service.NewWindowSettingsService(storage.NewSettingsStore(db))

	assert.Equal(t, service.WindowSize{Width: 1440, Height: 900}, svc.LoadWindowSize())
	require.NoError(t, svc.SaveWindowSize(1024, 300))
	assert.Equal(t, service.WindowSize{Width: 1024, Height: 900}, svc.LoadWindowSize(), "too-small height falls back")

	assert.Equal(t, 1.0, svc.LoadZoom())
	require.NoError(t, svc.SaveZoom(1.25))
	assert.Equal(t, 1.25, svc.LoadZoom())

	nilSvc := service.NewWindowSettingsService(nil)
	assert.Equal(t, 1.0, nilSvc.LoadZoom())
}
