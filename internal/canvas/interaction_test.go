package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design2prompt/internal/domain"
	"design2prompt/internal/logging"
)

type rig struct {
	store     *LayoutStore
	persister *MemoryPersister
	selection *SelectionModel
	surface   *Surface
	ctl       *InteractionController
}

func newRig(t *testing.T, snapOn bool) *rig {
	t.Helper()
	p := NewMemoryPersister()
	store := NewLayoutStore(DefaultViewports(), p, logging.Discard())
	store.SetGrid(domain.GridPatch{CellSize: floatPtr(20), SnapEnabled: boolPtr(snapOn)})
	sel := NewSelectionModel()
	surf := NewSurface()
	return &rig{
		store:     store,
		persister: p,
		selection: sel,
		surface:   surf,
		ctl:       NewInteractionController(store, sel, surf),
	}
}

func (r *rig) instance(t *testing.T, id string) domain.PlacedInstance {
	t.Helper()
	inst, ok := r.store.Instance(id)
	require.True(t, ok, "instance %s", id)
	return inst
}

func TestResize_EastHandleScenario(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 50, 50, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleEast, Point{X: 300, Y: 400}))
	r.surface.Move(Point{X: 350, Y: 400})
	r.surface.Up(Point{X: 350, Y: 400})

	got := r.instance(t, inst.ID)
	assert.Equal(t, domain.Size{Width: 250, Height: 150}, got.Size)
	assert.Equal(t, domain.Position{X: 50, Y: 50}, got.Position)
	assert.Equal(t, Idle, r.ctl.State())
}

func TestResize_EastIgnoresVerticalMovement(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 50, 50, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleEast, Point{}))
	r.surface.Move(Point{X: 10, Y: 300})

	assert.Equal(t, domain.Size{Width: 210, Height: 150}, r.instance(t, inst.ID).Size)
}

func TestResize_SouthEastEnforcesMinimum(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 50, 50, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleSouthEast, Point{X: 500, Y: 500}))
	r.surface.Move(Point{X: 0, Y: 0})

	assert.Equal(t, domain.Size{Width: 100, Height: 80}, r.instance(t, inst.ID).Size)
}

func TestResize_SnapsControlledDimensions(t *testing.T) {
	r := newRig(t, true)
	inst := place(r.store, 40, 40, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleSouthEast, Point{}))
	r.surface.Move(Point{X: 57, Y: 13})

	assert.Equal(t, domain.Size{Width: 260, Height: 160}, r.instance(t, inst.ID).Size)
}

func TestResize_SouthKeepsUnsnappedWidth(t *testing.T) {
	r := newRig(t, true)
	inst := place(r.store, 40, 40, 205, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleSouth, Point{}))
	r.surface.Move(Point{X: 33, Y: 31})

	assert.Equal(t, domain.Size{Width: 205, Height: 180}, r.instance(t, inst.ID).Size)
}

func TestResize_ClampsToCanvasEdge(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 900, 600, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleSouthEast, Point{}))
	r.surface.Move(Point{X: 1000, Y: 1000})

	got := r.instance(t, inst.ID)
	assert.Equal(t, domain.Size{Width: 300, Height: 200}, got.Size)
	assert.Equal(t, domain.Position{X: 900, Y: 600}, got.Position)
}

func TestResize_RequiresSelection(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)

	assert.False(t, r.ctl.BeginResize(inst.ID, HandleEast, Point{}))
	assert.False(t, r.surface.Captured())
}

func TestResize_RejectsUnknownHandle(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)
	r.ctl.Click(inst.ID, false)

	assert.False(t, r.ctl.BeginResize(inst.ID, Handle("nw"), Point{}))
}

func TestResize_ZoomScalesDelta(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)
	r.ctl.Click(inst.ID, false)
	r.ctl.SetZoom(0.5)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleEast, Point{}))
	r.surface.Move(Point{X: 50})

	assert.Equal(t, 300.0, r.instance(t, inst.ID).Size.Width)
}

func TestDrag_GridSnapScenario(t *testing.T) {
	r := newRig(t, true)
	inst := place(r.store, 0, 0, 200, 150)

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{X: 100, Y: 100}, false))
	assert.Equal(t, Dragging, r.ctl.State())
	r.surface.Move(Point{X: 157, Y: 243})

	assert.Equal(t, domain.Position{X: 60, Y: 140}, r.instance(t, inst.ID).Position)
}

func TestDrag_ZoomDividesDelta(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 100, 100, 200, 150)
	r.ctl.SetZoom(2)

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{X: 0, Y: 0}, false))
	r.surface.Move(Point{X: 100, Y: -60})

	assert.Equal(t, domain.Position{X: 150, Y: 70}, r.instance(t, inst.ID).Position)
}

func TestDrag_ClampsToViewport(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 100, 100, 200, 150)

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{}, false))
	r.surface.Move(Point{X: -500, Y: 5000})

	assert.Equal(t, domain.Position{X: 0, Y: 650}, r.instance(t, inst.ID).Position)
}

func TestDrag_SelectsAndBringsToFront(t *testing.T) {
	r := newRig(t, false)
	a := place(r.store, 0, 0, 200, 150)
	b := place(r.store, 0, 0, 200, 150)

	require.True(t, r.ctl.BeginDrag(a.ID, Point{}, false))

	assert.Equal(t, []string{a.ID}, r.selection.IDs())
	assert.Greater(t, r.instance(t, a.ID).ZIndex, r.instance(t, b.ID).ZIndex)
}

func TestDrag_RefusesLockedAndHidden(t *testing.T) {
	r := newRig(t, false)
	locked := place(r.store, 0, 0, 200, 150)
	hidden := place(r.store, 0, 0, 200, 150)
	r.store.ToggleLock(locked.ID)
	r.store.ToggleHidden(hidden.ID)

	assert.False(t, r.ctl.BeginDrag(locked.ID, Point{}, false))
	assert.False(t, r.ctl.BeginDrag(hidden.ID, Point{}, false))
	assert.False(t, r.ctl.BeginDrag("missing", Point{}, false))
	assert.Equal(t, Idle, r.ctl.State())

	r.ctl.Click(locked.ID, false)
	assert.False(t, r.ctl.BeginResize(locked.ID, HandleSouthEast, Point{}))
}

func TestSession_OnlyOneAtATime(t *testing.T) {
	r := newRig(t, false)
	a := place(r.store, 0, 0, 200, 150)
	b := place(r.store, 300, 300, 200, 150)

	require.True(t, r.ctl.BeginDrag(a.ID, Point{}, false))
	assert.False(t, r.ctl.BeginDrag(b.ID, Point{}, false))
	r.ctl.Click(b.ID, false)
	assert.False(t, r.ctl.BeginResize(b.ID, HandleEast, Point{}))
	assert.Equal(t, a.ID, r.ctl.ActiveID())
}

func TestSession_ReleaseDetachesCapture(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{}, false))
	require.True(t, r.surface.Captured())
	r.surface.Move(Point{X: 20, Y: 20})
	r.surface.Up(Point{X: 20, Y: 20})

	assert.False(t, r.surface.Captured())
	assert.Equal(t, Idle, r.ctl.State())
	assert.Equal(t, "", r.ctl.ActiveID())

	// Moves after release go nowhere.
	r.surface.Move(Point{X: 400, Y: 400})
	assert.Equal(t, domain.Position{X: 20, Y: 20}, r.instance(t, inst.ID).Position)
}

func TestSession_CaptureLossEndsGesture(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)
	r.ctl.Click(inst.ID, false)

	require.True(t, r.ctl.BeginResize(inst.ID, HandleSouth, Point{}))
	r.surface.Move(Point{Y: 40})
	r.surface.Blur()

	assert.Equal(t, Idle, r.ctl.State())
	assert.False(t, r.surface.Captured())
	assert.Equal(t, 190.0, r.instance(t, inst.ID).Size.Height, "last committed value is final")

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{}, false), "a new session can start")
}

func TestSession_IntermediateStatesArePersisted(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)
	r.ctl.Click(inst.ID, false)
	before := r.persister.Saves()

	require.True(t, r.ctl.BeginResize(inst.ID, HandleEast, Point{}))
	for x := 10.0; x <= 50; x += 10 {
		r.surface.Move(Point{X: x})
	}
	r.surface.Up(Point{X: 50})

	// select + bring to front on entry, then one write per move.
	assert.Equal(t, before+1+5, r.persister.Saves())
}

func TestSession_InstanceRemovedMidGesture(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)

	require.True(t, r.ctl.BeginDrag(inst.ID, Point{}, false))
	r.store.RemoveInstance(inst.ID)
	r.surface.Move(Point{X: 10, Y: 10})

	assert.Equal(t, Idle, r.ctl.State())
	assert.False(t, r.surface.Captured())
	assert.Empty(t, r.store.Instances())
}

func TestCancel(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 0, 0, 200, 150)
	require.True(t, r.ctl.BeginDrag(inst.ID, Point{}, false))

	r.ctl.Cancel("other")
	assert.Equal(t, Dragging, r.ctl.State())
	r.ctl.Cancel(inst.ID)
	assert.Equal(t, Idle, r.ctl.State())
	assert.False(t, r.surface.Captured())
}

func TestClick(t *testing.T) {
	r := newRig(t, false)
	a := place(r.store, 0, 0, 200, 150)
	b := place(r.store, 0, 0, 200, 150)

	r.ctl.Click(a.ID, false)
	assert.Equal(t, []string{a.ID}, r.selection.IDs())
	assert.Greater(t, r.instance(t, a.ID).ZIndex, r.instance(t, b.ID).ZIndex)

	r.ctl.Click(b.ID, true)
	assert.Equal(t, []string{a.ID, b.ID}, r.selection.IDs())

	r.ctl.Click("missing", false)
	assert.Equal(t, []string{a.ID, b.ID}, r.selection.IDs())

	r.ctl.ClickEmpty()
	assert.Empty(t, r.selection.IDs())
}

func TestSetZoom_IgnoresInvalid(t *testing.T) {
	r := newRig(t, false)
	r.ctl.SetZoom(0)
	r.ctl.SetZoom(-2)
	assert.Equal(t, 1.0, r.ctl.Zoom())
	r.ctl.SetZoom(1.5)
	assert.Equal(t, 1.5, r.ctl.Zoom())
}

func TestParseHandle(t *testing.T) {
	for _, s := range []string{"e", "s", "se"} {
		h, ok := ParseHandle(s)
		assert.True(t, ok, s)
		assert.Equal(t, Handle(s), h)
	}
	for _, s := range []string{"", "n", "w", "nw", "ne", "sw"} {
		_, ok := ParseHandle(s)
		assert.False(t, ok, s)
	}
}

func TestChangeHook_MayQueryController(t *testing.T) {
	r := newRig(t, false)
	inst := place(r.store, 50, 50, 200, 150)

	var states []State
	var cancelled bool
	r.store.SetChangeHook(func(doc domain.LayoutDocument) {
		states = append(states, r.ctl.State())
		if r.ctl.ActiveID() == inst.ID && doc.Instances[0].Size.Width > 200 {
			r.ctl.Cancel(inst.ID)
			cancelled = true
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ctl.BeginDrag(inst.ID, Point{X: 100, Y: 100}, false)
		r.surface.Move(Point{X: 140, Y: 100})
		r.surface.Up(Point{X: 140, Y: 100})
		r.ctl.BeginResize(inst.ID, HandleEast, Point{X: 0, Y: 0})
		r.surface.Move(Point{X: 40, Y: 0})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("change hook re-entering the controller blocked")
	}

	assert.Equal(t, []State{Dragging, Dragging, Resizing, Resizing}, states)
	assert.True(t, cancelled)
	assert.Equal(t, Idle, r.ctl.State())
	assert.False(t, r.surface.Captured())
	assert.Equal(t, 90.0, r.instance(t, inst.ID).Position.X)
	assert.Equal(t, 240.0, r.instance(t, inst.ID).Size.Width)
}
