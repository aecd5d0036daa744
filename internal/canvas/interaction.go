package canvas

import (
	"math"
	"sync"

	"design2prompt/internal/domain"
)

// State is the gesture state of the InteractionController.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return "idle"
}

// Handle names a resize grip. The top-left corner is always the anchor, so
// only the east, south and south-east grips exist.
type Handle string

const (
	HandleEast      Handle = "e"
	HandleSouth     Handle = "s"
	HandleSouthEast Handle = "se"
)

// ParseHandle accepts "e", "s" and "se".
func ParseHandle(s string) (Handle, bool) {
	switch h := Handle(s); h {
	case HandleEast, HandleSouth, HandleSouthEast:
		return h, true
	}
	return "", false
}

func (h Handle) controlsWidth() bool  { return h == HandleEast || h == HandleSouthEast }
func (h Handle) controlsHeight() bool { return h == HandleSouth || h == HandleSouthEast }

// session is the state of one gesture, from pointer-down to release.
type session struct {
	id            string
	handle        Handle
	originPointer Point
	originPos     domain.Position
	originSize    domain.Size
	release       func()
}

// InteractionController turns drag and resize gestures into constrained
// writes to the LayoutStore. It holds at most one session; entering a
// session captures the Surface and every exit path releases it.
type InteractionController struct {
	store     *LayoutStore
	selection *SelectionModel
	surface   *Surface

	mu    sync.Mutex
	state State
	zoom  float64
	sess  *session
}

func NewInteractionController(store *LayoutStore, selection *SelectionModel, surface *Surface) *InteractionController {
	return &InteractionController{
		store:     store,
		selection: selection,
		surface:   surface,
		zoom:      1,
	}
}

// SetZoom records the display zoom used to map screen deltas into canvas
// units. Non-positive or non-finite values are ignored.
func (c *InteractionController) SetZoom(z float64) {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	c.mu.Lock()
	c.zoom = z
	c.mu.Unlock()
}

func (c *InteractionController) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *InteractionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveID returns the instance of the running session, or "".
func (c *InteractionController) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.id
}

// Click selects id and brings it to the front. Hidden and locked instances
// are still selectable.
func (c *InteractionController) Click(id string, additive bool) {
	if _, ok := c.store.Instance(id); !ok {
		return
	}
	c.selection.Select(id, additive)
	c.store.BringToFront(id)
}

// ClickEmpty handles a click on the bare canvas.
func (c *InteractionController) ClickEmpty() {
	c.selection.Clear()
}

// BeginDrag starts a drag session on id. It refuses locked or hidden
// instances and any pointer-down while another session runs.
func (c *InteractionController) BeginDrag(id string, p Point, additive bool) bool {
	if !c.begin(id, "", p, Dragging) {
		return false
	}
	c.selection.Select(id, additive)
	c.store.BringToFront(id)
	return true
}

// BeginResize starts a resize session on a selected, unlocked, visible instance.
func (c *InteractionController) BeginResize(id string, h Handle, p Point) bool {
	if _, ok := ParseHandle(string(h)); !ok {
		return false
	}
	if !c.selection.Contains(id) || !c.begin(id, h, p, Resizing) {
		return false
	}
	c.selection.Select(id, false)
	c.store.BringToFront(id)
	return true
}

// begin captures the surface and records the session. Store writes happen
// after it returns, outside c.mu, so change hooks may call back into the
// controller.
func (c *InteractionController) begin(id string, h Handle, p Point, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return false
	}
	inst, ok := c.store.Instance(id)
	if !ok || inst.Locked || inst.Hidden {
		return false
	}
	release, ok := c.surface.Capture(c)
	if !ok {
		return false
	}
	c.sess = &session{
		id:            id,
		handle:        h,
		originPointer: p,
		originPos:     inst.Position,
		originSize:    inst.Size,
		release:       release,
	}
	c.state = state
	return true
}

// PointerMove commits the geometry for the current pointer location. The
// candidate is computed under c.mu and written after it is released.
func (c *InteractionController) PointerMove(p Point) {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return
	}
	id := c.sess.id
	inst, ok := c.store.Instance(id)
	if !ok {
		c.endLocked()
		c.mu.Unlock()
		return
	}
	dx := (p.X - c.sess.originPointer.X) / c.zoom
	dy := (p.Y - c.sess.originPointer.Y) / c.zoom
	grid := c.store.Grid()
	bounds := c.store.Bounds()

	var commit func()
	switch c.state {
	case Dragging:
		candidate := domain.Position{X: c.sess.originPos.X + dx, Y: c.sess.originPos.Y + dy}
		pos := constrainPosition(candidate, inst.Size, bounds, grid)
		commit = func() { c.store.SetPosition(id, pos) }
	case Resizing:
		size := resizeCandidate(c.sess, inst, dx, dy, bounds, grid)
		commit = func() { c.store.SetSize(id, size) }
	}
	c.mu.Unlock()

	if commit != nil {
		commit()
	}
}

// resizeCandidate computes the new size for the dimensions the handle
// controls; the other dimension keeps the current value.
func resizeCandidate(sess *session, inst domain.PlacedInstance, dx, dy float64, bounds domain.Size, grid domain.GridConfig) domain.Size {
	size := inst.Size
	if sess.handle.controlsWidth() {
		w := math.Max(domain.MinInstanceWidth, sess.originSize.Width+dx)
		if grid.SnapEnabled {
			w = snap(w, grid.CellSize)
		}
		size.Width = math.Min(w, bounds.Width-inst.Position.X)
	}
	if sess.handle.controlsHeight() {
		h := math.Max(domain.MinInstanceHeight, sess.originSize.Height+dy)
		if grid.SnapEnabled {
			h = snap(h, grid.CellSize)
		}
		size.Height = math.Min(h, bounds.Height-inst.Position.Y)
	}
	return size
}

func (c *InteractionController) PointerUp(Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked()
}

func (c *InteractionController) CaptureLost() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked()
}

// Cancel ends the session if it targets id. Used when the instance is
// removed or locked from elsewhere mid-gesture.
func (c *InteractionController) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil && c.sess.id == id {
		c.endLocked()
	}
}

func (c *InteractionController) endLocked() {
	if c.sess != nil && c.sess.release != nil {
		c.sess.release()
	}
	c.sess = nil
	c.state = Idle
}
