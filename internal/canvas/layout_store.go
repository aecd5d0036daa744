package canvas

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"design2prompt/internal/domain"
)

// Persister is where the layout document lives between sessions.
// storage.LayoutDocumentStore and storage.MongoLayoutStore implement it.
type Persister interface {
	LoadLayout(namespace string) (*domain.LayoutDocument, error)
	SaveLayout(namespace string, doc *domain.LayoutDocument) error
}

// ChangeHook is called after every committed mutation with a snapshot of the
// new document. It runs outside the store lock.
type ChangeHook func(doc domain.LayoutDocument)

// LayoutStore is the single source of truth for placed instances and canvas
// configuration. Every mutating call is applied in memory and then written
// through the Persister before it returns. Calls for unknown ids are no-ops.
type LayoutStore struct {
	mu        sync.Mutex
	viewports *ViewportAdapter
	persister Persister
	logger    *log.Logger
	doc       domain.LayoutDocument
	onChange  ChangeHook
}

// NewLayoutStore loads the persisted document once and returns a store over
// it. A missing or unreadable document yields the defaults; read failures
// are logged, never returned.
func NewLayoutStore(viewports *ViewportAdapter, persister Persister, logger *log.Logger) *LayoutStore {
	if viewports == nil {
		viewports = DefaultViewports()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &LayoutStore{
		viewports: viewports,
		persister: persister,
		logger:    logger,
	}
	doc, err := s.load()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("[canvas] no persisted layout, starting empty")
		} else {
			s.logger.Error("[canvas] load layout failed, starting empty", "err", err)
		}
		doc = domain.DefaultLayoutDocument()
	}
	s.doc = doc
	return s
}

// SetChangeHook installs fn as the post-commit observer, replacing any previous one.
func (s *LayoutStore) SetChangeHook(fn ChangeHook) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *LayoutStore) load() (domain.LayoutDocument, error) {
	if s.persister == nil {
		return domain.DefaultLayoutDocument(), nil
	}
	doc, err := s.persister.LoadLayout(domain.LayoutNamespace)
	if err != nil {
		return domain.LayoutDocument{}, err
	}
	return s.sanitize(*doc), nil
}

// sanitize repairs configuration a hand-edited or older document may carry.
// Instance geometry is deliberately left alone.
func (s *LayoutStore) sanitize(doc domain.LayoutDocument) domain.LayoutDocument {
	if doc.Grid.CellSize < domain.MinCellSize {
		doc.Grid.CellSize = domain.DefaultGrid().CellSize
	}
	if doc.Guides.Positions == nil {
		doc.Guides.Positions = []float64{}
	}
	if _, ok := s.viewports.Lookup(doc.Viewport); !ok {
		doc.Viewport = DefaultViewport
	}
	seen := make(map[string]bool, len(doc.Instances))
	instances := make([]domain.PlacedInstance, 0, len(doc.Instances))
	for _, inst := range doc.Instances {
		if inst.ID == "" || seen[inst.ID] {
			continue
		}
		seen[inst.ID] = true
		instances = append(instances, inst)
	}
	doc.Instances = instances
	return doc
}

// mutate runs fn under the lock. When fn reports a change the document is
// stamped, persisted and handed to the change hook.
func (s *LayoutStore) mutate(fn func(doc *domain.LayoutDocument) bool) {
	s.mu.Lock()
	if !fn(&s.doc) {
		s.mu.Unlock()
		return
	}
	s.doc.UpdatedAt = time.Now().UTC()
	snapshot := snapshotOf(s.doc)
	s.persist(&snapshot)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snapshot)
	}
}

// persist writes doc and logs on failure. The in-memory state is kept
// either way.
func (s *LayoutStore) persist(doc *domain.LayoutDocument) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveLayout(domain.LayoutNamespace, doc); err != nil {
		s.logger.Error("[canvas] persist layout failed", "err", err)
	}
}

func (s *LayoutStore) boundsLocked() domain.Size {
	if b, ok := s.viewports.Lookup(s.doc.Viewport); ok {
		return b
	}
	b, _ := s.viewports.Lookup(DefaultViewport)
	return b
}

func indexOf(instances []domain.PlacedInstance, id string) int {
	for i := range instances {
		if instances[i].ID == id {
			return i
		}
	}
	return -1
}

func maxZIndex(instances []domain.PlacedInstance) int {
	top := 0
	for _, inst := range instances {
		if inst.ZIndex > top {
			top = inst.ZIndex
		}
	}
	return top
}

// AddInstance appends inst and returns the stored copy. The z-index is always
// set above every existing instance, a missing or duplicate id is replaced by
// a fresh one, and the geometry is fitted into the active viewport.
func (s *LayoutStore) AddInstance(inst domain.PlacedInstance) domain.PlacedInstance {
	var added domain.PlacedInstance
	s.mutate(func(doc *domain.LayoutDocument) bool {
		if inst.ID == "" || indexOf(doc.Instances, inst.ID) >= 0 {
			inst.ID = uuid.New().String()
		}
		inst.StyleParams = inst.StyleParams.Clone()
		inst.Position, inst.Size = normalizeGeometry(inst.Position, inst.Size, s.boundsLocked())
		inst.ZIndex = maxZIndex(doc.Instances) + 1
		doc.Instances = append(doc.Instances, inst)
		added = inst.Clone()
		return true
	})
	return added
}

func (s *LayoutStore) RemoveInstance(id string) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		doc.Instances = append(doc.Instances[:i:i], doc.Instances[i+1:]...)
		return true
	})
}

// SetPosition snaps (when enabled) and clamps pos before writing it.
func (s *LayoutStore) SetPosition(id string, pos domain.Position) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		inst := &doc.Instances[i]
		inst.Position = constrainPosition(pos, inst.Size, s.boundsLocked(), doc.Grid)
		return true
	})
}

// SetSize enforces the minimum size and then the space remaining to the
// right of and below the anchor. The anchor never moves.
func (s *LayoutStore) SetSize(id string, size domain.Size) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		inst := &doc.Instances[i]
		inst.Size = constrainSize(size, inst.Position, s.boundsLocked())
		return true
	})
}

func (s *LayoutStore) ToggleLock(id string) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		doc.Instances[i].Locked = !doc.Instances[i].Locked
		return true
	})
}

func (s *LayoutStore) ToggleHidden(id string) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		doc.Instances[i].Hidden = !doc.Instances[i].Hidden
		return true
	})
}

// BringToFront gives id a z-index one above the current maximum, even when
// it already holds the maximum.
func (s *LayoutStore) BringToFront(id string) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		doc.Instances[i].ZIndex = maxZIndex(doc.Instances) + 1
		return true
	})
}

// UpdateStyleParams replaces the option bag of id.
func (s *LayoutStore) UpdateStyleParams(id string, params domain.StyleParams) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		i := indexOf(doc.Instances, id)
		if i < 0 {
			return false
		}
		doc.Instances[i].StyleParams = params.Clone()
		return true
	})
}

// SetGrid applies the non-nil fields of patch. A non-positive cell size is ignored.
func (s *LayoutStore) SetGrid(patch domain.GridPatch) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		if patch.CellSize != nil && *patch.CellSize >= domain.MinCellSize {
			doc.Grid.CellSize = *patch.CellSize
		}
		if patch.Visible != nil {
			doc.Grid.Visible = *patch.Visible
		}
		if patch.SnapEnabled != nil {
			doc.Grid.SnapEnabled = *patch.SnapEnabled
		}
		return true
	})
}

func (s *LayoutStore) SetGuides(patch domain.GuidePatch) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		if patch.Visible != nil {
			doc.Guides.Visible = *patch.Visible
		}
		if patch.Positions != nil {
			doc.Guides.Positions = append([]float64{}, patch.Positions...)
		}
		return true
	})
}

// SetViewport switches the active preset. Existing instances are not moved
// or resized; only later constraint checks see the new bounds. Unknown
// names are ignored.
func (s *LayoutStore) SetViewport(name string) {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		if _, ok := s.viewports.Lookup(name); !ok {
			s.logger.Debug("[canvas] ignoring unknown viewport preset", "name", name)
			return false
		}
		doc.Viewport = name
		return true
	})
}

// Clear removes every instance. Configuration is kept.
func (s *LayoutStore) Clear() {
	s.mutate(func(doc *domain.LayoutDocument) bool {
		doc.Instances = []domain.PlacedInstance{}
		return true
	})
}

// Replace swaps in a whole document, e.g. a restored backup. Configuration
// is repaired the same way a loaded document is.
func (s *LayoutStore) Replace(doc domain.LayoutDocument) {
	clean := s.sanitize(snapshotOf(doc))
	s.mutate(func(cur *domain.LayoutDocument) bool {
		*cur = clean
		return true
	})
}

// Reload replaces the in-memory document with the persisted one. It is used
// when another process (the standalone MCP server) wrote the document. When
// the read fails the in-memory document stays as it is, nothing is
// reported to the change hook and the error is returned.
func (s *LayoutStore) Reload() error {
	doc, err := s.load()
	if err != nil {
		s.logger.Error("[canvas] reload layout failed, keeping current state", "err", err)
		return fmt.Errorf("reload layout: %w", err)
	}
	s.mu.Lock()
	s.doc = doc
	snapshot := snapshotOf(s.doc)
	hook := s.onChange
	s.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
	return nil
}

// ── readers ────────────────────────────────────────────────

func snapshotOf(doc domain.LayoutDocument) domain.LayoutDocument {
	out := doc
	out.Instances = make([]domain.PlacedInstance, len(doc.Instances))
	for i, inst := range doc.Instances {
		out.Instances[i] = inst.Clone()
	}
	out.Guides.Positions = append([]float64{}, doc.Guides.Positions...)
	return out
}

// Document returns a deep copy of the current layout.
func (s *LayoutStore) Document() domain.LayoutDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.doc)
}

// Instances returns copies of all instances in insertion order.
func (s *LayoutStore) Instances() []domain.PlacedInstance {
	return s.Document().Instances
}

func (s *LayoutStore) Instance(id string) (domain.PlacedInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Instances, id)
	if i < 0 {
		return domain.PlacedInstance{}, false
	}
	return s.doc.Instances[i].Clone(), true
}

func (s *LayoutStore) Grid() domain.GridConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Grid
}

func (s *LayoutStore) Guides() domain.GuideConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.GuideConfig{Visible: s.doc.Guides.Visible, Positions: append([]float64{}, s.doc.Guides.Positions...)}
}

// Viewport returns the active preset name.
func (s *LayoutStore) Viewport() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Viewport
}

// Bounds returns the rectangle of the active preset.
func (s *LayoutStore) Bounds() domain.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundsLocked()
}

// Viewports exposes the preset table the store constrains against.
func (s *LayoutStore) Viewports() *ViewportAdapter {
	return s.viewports
}
