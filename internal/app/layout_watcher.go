package app

import (
	"context"
	"sync"
	"time"

	"design2prompt/internal/domain"
	mcpserver "design2prompt/internal/mcp"
	"design2prompt/internal/service"
)

const watchInterval = 2 * time.Second

// layoutWatcher polls the database for layout writes made by another
// process (the standalone MCP server or the desktop shell) and, in the
// desktop shell, for approvals the MCP server is waiting on.
type layoutWatcher struct {
	ctx     context.Context
	core    *Core
	emitter service.EventEmitter

	// Only the desktop shell shows approval prompts.
	approvals bool

	mu       sync.Mutex
	lastSeen time.Time
	// Approval ids already emitted, so each prompt is shown once.
	emitted map[string]bool
	stopCh  chan struct{}
}

func newLayoutWatcher(ctx context.Context, core *Core, approvals bool) *layoutWatcher {
	return &layoutWatcher{
		ctx:       ctx,
		core:      core,
		emitter:   core.Emitter(),
		approvals: approvals,
		emitted:   map[string]bool{},
	}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *layoutWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop(w.stopCh)
}

func (w *layoutWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *layoutWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *layoutWatcher) check() {
	w.checkLayout()
	if w.approvals {
		w.checkApprovals()
	}
}

// checkLayout reloads the canvas when the persisted document is newer than
// the one in memory. Our own writes never are.
func (w *layoutWatcher) checkLayout() {
	persisted, err := w.core.Layouts.LayoutUpdatedAt(domain.LayoutNamespace)
	if err != nil {
		return
	}
	w.mu.Lock()
	unchanged := persisted.Equal(w.lastSeen)
	w.lastSeen = persisted
	w.mu.Unlock()
	if unchanged || !persisted.After(w.core.Canvas.Layout().UpdatedAt) {
		return
	}

	w.core.Logger.Info("[watch] layout changed by another process", "updatedAt", persisted)
	if err := w.core.Canvas.Reload(); err != nil {
		// Retry on the next tick.
		w.mu.Lock()
		w.lastSeen = time.Time{}
		w.mu.Unlock()
		w.core.Logger.Warn("[watch] reload layout", "err", err)
		return
	}
	w.emitter.Emit(w.ctx, service.EventExternalChange, map[string]any{"updatedAt": persisted})
}

// checkApprovals emits each pending approval once and forgets ids that are
// no longer pending.
func (w *layoutWatcher) checkApprovals() {
	pending, err := w.core.Approvals.Pending()
	if err != nil {
		w.core.Logger.Debug("[watch] list approvals", "err", err)
		return
	}

	live := make(map[string]bool, len(pending))
	var fresh []mcpserver.PendingAction
	w.mu.Lock()
	for _, p := range pending {
		live[p.ID] = true
		if w.emitted[p.ID] {
			continue
		}
		w.emitted[p.ID] = true
		fresh = append(fresh, mcpserver.PendingAction{
			ID:          p.ID,
			Tool:        p.Tool,
			Description: p.Description,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
			Metadata:    p.Metadata,
		})
	}
	for id := range w.emitted {
		if !live[id] {
			delete(w.emitted, id)
		}
	}
	w.mu.Unlock()

	for _, action := range fresh {
		w.emitter.Emit(w.ctx, mcpserver.EventApprovalRequired, action)
	}
}
