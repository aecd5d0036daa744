package service

import (
	"context"
	"sync"
)

// Frontend event names.
const (
	EventCanvasChanged      = "canvas:changed"
	EventExternalChange     = "canvas:external-change"
	EventCatalogChanged     = "catalog:changed"
	EventCollectionsChanged = "collections:changed"
	EventBackupCompleted    = "backup:completed"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// EventEmitter pushes events to whatever front end is attached. The Wails
// App implements it with wailsRuntime.EventsEmit; the standalone MCP and
// HTTP modes use a no-op.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter records every emission for test assertions. Emit may be called
// from store hooks on several goroutines, so access is locked.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
	m.mu.Unlock()
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// Last returns the most recent emission of event.
func (m *MockEmitter) Last(event string) (EmittedEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Events) - 1; i >= 0; i-- {
		if m.Events[i].Event == event {
			return m.Events[i], true
		}
	}
	return EmittedEvent{}, false
}

// NoopEmitter discards events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, string, any) {}
