package canvas

import (
	"encoding/json"
	"fmt"
	"sync"

	"design2prompt/internal/domain"
)

// MemoryPersister keeps documents in memory, serialized as JSON so that
// round-trips behave like a real backend. Used when persistence is disabled
// and in tests.
type MemoryPersister struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
	// Fail makes every SaveLayout return this error when set.
	Fail error
	// LoadFail makes every LoadLayout return this error when set.
	LoadFail error
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{docs: make(map[string][]byte)}
}

func (m *MemoryPersister) LoadLayout(namespace string) (*domain.LayoutDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFail != nil {
		return nil, m.LoadFail
	}
	data, ok := m.docs[namespace]
	if !ok {
		return nil, fmt.Errorf("layout %q: %w", namespace, domain.ErrNotFound)
	}
	var doc domain.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &doc, nil
}

func (m *MemoryPersister) SaveLayout(namespace string, doc *domain.LayoutDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	m.docs[namespace] = data
	m.saves++
	return nil
}

// Saves reports how many successful writes happened.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
