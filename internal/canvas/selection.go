package canvas

import "sync"

// SelectionModel tracks the selected instance ids in selection order.
// It is never persisted.
type SelectionModel struct {
	mu  sync.Mutex
	ids []string
}

func NewSelectionModel() *SelectionModel {
	return &SelectionModel{}
}

// Select toggles id in the set when additive is true; otherwise the
// selection becomes exactly {id}.
func (m *SelectionModel) Select(id string, additive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !additive {
		m.ids = []string{id}
		return
	}
	for i, cur := range m.ids {
		if cur == id {
			m.ids = append(m.ids[:i:i], m.ids[i+1:]...)
			return
		}
	}
	m.ids = append(m.ids, id)
}

// Clear empties the selection (click on empty canvas).
func (m *SelectionModel) Clear() {
	m.mu.Lock()
	m.ids = nil
	m.mu.Unlock()
}

// Remove drops id if selected; used when an instance is deleted.
func (m *SelectionModel) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.ids {
		if cur == id {
			m.ids = append(m.ids[:i:i], m.ids[i+1:]...)
			return
		}
	}
}

func (m *SelectionModel) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.ids {
		if cur == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected ids.
func (m *SelectionModel) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.ids...)
}
