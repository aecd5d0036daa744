package domain

import "time"

// LayoutNamespace is the fixed key the layout document is persisted under.
const LayoutNamespace = "design2prompt-canvas"

// LayoutDocument is the persisted form of the canvas: instances in insertion
// order plus grid, guide and viewport configuration.
type LayoutDocument struct {
	Instances []PlacedInstance `json:"instances"`
	Grid      GridConfig       `json:"grid"`
	Guides    GuideConfig      `json:"guides"`
	Viewport  string           `json:"viewport"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// DefaultLayoutDocument is what a fresh install starts from.
func DefaultLayoutDocument() LayoutDocument {
	return LayoutDocument{
		Instances: []PlacedInstance{},
		Grid:      DefaultGrid(),
		Guides:    DefaultGuides(),
		Viewport:  "desktop",
	}
}

// LayoutDocumentStore persists a LayoutDocument under a namespace.
// Load returns ErrNotFound when nothing has been saved yet.
type LayoutDocumentStore interface {
	LoadLayout(namespace string) (*LayoutDocument, error)
	SaveLayout(namespace string, doc *LayoutDocument) error
	LayoutUpdatedAt(namespace string) (time.Time, error)
}
