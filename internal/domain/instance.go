package domain

// Minimum footprint of a placed instance, in canvas units.
const (
	MinInstanceWidth  = 100.0
	MinInstanceHeight = 80.0
)

// MinCellSize is the smallest grid cell a layout accepts.
const MinCellSize = 1.0

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedInstance is one catalog component placed on the canvas.
// RefID is a lookup key into the catalog; the instance does not own the definition.
type PlacedInstance struct {
	ID          string      `json:"id"`
	RefID       string      `json:"refId"`
	Position    Position    `json:"position"`
	Size        Size        `json:"size"`
	ZIndex      int         `json:"zIndex"`
	Locked      bool        `json:"locked"`
	Hidden      bool        `json:"hidden"`
	StyleParams StyleParams `json:"styleParams"`
}

// Clone returns a copy that shares no mutable state with p.
func (p PlacedInstance) Clone() PlacedInstance {
	p.StyleParams = p.StyleParams.Clone()
	return p
}

type GridConfig struct {
	CellSize    float64 `json:"cellSize"`
	Visible     bool    `json:"visible"`
	SnapEnabled bool    `json:"snapEnabled"`
}

// GridPatch is a partial GridConfig update; nil fields are left alone.
type GridPatch struct {
	CellSize    *float64 `json:"cellSize,omitempty"`
	Visible     *bool    `json:"visible,omitempty"`
	SnapEnabled *bool    `json:"snapEnabled,omitempty"`
}

type GuideConfig struct {
	Visible   bool      `json:"visible"`
	Positions []float64 `json:"positions"`
}

type GuidePatch struct {
	Visible   *bool     `json:"visible,omitempty"`
	Positions []float64 `json:"positions,omitempty"`
}

func DefaultGrid() GridConfig {
	return GridConfig{CellSize: 20, Visible: true, SnapEnabled: true}
}

func DefaultGuides() GuideConfig {
	return GuideConfig{Visible: true, Positions: []float64{}}
}
