package canvas

import (
	"math"

	"design2prompt/internal/domain"
)

// snap rounds v to the nearest multiple of cell. A non-positive cell disables snapping.
func snap(v, cell float64) float64 {
	if cell <= 0 {
		return v
	}
	return math.Round(v/cell) * cell
}

// clamp bounds v to [lo, hi]. When the range is empty lo wins, so an
// instance wider than the canvas is pinned to the left/top edge.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// constrainPosition applies grid snap (when enabled) and then keeps the
// instance of the given size inside bounds.
func constrainPosition(pos domain.Position, size domain.Size, bounds domain.Size, grid domain.GridConfig) domain.Position {
	if grid.SnapEnabled {
		pos.X = snap(pos.X, grid.CellSize)
		pos.Y = snap(pos.Y, grid.CellSize)
	}
	return domain.Position{
		X: clamp(pos.X, 0, bounds.Width-size.Width),
		Y: clamp(pos.Y, 0, bounds.Height-size.Height),
	}
}

// constrainSize enforces the minimum footprint, then limits the size to the
// space left between the fixed anchor and the canvas edges. The minimum is
// re-applied last, so an instance left outside a narrower preset keeps its
// minimum size and extends past the edge.
func constrainSize(size domain.Size, pos domain.Position, bounds domain.Size) domain.Size {
	w := math.Max(size.Width, domain.MinInstanceWidth)
	h := math.Max(size.Height, domain.MinInstanceHeight)
	w = math.Min(w, bounds.Width-pos.X)
	h = math.Min(h, bounds.Height-pos.Y)
	return domain.Size{
		Width:  math.Max(w, domain.MinInstanceWidth),
		Height: math.Max(h, domain.MinInstanceHeight),
	}
}

// normalizeGeometry fits a freshly added instance into bounds without
// snapping: minimum size, then position, then remaining space.
func normalizeGeometry(pos domain.Position, size domain.Size, bounds domain.Size) (domain.Position, domain.Size) {
	size.Width = math.Max(size.Width, domain.MinInstanceWidth)
	size.Height = math.Max(size.Height, domain.MinInstanceHeight)
	pos = constrainPosition(pos, size, bounds, domain.GridConfig{})
	return pos, constrainSize(size, pos, bounds)
}
