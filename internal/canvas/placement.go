package canvas

import (
	"math"

	"design2prompt/internal/domain"
)

// minScanStep bounds the free-spot scan so a fine grid cannot make it
// quadratic in canvas pixels.
const minScanStep = 10.0

// Placer finds free spots for new instances so that programmatic
// placement (MCP tools, catalog clicks) does not stack everything at the
// origin.
type Placer struct {
	gridSize float64
	padding  float64
}

func NewPlacer(grid domain.GridConfig) *Placer {
	cell := grid.CellSize
	if cell < domain.MinCellSize {
		cell = domain.DefaultGrid().CellSize
	}
	return &Placer{gridSize: cell, padding: cell}
}

func (p *Placer) snap(v float64) float64 {
	return math.Round(v/p.gridSize) * p.gridSize
}

type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition scans grid points row by row for the first spot where size
// fits inside bounds without touching the padded box of any existing
// instance. When the canvas is full it cascades from the origin and
// reports false.
func (p *Placer) NextPosition(existing []domain.PlacedInstance, size domain.Size, bounds domain.Size) (domain.Position, bool) {
	occupied := make([]rect, len(existing))
	for i, inst := range existing {
		occupied[i] = rect{
			x: inst.Position.X - p.padding,
			y: inst.Position.Y - p.padding,
			w: inst.Size.Width + p.padding*2,
			h: inst.Size.Height + p.padding*2,
		}
	}

	step := p.gridSize
	if step < minScanStep {
		step = math.Ceil(minScanStep/step) * step
	}
	candidate := rect{w: size.Width, h: size.Height}
	for y := 0.0; y+size.Height <= bounds.Height; y += step {
		for x := 0.0; x+size.Width <= bounds.Width; x += step {
			candidate.x, candidate.y = x, y
			free := true
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					free = false
					break
				}
			}
			if free {
				return domain.Position{X: x, Y: y}, true
			}
		}
	}

	offset := p.gridSize * float64(len(existing)%10)
	return domain.Position{X: offset, Y: offset}, false
}

// Arrange lays instances out left to right in rows starting at the origin,
// wrapping at the bounds width. It returns the new positions by id.
func (p *Placer) Arrange(instances []domain.PlacedInstance, bounds domain.Size) map[string]domain.Position {
	out := make(map[string]domain.Position, len(instances))
	x, y, rowHeight := 0.0, 0.0, 0.0
	for _, inst := range instances {
		if x > 0 && x+inst.Size.Width > bounds.Width {
			x = 0
			y += p.snap(rowHeight + p.padding)
			rowHeight = 0
		}
		out[inst.ID] = domain.Position{X: x, Y: y}
		rowHeight = math.Max(rowHeight, inst.Size.Height)
		x += p.snap(inst.Size.Width + p.padding)
	}
	return out
}
