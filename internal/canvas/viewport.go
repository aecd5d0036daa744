package canvas

import (
	"sort"

	"design2prompt/internal/domain"
)

// DefaultViewport is the preset a fresh layout starts in, and the fallback
// when a persisted document names a preset that no longer exists.
const DefaultViewport = "desktop"

// ViewportAdapter maps device preset names to the fixed rectangle used for
// constraint math. The set is fixed at construction.
type ViewportAdapter struct {
	presets map[string]domain.Size
}

// NewViewportAdapter builds an adapter over presets. The map is copied.
func NewViewportAdapter(presets map[string]domain.Size) *ViewportAdapter {
	m := make(map[string]domain.Size, len(presets))
	for k, v := range presets {
		m[k] = v
	}
	return &ViewportAdapter{presets: m}
}

// DefaultViewports returns the mobile, tablet and desktop presets.
func DefaultViewports() *ViewportAdapter {
	return NewViewportAdapter(map[string]domain.Size{
		"mobile":  {Width: 375, Height: 667},
		"tablet":  {Width: 768, Height: 1024},
		"desktop": {Width: 1200, Height: 800},
	})
}

func (v *ViewportAdapter) Lookup(name string) (domain.Size, bool) {
	s, ok := v.presets[name]
	return s, ok
}

// Names returns the preset names sorted by width, narrowest first.
func (v *ViewportAdapter) Names() []string {
	names := make([]string, 0, len(v.presets))
	for k := range v.presets {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := v.presets[names[i]].Width, v.presets[names[j]].Width
		if wi != wj {
			return wi < wj
		}
		return names[i] < names[j]
	})
	return names
}
