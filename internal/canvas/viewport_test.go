package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"design2prompt/internal/domain"
)

func TestDefaultViewports(t *testing.T) {
	v := DefaultViewports()
	assert.Equal(t, []string{"mobile", "tablet", "desktop"}, v.Names())

	d, ok := v.Lookup("desktop")
	assert.True(t, ok)
	assert.Equal(t, domain.Size{Width: 1200, Height: 800}, d)

	_, ok = v.Lookup("tv")
	assert.False(t, ok)
}

func TestNewViewportAdapter_CopiesInput(t *testing.T) {
	in := map[string]domain.Size{"square": {Width: 500, Height: 500}}
	v := NewViewportAdapter(in)
	in["square"] = domain.Size{Width: 1, Height: 1}

	got, _ := v.Lookup("square")
	assert.Equal(t, 500.0, got.Width)
}

func TestSnapAndClamp(t *testing.T) {
	assert.Equal(t, 60.0, snap(57, 20))
	assert.Equal(t, 140.0, snap(143, 20))
	assert.Equal(t, 57.0, snap(57, 0))
	assert.Equal(t, 0.0, clamp(-3, 0, 10))
	assert.Equal(t, 10.0, clamp(30, 0, 10))
	assert.Equal(t, 0.0, clamp(30, 0, -5), "empty range pins to lower bound")
}
