package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	moves, ups, lost int
}

func (r *recorder) PointerMove(Point) { r.moves++ }
func (r *recorder) PointerUp(Point)   { r.ups++ }
func (r *recorder) CaptureLost()      { r.lost++ }

func TestSurface_SingleCapture(t *testing.T) {
	s := NewSurface()
	a, b := &recorder{}, &recorder{}

	release, ok := s.Capture(a)
	require.True(t, ok)
	_, ok = s.Capture(b)
	assert.False(t, ok)

	s.Move(Point{})
	s.Up(Point{})
	s.Blur()
	assert.Equal(t, recorder{moves: 1, ups: 1, lost: 1}, *a)
	assert.Equal(t, recorder{}, *b)

	release()
	assert.False(t, s.Captured())
	s.Move(Point{})
	assert.Equal(t, 1, a.moves)
}

func TestSurface_StaleReleaseIsHarmless(t *testing.T) {
	s := NewSurface()
	first, _ := s.Capture(&recorder{})
	first()

	second, ok := s.Capture(&recorder{})
	require.True(t, ok)
	first()
	assert.True(t, s.Captured(), "old release must not detach the new capture")
	second()
	assert.False(t, s.Captured())
}
