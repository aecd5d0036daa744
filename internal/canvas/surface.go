package canvas

import "sync"

// Point is a pointer location in screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerHandler receives the events of a captured pointer.
type PointerHandler interface {
	PointerMove(p Point)
	PointerUp(p Point)
	CaptureLost()
}

// Surface is the global pointer capture. At most one handler holds it at a
// time; raw events from the shell are routed to that handler only.
type Surface struct {
	mu      sync.Mutex
	handler PointerHandler
	token   uint64
}

func NewSurface() *Surface {
	return &Surface{}
}

// Capture routes pointer events to h until release is called. It fails when
// another handler already holds the capture. release is idempotent and only
// ever detaches the capture it created.
func (s *Surface) Capture(h PointerHandler) (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler != nil {
		return nil, false
	}
	s.token++
	token := s.token
	s.handler = h
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.token == token {
			s.handler = nil
		}
	}, true
}

// Captured reports whether a handler currently holds the pointer.
func (s *Surface) Captured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

func (s *Surface) current() PointerHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// Move forwards a pointer-move. Without a capture it is dropped.
func (s *Surface) Move(p Point) {
	if h := s.current(); h != nil {
		h.PointerMove(p)
	}
}

// Up forwards a pointer-up.
func (s *Surface) Up(p Point) {
	if h := s.current(); h != nil {
		h.PointerUp(p)
	}
}

// Blur signals loss of capture, e.g. the window lost focus mid-gesture.
func (s *Surface) Blur() {
	if h := s.current(); h != nil {
		h.CaptureLost()
	}
}
