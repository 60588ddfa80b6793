package viewport

import "sync"

// Static is a viewport whose size is set explicitly.
// Hosts that learn about resizes from elsewhere (a Bubble Tea WindowSizeMsg,
// a browser bridge, a test) call Resize to update it and notify subscribers.
type Static struct {
	*Broadcaster

	mu     sync.RWMutex
	width  int
	height int
}

// NewStatic creates a Static viewport of the given size.
func NewStatic(width, height int) *Static {
	return &Static{
		Broadcaster: NewBroadcaster(),
		width:       width,
		height:      height,
	}
}

// Size returns the current width and height.
func (s *Static) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SetSize changes the size without notifying subscribers.
func (s *Static) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

// Resize changes the size and notifies subscribers, even if the size is unchanged.
func (s *Static) Resize(width, height int) {
	s.SetSize(width, height)
	s.Notify()
}
