// Package views holds the widgets a window renders every frame.
package views

import (
	"sync"

	"github.com/tinyrange/winframe/internal/graphics"
)

// View is anything that can draw itself into a frame. Render is called on
// the window's render goroutine.
type View interface {
	Name() string
	Render(c *graphics.Canvas)
}

// Releaser is implemented by views that own GL resources. Release runs on
// the render goroutine once the view has been removed or replaced, or when
// the window is closing. A view added again may be rendered after Release.
type Releaser interface {
	Release(c *graphics.Canvas)
}

// Set maps names to views and iterates them in the order they were first
// added. Replacing a view keeps its position. Safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	order []string
	views map[string]View
	// retired holds removed or replaced views still waiting for Release.
	retired []Releaser
}

func NewSet() *Set {
	return &Set{views: make(map[string]View)}
}

func (s *Set) Add(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := v.Name()
	old, ok := s.views[name]
	if !ok {
		s.order = append(s.order, name)
	} else {
		s.retire(old)
	}
	s.views[name] = v
}

func (s *Set) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[name]
	if !ok {
		return false
	}
	s.retire(v)
	delete(s.views, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Get(name string) (View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[name]
	return v, ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Snapshot returns the views in iteration order.
func (s *Set) Snapshot() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.views[name])
	}
	return out
}

func (s *Set) retire(v View) {
	if r, ok := v.(Releaser); ok {
		s.retired = append(s.retired, r)
	}
}

func (s *Set) takeRetired() []Releaser {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.retired
	s.retired = nil
	return r
}

// Render releases views removed since the last frame, then draws every view
// into c in iteration order.
func (s *Set) Render(c *graphics.Canvas) {
	for _, r := range s.takeRetired() {
		r.Release(c)
	}
	for _, v := range s.Snapshot() {
		v.Render(c)
	}
}

// Release frees the resources of removed views and of the views still in
// the set. The set stays usable.
func (s *Set) Release(c *graphics.Canvas) {
	for _, r := range s.takeRetired() {
		r.Release(c)
	}
	for _, v := range s.Snapshot() {
		if r, ok := v.(Releaser); ok {
			r.Release(c)
		}
	}
}
