package app

import "sync"

// registry is the set of windows that have not finished closing.
type registry struct {
	mu      sync.Mutex
	windows []*Window
}

func (r *registry) add(w *Window) {
	r.mu.Lock()
	r.windows = append(r.windows, w)
	r.mu.Unlock()
}

// remove reports whether w was registered.
func (r *registry) remove(w *Window) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.windows {
		if x == w {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}

func (r *registry) snapshot() []*Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Window(nil), r.windows...)
}
