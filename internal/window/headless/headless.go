// Package headless provides a window backend without a display. Windows keep
// their state in memory, render into a gl.Recorder, and receive native
// events injected by the caller.
package headless

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinyrange/winframe/internal/gl"
	"github.com/tinyrange/winframe/internal/window"
)

// Backend implements window.Backend.
type Backend struct {
	// FrameTime is how long SwapBuffers blocks per unit of swap interval.
	// Zero means SwapBuffers never blocks.
	FrameTime time.Duration

	mu          sync.Mutex
	initialised bool
	terminated  bool
	failCreate  int
	created     []*Window
	live        map[*Window]struct{}
	polls       int
}

func New() *Backend {
	return &Backend{
		FrameTime: time.Second / 60,
		live:      make(map[*Window]struct{}),
	}
}

// FailNextCreate makes the next n CreateWindow calls fail.
func (b *Backend) FailNextCreate(n int) {
	b.mu.Lock()
	b.failCreate += n
	b.mu.Unlock()
}

// Windows returns every window created so far, destroyed ones included.
func (b *Backend) Windows() []*Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Window(nil), b.created...)
}

// Live returns the number of windows not yet destroyed.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

func (b *Backend) Polls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

func (b *Backend) Terminated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminated
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialised {
		return errors.New("headless backend already initialised")
	}
	b.initialised = true
	return nil
}

func (b *Backend) Terminate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.terminated = true
}

func (b *Backend) CreateWindow(title string, width, height int) (window.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failCreate > 0 {
		b.failCreate--
		return nil, window.ErrCreateWindow
	}
	w := &Window{
		backend:  b,
		title:    title,
		width:    width,
		height:   height,
		fbWidth:  width,
		fbHeight: height,
		gl:       gl.NewRecorder(),
	}
	b.created = append(b.created, w)
	b.live[w] = struct{}{}
	return w, nil
}

func (b *Backend) PollEvents() {
	b.mu.Lock()
	b.polls++
	windows := make([]*Window, 0, len(b.live))
	for w := range b.live {
		windows = append(windows, w)
	}
	b.mu.Unlock()

	for _, w := range windows {
		w.deliver()
	}
}

// Window implements window.Handle.
type Window struct {
	backend *Backend
	gl      *gl.Recorder

	mu        sync.Mutex
	title     string
	width     int
	height    int
	fbWidth   int
	fbHeight  int
	visible   bool
	focusReqs int
	sizeReqs  int
	destroyed bool
	cb        window.Callbacks
	pending   []func(window.Callbacks)

	shouldClose atomic.Bool
	current     atomic.Bool
	interval    atomic.Int32
	swaps       atomic.Int64
}

// Recorder returns the GL implementation the window renders into.
func (w *Window) Recorder() *gl.Recorder { return w.gl }

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// FocusRequests returns how many times Focus was called.
func (w *Window) FocusRequests() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focusReqs
}

// SizeRequests returns how many times SetSize was called.
func (w *Window) SizeRequests() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sizeReqs
}

func (w *Window) Swaps() int64       { return w.swaps.Load() }
func (w *Window) Interval() int      { return int(w.interval.Load()) }
func (w *Window) ContextBound() bool { return w.current.Load() }

// Resize simulates the user dragging the window border. The framebuffer is
// scaled by pixelRatio, as on high density displays.
func (w *Window) Resize(width, height int, pixelRatio float64) {
	fbw, fbh := int(float64(width)*pixelRatio), int(float64(height)*pixelRatio)
	w.inject(func(cb window.Callbacks) {
		w.mu.Lock()
		w.width, w.height = width, height
		w.fbWidth, w.fbHeight = fbw, fbh
		w.mu.Unlock()
		if cb.FramebufferSize != nil {
			cb.FramebufferSize(fbw, fbh)
		}
		if cb.Size != nil {
			cb.Size(width, height)
		}
	})
}

func (w *Window) SetFocused(focused bool) {
	w.inject(func(cb window.Callbacks) {
		if cb.Focus != nil {
			cb.Focus(focused)
		}
	})
}

func (w *Window) SetIconified(iconified bool) {
	w.inject(func(cb window.Callbacks) {
		if cb.Iconify != nil {
			cb.Iconify(iconified)
		}
	})
}

func (w *Window) SetMaximized(maximized bool) {
	w.inject(func(cb window.Callbacks) {
		if cb.Maximize != nil {
			cb.Maximize(maximized)
		}
	})
}

func (w *Window) MoveCursor(x, y float64) {
	w.inject(func(cb window.Callbacks) {
		if cb.CursorPos != nil {
			cb.CursorPos(x, y)
		}
	})
}

func (w *Window) Key(key window.Key, action window.Action) {
	w.inject(func(cb window.Callbacks) {
		if cb.Key != nil {
			cb.Key(key, action)
		}
	})
}

// RequestClose simulates the user pressing the close button.
func (w *Window) RequestClose() {
	w.inject(func(window.Callbacks) {
		w.shouldClose.Store(true)
	})
}

func (w *Window) inject(ev func(window.Callbacks)) {
	w.mu.Lock()
	w.pending = append(w.pending, ev)
	w.mu.Unlock()
}

func (w *Window) deliver() {
	w.mu.Lock()
	events := w.pending
	w.pending = nil
	cb := w.cb
	w.mu.Unlock()

	for _, ev := range events {
		ev(cb)
	}
}

func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
}

func (w *Window) Hide() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
}

func (w *Window) Focus() {
	w.mu.Lock()
	w.focusReqs++
	w.mu.Unlock()
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

// SetSize resizes the window the way a native library would: the new size is
// reported back through the size callbacks on the next poll.
func (w *Window) SetSize(width, height int) {
	w.mu.Lock()
	w.sizeReqs++
	ratio := 1.0
	if w.width > 0 {
		ratio = float64(w.fbWidth) / float64(w.width)
	}
	w.mu.Unlock()
	w.Resize(width, height, ratio)
}

func (w *Window) SetCallbacks(cb window.Callbacks) {
	w.mu.Lock()
	w.cb = cb
	w.mu.Unlock()
}

func (w *Window) ShouldClose() bool         { return w.shouldClose.Load() }
func (w *Window) SetShouldClose(close bool) { w.shouldClose.Store(close) }

func (w *Window) Destroy() {
	w.mu.Lock()
	w.destroyed = true
	w.cb = window.Callbacks{}
	w.pending = nil
	w.mu.Unlock()

	w.backend.mu.Lock()
	delete(w.backend.live, w)
	w.backend.mu.Unlock()
}

func (w *Window) MakeContextCurrent() { w.current.Store(true) }
func (w *Window) DetachContext()      { w.current.Store(false) }

func (w *Window) SwapInterval(interval int) {
	w.interval.Store(int32(interval))
}

func (w *Window) SwapBuffers() {
	w.swaps.Add(1)
	if n := w.interval.Load(); n > 0 && w.backend.FrameTime > 0 {
		time.Sleep(time.Duration(n) * w.backend.FrameTime)
	}
}

func (w *Window) GL() (gl.OpenGL, error) {
	return w.gl, nil
}

func (w *Window) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fbWidth, w.fbHeight
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}
