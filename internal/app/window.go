package app

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tinyrange/winframe/internal/command"
	"github.com/tinyrange/winframe/internal/graphics"
	"github.com/tinyrange/winframe/internal/views"
	"github.com/tinyrange/winframe/internal/window"
)

var (
	ErrWindowDestroyed     = errors.New("window destroyed")
	ErrInvalidSize         = errors.New("window size must be positive")
	ErrInvalidSwapInterval = errors.New("swap interval must not be negative")
)

type State int32

const (
	Hidden State = iota
	Normal
	Maximized
	Minimized
	Destroyed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Normal:
		return "normal"
	case Maximized:
		return "maximized"
	case Minimized:
		return "minimized"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// SizeOrigin tells a resize which side initiated it. Only application
// initiated resizes are forwarded to the native window.
type SizeOrigin int

const (
	ApplicationInitiated SizeOrigin = iota
	ExternallyObserved
)

type Config struct {
	Title        string
	Width        int
	Height       int
	SwapInterval int
	ClearColor   graphics.Color
	// Font is the name of the font views draw text with.
	Font string
	// StatsInTitle replaces the title with the frame statistics.
	StatsInTitle bool
}

type (
	UpdateFunc func(w *Window)
	KeyFunc    func(w *Window, key window.Key, action window.Action)
)

type nativeHandle struct {
	window.Handle
}

// Window is a native window with its own render goroutine. Setters may be
// called from any goroutine; the native side follows asynchronously.
type Window struct {
	app   *App
	id    uint64
	font  string
	queue *command.Queue
	views *views.Set

	handle atomic.Pointer[nativeHandle]
	state  atomic.Int32

	title        atomic.Pointer[string]
	width        atomic.Int32
	height       atomic.Int32
	frameWidth   atomic.Int32
	frameHeight  atomic.Int32
	swapInterval atomic.Int32
	clearColor   atomic.Pointer[graphics.Color]
	statsInTitle atomic.Bool
	focused      atomic.Bool
	resized      atomic.Bool
	fps          atomic.Int32
	ups          atomic.Int32

	onUpdate atomic.Pointer[UpdateFunc]
	onKey    atomic.Pointer[KeyFunc]

	contextReady   atomic.Bool
	runtimeDone    atomic.Bool
	destroyPending atomic.Bool
}

// NewWindow registers a window and schedules its creation on the dispatcher.
func (a *App) NewWindow(cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}
	if cfg.SwapInterval < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSwapInterval, cfg.SwapInterval)
	}

	w := &Window{
		app:   a,
		id:    a.nextID.Add(1),
		font:  cfg.Font,
		queue: command.NewQueue(),
		views: views.NewSet(),
	}
	w.state.Store(int32(Hidden))
	w.title.Store(&cfg.Title)
	w.width.Store(int32(cfg.Width))
	w.height.Store(int32(cfg.Height))
	w.frameWidth.Store(int32(cfg.Width))
	w.frameHeight.Store(int32(cfg.Height))
	w.swapInterval.Store(int32(cfg.SwapInterval))
	cc := cfg.ClearColor
	w.clearColor.Store(&cc)
	w.statsInTitle.Store(cfg.StatsInTitle)
	w.resized.Store(true)

	a.windows.add(w)
	a.post(&createWindow{w: w})
	return w, nil
}

func (w *Window) String() string {
	return fmt.Sprintf("window %d %q", w.id, w.Title())
}

func (w *Window) ID() uint64 { return w.id }

func (w *Window) App() *App { return w.app }

func (w *Window) State() State { return State(w.state.Load()) }

func (w *Window) setState(s State) { w.state.Store(int32(s)) }

func (w *Window) native() window.Handle {
	if h := w.handle.Load(); h != nil {
		return h.Handle
	}
	return nil
}

// target returns the native handle a command should act on, or the status
// the command must report when there is none. Commands that arrive after the
// window was closed are dropped; a window that was never created fails them.
func (w *Window) target() (window.Handle, command.Status, error) {
	if w.State() == Destroyed {
		if w.destroyPending.Load() {
			return nil, command.Done, nil
		}
		return nil, command.Fatal, fmt.Errorf("%v: %w", w, ErrWindowDestroyed)
	}
	h := w.native()
	if h == nil {
		return nil, command.Retry, nil
	}
	return h, command.Done, nil
}

func (w *Window) Show()  { w.app.post(&showWindow{w: w}) }
func (w *Window) Hide()  { w.app.post(&hideWindow{w: w}) }
func (w *Window) Focus() { w.app.post(&focusWindow{w: w}) }

// Close destroys the window once its render goroutine has stopped.
func (w *Window) Close() { w.requestDestroy() }

// requestDestroy enqueues at most one DestroyWindow per window.
func (w *Window) requestDestroy() {
	if w.destroyPending.CompareAndSwap(false, true) {
		w.app.post(&destroyWindow{w: w})
	}
}

func (w *Window) Title() string { return *w.title.Load() }

func (w *Window) SetTitle(title string) {
	w.title.Store(&title)
	w.app.post(&setTitle{w: w})
}

// Size is the client area in framebuffer pixels.
func (w *Window) Size() (int, int) {
	return int(w.width.Load()), int(w.height.Load())
}

// FrameSize is the window size in screen coordinates.
func (w *Window) FrameSize() (int, int) {
	return int(w.frameWidth.Load()), int(w.frameHeight.Load())
}

func (w *Window) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	w.resize(width, height, ApplicationInitiated)
	return nil
}

func (w *Window) resize(width, height int, origin SizeOrigin) {
	w.width.Store(int32(width))
	w.height.Store(int32(height))
	w.resized.Store(true)
	if origin == ApplicationInitiated {
		w.app.post(&setSize{w: w, width: width, height: height})
	}
}

// PixelRatio is the framebuffer width divided by the window width.
func (w *Window) PixelRatio() float32 {
	fw := w.frameWidth.Load()
	if fw <= 0 {
		return 1
	}
	return float32(w.width.Load()) / float32(fw)
}

func (w *Window) SwapInterval() int { return int(w.swapInterval.Load()) }

// SetSwapInterval is applied by the render goroutine, which owns the context.
func (w *Window) SetSwapInterval(interval int) error {
	if interval < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSwapInterval, interval)
	}
	w.swapInterval.Store(int32(interval))
	w.queue.Push(&setSwapInterval{w: w, interval: interval})
	return nil
}

func (w *Window) Focused() bool { return w.focused.Load() }

// FPS and UPS are the frame and update counts of the last full second.
func (w *Window) FPS() int { return int(w.fps.Load()) }
func (w *Window) UPS() int { return int(w.ups.Load()) }

func (w *Window) Views() *views.Set { return w.views }

func (w *Window) ClearColor() graphics.Color { return *w.clearColor.Load() }

func (w *Window) SetClearColor(c graphics.Color) { w.clearColor.Store(&c) }

func (w *Window) StatsInTitle() bool { return w.statsInTitle.Load() }

func (w *Window) SetStatsInTitle(on bool) { w.statsInTitle.Store(on) }

// OnUpdate sets the function called on every fixed timestep update, on the
// render goroutine.
func (w *Window) OnUpdate(fn UpdateFunc) { w.onUpdate.Store(&fn) }

// OnKey sets the function called for key events, on the dispatcher goroutine.
func (w *Window) OnKey(fn KeyFunc) { w.onKey.Store(&fn) }

// callbacks runs on the dispatcher.
func (w *Window) callbacks() window.Callbacks {
	return window.Callbacks{
		FramebufferSize: func(width, height int) {
			w.resize(width, height, ExternallyObserved)
		},
		Size: func(width, height int) {
			w.frameWidth.Store(int32(width))
			w.frameHeight.Store(int32(height))
			w.resized.Store(true)
		},
		Focus: func(focused bool) {
			w.focused.Store(focused)
		},
		Iconify: func(iconified bool) {
			if iconified {
				w.setState(Minimized)
			} else {
				w.setState(Normal)
			}
		},
		Maximize: func(maximized bool) {
			if maximized {
				w.setState(Maximized)
			} else {
				w.setState(Normal)
			}
		},
		CursorPos: func(x, y float64) {
			w.app.setCursor(x, y)
		},
		Key: func(key window.Key, action window.Action) {
			if fn := w.onKey.Load(); fn != nil && *fn != nil {
				(*fn)(w, key, action)
			}
		},
	}
}
