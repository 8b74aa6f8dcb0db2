// Package window is the boundary to the native windowing library.
//
// Backend methods and the lifecycle methods of Handle (Show, Hide, Focus,
// SetTitle, SetSize, SetCallbacks, Destroy) must only be called from the
// dispatcher goroutine. The context methods (MakeContextCurrent,
// DetachContext, SwapInterval, SwapBuffers, GL) belong to the goroutine that
// renders into the window.
package window

import (
	"errors"

	"github.com/tinyrange/winframe/internal/gl"
)

// ErrCreateWindow is returned when the native library cannot allocate a window.
var ErrCreateWindow = errors.New("unable to create native window")

type Backend interface {
	// Init initialises the native library. It is called once, on the
	// dispatcher goroutine, before any other method.
	Init() error
	Terminate()

	// CreateWindow allocates a hidden window with its own graphics context.
	CreateWindow(title string, width, height int) (Handle, error)

	// PollEvents processes pending native events and invokes the callbacks
	// registered on each handle synchronously.
	PollEvents()
}

type Handle interface {
	Show()
	Hide()
	Focus()
	SetTitle(title string)
	SetSize(width, height int)
	SetCallbacks(cb Callbacks)

	// ShouldClose and SetShouldClose may be called from any goroutine.
	ShouldClose() bool
	SetShouldClose(close bool)

	// Destroy releases the native window. The handle must not be used after.
	Destroy()

	MakeContextCurrent()
	DetachContext()
	SwapInterval(interval int)
	SwapBuffers()
	GL() (gl.OpenGL, error)

	// FramebufferSize is the client area in pixels; Size is the window size
	// in screen coordinates.
	FramebufferSize() (width, height int)
	Size() (width, height int)
}

// Callbacks receive native events on the dispatcher goroutine. Nil fields are
// ignored.
type Callbacks struct {
	FramebufferSize func(width, height int)
	Size            func(width, height int)
	Focus           func(focused bool)
	Iconify         func(iconified bool)
	Maximize        func(maximized bool)
	CursorPos       func(x, y float64)
	Key             func(key Key, action Action)
}
