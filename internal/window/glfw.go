package window

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/tinyrange/winframe/internal/gl"
)

const (
	glfwTrue  = 1
	glfwFalse = 0

	glfwVisible = 0x00020004

	glfwStencilBits = 0x00021006
	glfwDepthBits   = 0x00021005

	glfwKeyC      = 67
	glfwKeyN      = 78
	glfwKeyX      = 88
	glfwKeyEscape = 256
)

var glfwKeys = map[int32]Key{
	glfwKeyC:      KeyC,
	glfwKeyN:      KeyN,
	glfwKeyX:      KeyX,
	glfwKeyEscape: KeyEscape,
}

var (
	glfwOnce sync.Once
	glfwErr  error
	glfwlib  uintptr

	glfwInit               func() int32
	glfwTerminate          func()
	glfwGetError           func(**byte) int32
	glfwDefaultWindowHints func()
	glfwWindowHint         func(int32, int32)
	glfwCreateWindow       func(int32, int32, *byte, uintptr, uintptr) uintptr
	glfwDestroyWindow      func(uintptr)
	glfwShowWindow         func(uintptr)
	glfwHideWindow         func(uintptr)
	glfwFocusWindow        func(uintptr)
	glfwSetWindowTitle     func(uintptr, *byte)
	glfwSetWindowSize      func(uintptr, int32, int32)
	glfwWindowShouldClose  func(uintptr) int32
	glfwSetWindowShould    func(uintptr, int32)
	glfwPollEvents         func()
	glfwMakeContextCurrent func(uintptr)
	glfwSwapBuffers        func(uintptr)
	glfwSwapInterval       func(int32)
	glfwGetFramebufferSize func(uintptr, *int32, *int32)
	glfwGetWindowSize      func(uintptr, *int32, *int32)
	glfwGetCursorPos       func(uintptr, *float64, *float64)
	glfwGetProcAddress     func(*byte) uintptr

	glfwSetFramebufferSizeCallback func(uintptr, uintptr) uintptr
	glfwSetWindowSizeCallback      func(uintptr, uintptr) uintptr
	glfwSetWindowFocusCallback     func(uintptr, uintptr) uintptr
	glfwSetWindowIconifyCallback   func(uintptr, uintptr) uintptr
	glfwSetWindowMaximizeCallback  func(uintptr, uintptr) uintptr
	glfwSetKeyCallback             func(uintptr, uintptr) uintptr
)

func ensureGLFW() error {
	glfwOnce.Do(func() {
		glfwlib, glfwErr = openLibrary()
		if glfwErr != nil {
			return
		}
		register := func(dst interface{}, name string) {
			purego.RegisterLibFunc(dst, glfwlib, name)
		}
		register(&glfwInit, "glfwInit")
		register(&glfwTerminate, "glfwTerminate")
		register(&glfwGetError, "glfwGetError")
		register(&glfwDefaultWindowHints, "glfwDefaultWindowHints")
		register(&glfwWindowHint, "glfwWindowHint")
		register(&glfwCreateWindow, "glfwCreateWindow")
		register(&glfwDestroyWindow, "glfwDestroyWindow")
		register(&glfwShowWindow, "glfwShowWindow")
		register(&glfwHideWindow, "glfwHideWindow")
		register(&glfwFocusWindow, "glfwFocusWindow")
		register(&glfwSetWindowTitle, "glfwSetWindowTitle")
		register(&glfwSetWindowSize, "glfwSetWindowSize")
		register(&glfwWindowShouldClose, "glfwWindowShouldClose")
		register(&glfwSetWindowShould, "glfwSetWindowShouldClose")
		register(&glfwPollEvents, "glfwPollEvents")
		register(&glfwMakeContextCurrent, "glfwMakeContextCurrent")
		register(&glfwSwapBuffers, "glfwSwapBuffers")
		register(&glfwSwapInterval, "glfwSwapInterval")
		register(&glfwGetFramebufferSize, "glfwGetFramebufferSize")
		register(&glfwGetWindowSize, "glfwGetWindowSize")
		register(&glfwGetCursorPos, "glfwGetCursorPos")
		register(&glfwGetProcAddress, "glfwGetProcAddress")
		register(&glfwSetFramebufferSizeCallback, "glfwSetFramebufferSizeCallback")
		register(&glfwSetWindowSizeCallback, "glfwSetWindowSizeCallback")
		register(&glfwSetWindowFocusCallback, "glfwSetWindowFocusCallback")
		register(&glfwSetWindowIconifyCallback, "glfwSetWindowIconifyCallback")
		register(&glfwSetWindowMaximizeCallback, "glfwSetWindowMaximizeCallback")
		register(&glfwSetKeyCallback, "glfwSetKeyCallback")
	})
	return glfwErr
}

// GLFW is the default backend. It loads the GLFW 3 shared library at run
// time, so no cgo toolchain is needed to build.
//
// Native callbacks are created once per process and route events to the
// window they name. The cursor position is read after each poll instead,
// since purego cannot build callbacks with float arguments on every
// platform and only the latest position matters.
type GLFW struct {
	windows map[*glfwWindow]struct{}
}

func NewGLFW() *GLFW {
	return &GLFW{windows: make(map[*glfwWindow]struct{})}
}

func (b *GLFW) Init() error {
	if err := ensureGLFW(); err != nil {
		return fmt.Errorf("load glfw: %w", err)
	}
	if glfwInit() != glfwTrue {
		return fmt.Errorf("glfwInit: %w", lastError())
	}
	return nil
}

func (b *GLFW) Terminate() {
	for w := range b.windows {
		w.Destroy()
	}
	glfwTerminate()
}

func (b *GLFW) CreateWindow(title string, width, height int) (Handle, error) {
	glfwDefaultWindowHints()
	glfwWindowHint(glfwVisible, glfwFalse)
	glfwWindowHint(glfwDepthBits, 24)
	glfwWindowHint(glfwStencilBits, 8)

	ptr := glfwCreateWindow(int32(width), int32(height), cString(title), 0, 0)
	if ptr == 0 {
		return nil, fmt.Errorf("%w: %v", ErrCreateWindow, lastError())
	}

	w := &glfwWindow{backend: b, ptr: ptr}
	glfwGetCursorPos(ptr, &w.cursorX, &w.cursorY)
	b.windows[w] = struct{}{}
	registerGLFWWindow(w)
	installGLFWCallbacks(ptr, newGLFWCallbacks())
	return w, nil
}

func (b *GLFW) PollEvents() {
	glfwPollEvents()
	for w := range b.windows {
		w.pollCursor()
	}
}

type glfwWindow struct {
	backend *GLFW
	ptr     uintptr
	cb      Callbacks

	cursorX, cursorY float64
}

func (w *glfwWindow) Show()  { glfwShowWindow(w.ptr) }
func (w *glfwWindow) Hide()  { glfwHideWindow(w.ptr) }
func (w *glfwWindow) Focus() { glfwFocusWindow(w.ptr) }

func (w *glfwWindow) SetTitle(title string) {
	glfwSetWindowTitle(w.ptr, cString(title))
}

func (w *glfwWindow) SetSize(width, height int) {
	glfwSetWindowSize(w.ptr, int32(width), int32(height))
}

func (w *glfwWindow) SetCallbacks(cb Callbacks) {
	glfwHandlesMu.Lock()
	w.cb = cb
	glfwHandlesMu.Unlock()
}

func (w *glfwWindow) ShouldClose() bool {
	return glfwWindowShouldClose(w.ptr) == glfwTrue
}

func (w *glfwWindow) SetShouldClose(close bool) {
	v := int32(glfwFalse)
	if close {
		v = glfwTrue
	}
	glfwSetWindowShould(w.ptr, v)
}

func (w *glfwWindow) Destroy() {
	if w.ptr == 0 {
		return
	}
	delete(w.backend.windows, w)
	installGLFWCallbacks(w.ptr, glfwCallbackSet{})
	unregisterGLFWWindow(w.ptr)
	w.SetCallbacks(Callbacks{})
	glfwDestroyWindow(w.ptr)
	w.ptr = 0
}

func (w *glfwWindow) MakeContextCurrent() { glfwMakeContextCurrent(w.ptr) }
func (w *glfwWindow) DetachContext()      { glfwMakeContextCurrent(0) }
func (w *glfwWindow) SwapBuffers()        { glfwSwapBuffers(w.ptr) }

// SwapInterval applies to the context current on the calling thread.
func (w *glfwWindow) SwapInterval(interval int) {
	glfwSwapInterval(int32(interval))
}

func (w *glfwWindow) GL() (gl.OpenGL, error) {
	return gl.Load(func(name string) uintptr {
		return glfwGetProcAddress(cString(name))
	})
}

func (w *glfwWindow) FramebufferSize() (int, int) {
	var width, height int32
	glfwGetFramebufferSize(w.ptr, &width, &height)
	return int(width), int(height)
}

func (w *glfwWindow) Size() (int, int) {
	var width, height int32
	glfwGetWindowSize(w.ptr, &width, &height)
	return int(width), int(height)
}

func (w *glfwWindow) pollCursor() {
	var x, y float64
	glfwGetCursorPos(w.ptr, &x, &y)
	if x == w.cursorX && y == w.cursorY {
		return
	}
	w.cursorX, w.cursorY = x, y
	if w.cb.CursorPos != nil {
		w.cb.CursorPos(x, y)
	}
}

func lastError() error {
	var desc *byte
	code := glfwGetError(&desc)
	if code == 0 {
		return errors.New("unknown glfw error")
	}
	return fmt.Errorf("glfw error 0x%x: %s", code, gostring(desc))
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
