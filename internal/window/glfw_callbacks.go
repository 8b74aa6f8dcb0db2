package window

import (
	"sync"

	"github.com/ebitengine/purego"
)

const glfwRelease = 0

// glfwCallbackSet holds the C function pointers installed on a window. The
// zero value removes every callback.
type glfwCallbackSet struct {
	framebufferSize uintptr
	size            uintptr
	focus           uintptr
	iconify         uintptr
	maximize        uintptr
	key             uintptr
}

var (
	glfwCallbacksOnce sync.Once
	glfwCallbacks     glfwCallbackSet

	glfwHandlesMu sync.Mutex
	glfwHandles   = make(map[uintptr]*glfwWindow)
)

// newGLFWCallbacks returns the process wide callbacks. purego never frees a
// callback, so they are created once and shared by every window.
func newGLFWCallbacks() glfwCallbackSet {
	glfwCallbacksOnce.Do(func() {
		glfwCallbacks = glfwCallbackSet{
			framebufferSize: purego.NewCallback(func(win uintptr, width, height int32) uintptr {
				onGLFWFramebufferSize(win, width, height)
				return 0
			}),
			size: purego.NewCallback(func(win uintptr, width, height int32) uintptr {
				onGLFWSize(win, width, height)
				return 0
			}),
			focus: purego.NewCallback(func(win uintptr, focused int32) uintptr {
				onGLFWFocus(win, focused)
				return 0
			}),
			iconify: purego.NewCallback(func(win uintptr, iconified int32) uintptr {
				onGLFWIconify(win, iconified)
				return 0
			}),
			maximize: purego.NewCallback(func(win uintptr, maximized int32) uintptr {
				onGLFWMaximize(win, maximized)
				return 0
			}),
			key: purego.NewCallback(func(win uintptr, key, scancode, action, mods int32) uintptr {
				onGLFWKey(win, key, action)
				return 0
			}),
		}
	})
	return glfwCallbacks
}

func installGLFWCallbacks(ptr uintptr, set glfwCallbackSet) {
	glfwSetFramebufferSizeCallback(ptr, set.framebufferSize)
	glfwSetWindowSizeCallback(ptr, set.size)
	glfwSetWindowFocusCallback(ptr, set.focus)
	glfwSetWindowIconifyCallback(ptr, set.iconify)
	glfwSetWindowMaximizeCallback(ptr, set.maximize)
	glfwSetKeyCallback(ptr, set.key)
}

func registerGLFWWindow(w *glfwWindow) {
	glfwHandlesMu.Lock()
	glfwHandles[w.ptr] = w
	glfwHandlesMu.Unlock()
}

func unregisterGLFWWindow(ptr uintptr) {
	glfwHandlesMu.Lock()
	delete(glfwHandles, ptr)
	glfwHandlesMu.Unlock()
}

// lookupGLFWWindow returns the callbacks of the window behind ptr.
func lookupGLFWWindow(ptr uintptr) (Callbacks, bool) {
	glfwHandlesMu.Lock()
	defer glfwHandlesMu.Unlock()
	w, ok := glfwHandles[ptr]
	if !ok {
		return Callbacks{}, false
	}
	return w.cb, true
}

func onGLFWFramebufferSize(win uintptr, width, height int32) {
	if cb, ok := lookupGLFWWindow(win); ok && cb.FramebufferSize != nil {
		cb.FramebufferSize(int(width), int(height))
	}
}

func onGLFWSize(win uintptr, width, height int32) {
	if cb, ok := lookupGLFWWindow(win); ok && cb.Size != nil {
		cb.Size(int(width), int(height))
	}
}

func onGLFWFocus(win uintptr, focused int32) {
	if cb, ok := lookupGLFWWindow(win); ok && cb.Focus != nil {
		cb.Focus(focused == glfwTrue)
	}
}

func onGLFWIconify(win uintptr, iconified int32) {
	if cb, ok := lookupGLFWWindow(win); ok && cb.Iconify != nil {
		cb.Iconify(iconified == glfwTrue)
	}
}

func onGLFWMaximize(win uintptr, maximized int32) {
	if cb, ok := lookupGLFWWindow(win); ok && cb.Maximize != nil {
		cb.Maximize(maximized == glfwTrue)
	}
}

// onGLFWKey reports presses and releases; key repeats count as presses.
func onGLFWKey(win uintptr, key, action int32) {
	cb, ok := lookupGLFWWindow(win)
	if !ok || cb.Key == nil {
		return
	}
	a := Press
	if action == glfwRelease {
		a = Release
	}
	cb.Key(glfwKeys[key], a)
}
