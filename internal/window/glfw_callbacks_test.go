package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type keyEvent struct {
	key    Key
	action Action
}

func TestGLFWCallbacks_RouteEveryEvent(t *testing.T) {
	const ptr = uintptr(0x1000)
	var (
		keys      []keyEvent
		sizes     [][2]int
		focus     []bool
		iconified []bool
	)
	w := &glfwWindow{ptr: ptr}
	registerGLFWWindow(w)
	t.Cleanup(func() { unregisterGLFWWindow(ptr) })
	w.SetCallbacks(Callbacks{
		FramebufferSize: func(width, height int) { sizes = append(sizes, [2]int{width, height}) },
		Focus:           func(f bool) { focus = append(focus, f) },
		Iconify:         func(i bool) { iconified = append(iconified, i) },
		Key:             func(k Key, a Action) { keys = append(keys, keyEvent{k, a}) },
	})

	// A press and release within one poll both arrive.
	onGLFWKey(ptr, glfwKeyN, 1)
	onGLFWKey(ptr, glfwKeyN, glfwRelease)
	onGLFWKey(ptr, glfwKeyEscape, 2)
	onGLFWKey(ptr, 90, 1)
	require.Equal(t, []keyEvent{
		{KeyN, Press},
		{KeyN, Release},
		{KeyEscape, Press},
		{KeyUnknown, Press},
	}, keys)

	onGLFWIconify(ptr, glfwTrue)
	onGLFWIconify(ptr, glfwFalse)
	require.Equal(t, []bool{true, false}, iconified)

	onGLFWFocus(ptr, glfwTrue)
	onGLFWFramebufferSize(ptr, 640, 480)
	onGLFWSize(ptr, 320, 240)
	onGLFWMaximize(ptr, glfwTrue)
	require.Equal(t, []bool{true}, focus)
	require.Equal(t, [][2]int{{640, 480}}, sizes)
}

func TestGLFWCallbacks_IgnoreUnknownWindows(t *testing.T) {
	const ptr = uintptr(0x2000)
	called := false
	w := &glfwWindow{ptr: ptr}
	registerGLFWWindow(w)
	w.SetCallbacks(Callbacks{Key: func(Key, Action) { called = true }})
	unregisterGLFWWindow(ptr)

	onGLFWKey(ptr, glfwKeyX, 1)
	onGLFWKey(0x3000, glfwKeyX, 1)
	require.False(t, called)
}
