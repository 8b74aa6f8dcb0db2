package app

import (
	"fmt"

	"github.com/tinyrange/winframe/internal/command"
	"github.com/tinyrange/winframe/internal/window"
)

// createWindow allocates the native window and starts its render goroutine.
type createWindow struct {
	w *Window
}

func (c *createWindow) Perform() (command.Status, error) {
	w, a := c.w, c.w.app
	if w.State() == Destroyed {
		return command.Done, nil
	}

	width, height := w.Size()
	h, err := a.backend.CreateWindow(w.Title(), width, height)
	if err != nil {
		w.setState(Destroyed)
		a.unregister(w)
		return command.Fatal, fmt.Errorf("create %v: %w", w, err)
	}

	fw, fh := h.FramebufferSize()
	ww, wh := h.Size()
	w.width.Store(int32(fw))
	w.height.Store(int32(fh))
	w.frameWidth.Store(int32(ww))
	w.frameHeight.Store(int32(wh))

	// Callbacks go in before the render goroutine starts so no early event
	// is missed.
	h.SetCallbacks(w.callbacks())
	w.handle.Store(&nativeHandle{h})
	a.log.Info("window created", "id", w.id, "title", w.Title(), "width", fw, "height", fh)

	a.runtimes.Go(w.run)
	return command.Done, nil
}

func (c *createWindow) String() string { return fmt.Sprintf("CreateWindow(%v)", c.w) }

// destroyWindow stops the render goroutine, then releases the native window
// and removes it from the registry.
type destroyWindow struct {
	w *Window
}

func (c *destroyWindow) Perform() (command.Status, error) {
	w, a := c.w, c.w.app
	if w.State() == Destroyed {
		return command.Done, nil
	}
	h := w.native()
	if h == nil {
		return command.Retry, nil
	}
	if !w.runtimeDone.Load() {
		h.SetShouldClose(true)
		return command.Retry, nil
	}

	h.SetCallbacks(window.Callbacks{})
	h.Destroy()
	w.handle.Store(nil)
	w.setState(Destroyed)
	a.log.Info("window destroyed", "id", w.id, "title", w.Title())
	a.unregister(w)
	return command.Done, nil
}

func (c *destroyWindow) String() string { return fmt.Sprintf("DestroyWindow(%v)", c.w) }

// unregister removes w and, when it was the last window, schedules the
// dispatcher to stop.
func (a *App) unregister(w *Window) {
	if a.windows.remove(w) && a.windows.len() == 0 {
		a.requestExit(false)
	}
}

type showWindow struct {
	w *Window
}

func (c *showWindow) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	h.Show()
	c.w.setState(Normal)
	return command.Done, nil
}

func (c *showWindow) String() string { return fmt.Sprintf("Show(%v)", c.w) }

type hideWindow struct {
	w *Window
}

func (c *hideWindow) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	h.Hide()
	c.w.setState(Hidden)
	return command.Done, nil
}

func (c *hideWindow) String() string { return fmt.Sprintf("Hide(%v)", c.w) }

type focusWindow struct {
	w *Window
}

func (c *focusWindow) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	h.Focus()
	return command.Done, nil
}

func (c *focusWindow) String() string { return fmt.Sprintf("Focus(%v)", c.w) }

// setTitle applies the title current at execution time.
type setTitle struct {
	w *Window
}

func (c *setTitle) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	h.SetTitle(c.w.Title())
	return command.Done, nil
}

func (c *setTitle) String() string { return fmt.Sprintf("SetTitle(%v)", c.w) }

type setSize struct {
	w             *Window
	width, height int
}

func (c *setSize) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	h.SetSize(c.width, c.height)
	return command.Done, nil
}

func (c *setSize) String() string {
	return fmt.Sprintf("SetSize(%v, %dx%d)", c.w, c.width, c.height)
}

// setSwapInterval runs on the window's own queue.
type setSwapInterval struct {
	w        *Window
	interval int
}

func (c *setSwapInterval) Perform() (command.Status, error) {
	h, status, err := c.w.target()
	if h == nil {
		return status, err
	}
	if !c.w.contextReady.Load() {
		return command.Retry, nil
	}
	h.SwapInterval(c.interval)
	return command.Done, nil
}

func (c *setSwapInterval) String() string {
	return fmt.Sprintf("SetSwapInterval(%v, %d)", c.w, c.interval)
}

// exitIfDrained sets the exit flag once every other queued command has
// completed. Exit requests do not wait for each other.
type exitIfDrained struct {
	app   *App
	force bool
}

func (c *exitIfDrained) Perform() (command.Status, error) {
	a := c.app
	if c.force {
		// Windows registered after Exit was called are closed here too.
		if open := a.windows.snapshot(); len(open) > 0 {
			for _, w := range open {
				w.requestDestroy()
			}
			return command.Retry, nil
		}
	}
	if a.queue.Len() > int(a.exitRequests.Load()) {
		return command.Retry, nil
	}
	a.exitRequests.Add(-1)
	if c.force || a.windows.len() == 0 {
		a.exit.Store(true)
	}
	return command.Done, nil
}

func (c *exitIfDrained) String() string {
	if c.force {
		return "ExitIfDrained(forced)"
	}
	return "ExitIfDrained"
}
