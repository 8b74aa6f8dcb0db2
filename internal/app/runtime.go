package app

import (
	"fmt"
	"runtime"

	"github.com/tinyrange/winframe/internal/gl"
	"github.com/tinyrange/winframe/internal/graphics"
	"github.com/tinyrange/winframe/internal/text"
	"github.com/tinyrange/winframe/internal/window"
)

// run is the render goroutine of a window. It owns the graphics context until
// the window is asked to close.
func (w *Window) run() (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := w.app.log.With("id", w.id)
	h := w.native()
	h.MakeContextCurrent()
	w.contextReady.Store(true)
	defer func() {
		w.contextReady.Store(false)
		h.DetachContext()
		w.runtimeDone.Store(true)
		w.requestDestroy()
		if err != nil {
			log.Error("window runtime failed", "error", err)
		} else {
			log.Info("window runtime stopped")
		}
	}()

	l, err := w.newFrameLoop(h)
	if err != nil {
		return fmt.Errorf("%v: %w", w, err)
	}
	defer l.release()

	log.Info("window runtime started")
	for !h.ShouldClose() {
		l.iterate()
	}
	return nil
}

// frameLoop is the state of one window's update and render loop.
type frameLoop struct {
	w      *Window
	h      window.Handle
	ctx    gl.OpenGL
	canvas *graphics.Canvas
	clock  Clock
	step   *timestep
	stats  *frameStats
}

// newFrameLoop expects the window's context to be current.
func (w *Window) newFrameLoop(h window.Handle) (*frameLoop, error) {
	ctx, err := h.GL()
	if err != nil {
		return nil, fmt.Errorf("load GL: %w", err)
	}
	h.SwapInterval(w.SwapInterval())

	canvas := graphics.NewCanvas(ctx, w.app)
	if w.app.fonts != nil {
		canvas.SetText(text.NewRenderer(w.app.fonts, w.font))
	}

	now := w.app.clock.Now()
	return &frameLoop{
		w:      w,
		h:      h,
		ctx:    ctx,
		canvas: canvas,
		clock:  w.app.clock,
		step:   newTimestep(now),
		stats:  newFrameStats(now),
	}, nil
}

func (l *frameLoop) release() {
	l.w.views.Release(l.canvas)
	l.canvas.Release()
}

// iterate runs one pass: window commands, due updates, one frame, and the
// statistics when a second has passed.
func (l *frameLoop) iterate() {
	for _, f := range l.w.queue.Drain() {
		l.w.app.log.Error("window command failed", "id", l.w.id, "command", f.Command, "error", f.Err)
	}

	now := l.clock.Now()
	for n := l.step.advance(now); n > 0; n-- {
		l.update()
		l.stats.updates++
	}

	l.render()
	l.stats.frames++

	if fps, ups, ok := l.stats.tick(now); ok {
		l.w.fps.Store(int32(fps))
		l.w.ups.Store(int32(ups))
	}
}

func (l *frameLoop) update() {
	w := l.w
	if w.StatsInTitle() {
		if title := fmt.Sprintf("FPS (%d) | UPS (%d)", w.FPS(), w.UPS()); title != w.Title() {
			w.SetTitle(title)
		}
	}
	if fn := w.onUpdate.Load(); fn != nil && *fn != nil {
		(*fn)(w)
	}
}

func (l *frameLoop) render() {
	w := l.w
	width, height := w.Size()

	// The viewport waits while the dispatcher is polling, since a size
	// callback may be halfway through.
	if w.app.SafeToRender() && w.resized.Swap(false) {
		l.ctx.Viewport(0, 0, int32(width), int32(height))
	}

	c := w.ClearColor().Float32()
	l.ctx.ClearColor(c[0], c[1], c[2], c[3])
	l.ctx.Clear(gl.ColorBufferBit | gl.DepthBufferBit | gl.StencilBufferBit)

	l.canvas.BeginFrame(width, height, w.PixelRatio())
	w.views.Render(l.canvas)
	l.canvas.EndFrame()

	l.h.SwapBuffers()
}
