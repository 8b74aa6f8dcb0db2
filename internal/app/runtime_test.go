package app

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinyrange/winframe/internal/gl"
	"github.com/tinyrange/winframe/internal/graphics"
	"github.com/tinyrange/winframe/internal/text"
	"github.com/tinyrange/winframe/internal/views"
	"github.com/tinyrange/winframe/internal/window/headless"
)

// frameStep is one update period rounded up to the nanosecond.
const frameStep = 16666667 * time.Nanosecond

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type countingView struct {
	name    string
	renders *[]string
}

func (v countingView) Name() string { return v.name }

func (v countingView) Render(*graphics.Canvas) { *v.renders = append(*v.renders, v.name) }

// newTestLoop builds a frame loop driven by the test goroutine with a manual
// clock.
func newTestLoop(t *testing.T, fonts ...*text.Library) (*frameLoop, *manualClock, *headless.Window) {
	t.Helper()
	clock := &manualClock{now: time.Unix(1000, 0)}
	b := headless.New()
	b.FrameTime = 0
	opts := Options{Backend: b, Logger: discardLogger(), Clock: clock}
	if len(fonts) > 0 {
		opts.Fonts = fonts[0]
	}
	a, err := New(opts)
	require.NoError(t, err)

	w, err := a.NewWindow(Config{Title: "loop", Width: 200, Height: 100})
	require.NoError(t, err)
	h, err := b.CreateWindow(w.Title(), 200, 100)
	require.NoError(t, err)
	w.handle.Store(&nativeHandle{h})
	h.MakeContextCurrent()
	w.contextReady.Store(true)

	l, err := w.newFrameLoop(h)
	require.NoError(t, err)
	return l, clock, b.Windows()[0]
}

func TestFrameLoop_SteadyClockUpdatesOncePerIteration(t *testing.T) {
	l, clock, _ := newTestLoop(t)
	updates := 0
	l.w.OnUpdate(func(*Window) { updates++ })

	for i := 1; i <= 30; i++ {
		clock.Advance(frameStep)
		l.iterate()
		require.Equal(t, i, updates)
	}
}

func TestFrameLoop_LongFrameUpdatesTwice(t *testing.T) {
	l, clock, hw := newTestLoop(t)
	updates := 0
	l.w.OnUpdate(func(*Window) { updates++ })

	clock.Advance(5 * time.Second / 120)
	l.iterate()

	require.Equal(t, 2, updates)
	require.InDelta(t, 0.5, l.step.acc, 1e-6)
	require.EqualValues(t, 1, hw.Swaps(), "every iteration renders once")
}

func TestFrameLoop_ShortFramesStillRender(t *testing.T) {
	l, clock, hw := newTestLoop(t)
	updates := 0
	l.w.OnUpdate(func(*Window) { updates++ })

	for i := 0; i < 5; i++ {
		clock.Advance(frameStep / 4)
		l.iterate()
	}
	require.Equal(t, 1, updates)
	require.EqualValues(t, 5, hw.Swaps())
}

func TestFrameLoop_StatsAfterOneSecond(t *testing.T) {
	l, clock, _ := newTestLoop(t)

	for i := 1; i < UpdateRate; i++ {
		clock.Advance(frameStep)
		l.iterate()
	}
	require.Zero(t, l.w.FPS())
	require.Zero(t, l.w.UPS())

	clock.Advance(frameStep)
	l.iterate()
	require.Equal(t, 60, l.w.FPS())
	require.Equal(t, 60, l.w.UPS())
	require.Zero(t, l.stats.frames)
	require.Zero(t, l.stats.updates)
}

func TestFrameLoop_RenderClearsAndFollowsResize(t *testing.T) {
	l, clock, hw := newTestLoop(t)
	rec := hw.Recorder()

	var renders []string
	l.w.Views().Add(countingView{name: "a", renders: &renders})
	l.w.Views().Add(countingView{name: "b", renders: &renders})

	clock.Advance(frameStep)
	l.iterate()
	vp, n := rec.LastViewport()
	require.Equal(t, [4]int32{0, 0, 200, 100}, vp)
	require.Equal(t, 1, n)

	clock.Advance(frameStep)
	l.iterate()
	_, n = rec.LastViewport()
	require.Equal(t, 1, n, "viewport is only set after a resize")

	l.w.resize(300, 150, ExternallyObserved)
	clock.Advance(frameStep)
	l.iterate()
	vp, n = rec.LastViewport()
	require.Equal(t, [4]int32{0, 0, 300, 150}, vp)
	require.Equal(t, 2, n)

	clears := rec.Clears()
	require.Len(t, clears, 3)
	for _, mask := range clears {
		require.Equal(t, uint32(gl.ColorBufferBit|gl.DepthBufferBit|gl.StencilBufferBit), mask)
	}
	require.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, renders)
	require.EqualValues(t, 3, hw.Swaps())
}

func TestFrameLoop_ViewportWaitsWhilePolling(t *testing.T) {
	l, clock, hw := newTestLoop(t)

	l.w.app.safeToRender.Store(false)
	clock.Advance(frameStep)
	l.iterate()
	_, n := hw.Recorder().LastViewport()
	require.Zero(t, n)

	l.w.app.safeToRender.Store(true)
	clock.Advance(frameStep)
	l.iterate()
	_, n = hw.Recorder().LastViewport()
	require.Equal(t, 1, n)
}

func TestFrameLoop_StatsInTitle(t *testing.T) {
	l, clock, _ := newTestLoop(t)
	w := l.w
	w.SetStatsInTitle(true)
	queued := w.app.queue.Len()

	clock.Advance(frameStep)
	l.iterate()
	require.Equal(t, "FPS (0) | UPS (0)", w.Title())
	require.Equal(t, queued+1, w.app.queue.Len())

	for i := 0; i < UpdateRate; i++ {
		clock.Advance(frameStep)
		l.iterate()
	}
	require.Equal(t, "FPS (60) | UPS (60)", w.Title())
	require.Equal(t, queued+2, w.app.queue.Len(), "the title is only sent when it changes")
}

func TestFrameLoop_RunsWindowCommands(t *testing.T) {
	l, clock, hw := newTestLoop(t)

	require.NoError(t, l.w.SetSwapInterval(3))
	require.Zero(t, hw.Interval())

	// Staged commands are merged at the end of a pass and run on the next.
	clock.Advance(frameStep)
	l.iterate()
	require.Zero(t, hw.Interval())
	require.Equal(t, 1, l.w.queue.Len())

	clock.Advance(frameStep)
	l.iterate()
	require.Equal(t, 3, hw.Interval())
	require.Zero(t, l.w.queue.Len())
}

func TestFrameLoop_ReleasesTextOnExit(t *testing.T) {
	fonts, err := text.Load("")
	require.NoError(t, err)
	l, clock, hw := newTestLoop(t, fonts)
	l.w.Views().Add(views.NewButton("ok", "OK", graphics.Rect{X: 10, Y: 10, Width: 80, Height: 40}))

	clock.Advance(frameStep)
	l.iterate()
	require.Positive(t, hw.Recorder().LiveTextures())

	l.release()
	require.Zero(t, hw.Recorder().LiveTextures())
}

type texturedView struct {
	tex      graphics.Texture
	released bool
}

func (v *texturedView) Name() string { return "textured" }

func (v *texturedView) Render(c *graphics.Canvas) {
	if v.tex == nil {
		v.tex, _ = c.Image(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	}
}

func (v *texturedView) Release(c *graphics.Canvas) {
	c.DeleteTexture(v.tex)
	v.released = true
}

func TestFrameLoop_ReleasesViewsOnExit(t *testing.T) {
	l, clock, hw := newTestLoop(t)
	v := &texturedView{}
	l.w.Views().Add(v)

	clock.Advance(frameStep)
	l.iterate()
	require.Equal(t, 1, hw.Recorder().LiveTextures())

	l.release()
	require.True(t, v.released)
	require.Zero(t, hw.Recorder().LiveTextures())
}
