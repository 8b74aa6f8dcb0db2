// Package app runs windows on their own goroutines around a single
// dispatcher goroutine that owns the native windowing library.
//
// The dispatcher executes window lifecycle commands and polls native events.
// Each window renders on a goroutine locked to its own OS thread, drives a
// fixed timestep update loop and executes the commands that need its
// graphics context.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tinyrange/winframe/internal/command"
	"github.com/tinyrange/winframe/internal/text"
	"github.com/tinyrange/winframe/internal/window"
)

// Point is a cursor position in window coordinates.
type Point struct {
	X, Y float64
}

type Options struct {
	Backend window.Backend
	Logger  *slog.Logger
	// Fonts enables text rendering. Windows without a font library draw no
	// text.
	Fonts *text.Library
	Clock Clock
	// PumpInterval is how long the dispatcher sleeps between iterations.
	PumpInterval time.Duration
}

// App is the process wide state shared by the dispatcher and every window.
type App struct {
	backend      window.Backend
	log          *slog.Logger
	fonts        *text.Library
	clock        Clock
	pumpInterval time.Duration

	queue   *command.Queue
	windows registry
	// exitRequests counts the exitIfDrained commands in the queue.
	exitRequests atomic.Int32
	runtimes     errgroup.Group
	nextID       atomic.Uint64

	cursor       atomic.Pointer[Point]
	safeToRender atomic.Bool
	exit         atomic.Bool
	running      atomic.Bool

	// failures is only touched by the dispatcher.
	failures []error
}

// New initialises the native backend. It must be called from the main
// goroutine, the same one that later calls Run.
func New(opts Options) (*App, error) {
	if opts.Backend == nil {
		return nil, errors.New("app: no window backend")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}

	runtime.LockOSThread()
	if err := opts.Backend.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("initialise window backend: %w", err)
	}

	a := &App{
		backend:      opts.Backend,
		log:          opts.Logger,
		fonts:        opts.Fonts,
		clock:        opts.Clock,
		pumpInterval: opts.PumpInterval,
		queue:        command.NewQueue(),
	}
	a.cursor.Store(&Point{})
	a.safeToRender.Store(true)
	return a, nil
}

// Run is the dispatcher loop. It returns once every window is closed and no
// commands are pending, after all window goroutines have stopped. The
// returned error joins every fatal command failure and window error.
func (a *App) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return errors.New("app: already running")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if a.windows.len() == 0 {
		a.requestExit(false)
	}

	a.log.Info("dispatcher started")
	for !a.exit.Load() {
		a.pump()
		if a.pumpInterval > 0 {
			time.Sleep(a.pumpInterval)
		}
	}

	err := a.runtimes.Wait()
	a.backend.Terminate()
	a.log.Info("dispatcher stopped")

	if err != nil {
		a.failures = append(a.failures, err)
	}
	return errors.Join(a.failures...)
}

// pump runs one dispatcher iteration: a queue pass followed by a native event
// poll.
func (a *App) pump() {
	for _, f := range a.queue.Drain() {
		a.log.Error("command failed", "command", f.Command, "error", f.Err)
		a.failures = append(a.failures, f)
	}

	a.safeToRender.Store(false)
	a.backend.PollEvents()
	a.safeToRender.Store(true)
}

// post enqueues a command for the dispatcher. Safe from any goroutine.
func (a *App) post(cmd command.Command) {
	a.queue.Push(cmd)
}

// Exit closes every window and stops the dispatcher once the queue is
// drained. Safe from any goroutine.
func (a *App) Exit() {
	for _, w := range a.windows.snapshot() {
		w.requestDestroy()
	}
	a.requestExit(true)
}

// requestExit stops the dispatcher once nothing but exit requests is queued.
// Unless forced, the request lapses if windows are open by then.
func (a *App) requestExit(force bool) {
	a.post(&exitIfDrained{app: a, force: force})
	a.exitRequests.Add(1)
}

// Exiting reports whether the dispatcher has been told to stop.
func (a *App) Exiting() bool { return a.exit.Load() }

// Windows returns the windows that have not finished closing.
func (a *App) Windows() []*Window { return a.windows.snapshot() }

// Cursor returns the last cursor position reported by any window.
func (a *App) Cursor() (float64, float64) {
	p := a.cursor.Load()
	return p.X, p.Y
}

func (a *App) setCursor(x, y float64) {
	a.cursor.Store(&Point{X: x, Y: y})
}

// SafeToRender is false while the dispatcher is polling native events.
func (a *App) SafeToRender() bool { return a.safeToRender.Load() }
