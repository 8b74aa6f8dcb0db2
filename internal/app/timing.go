package app

import "time"

// UpdateRate is the number of fixed-timestep updates per second.
const UpdateRate = 60

// Clock is the time source of the window loops.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// timestep accumulates elapsed time in units of 1/UpdateRate seconds.
type timestep struct {
	last time.Time
	acc  float64
}

func newTimestep(now time.Time) *timestep {
	return &timestep{last: now}
}

// advance adds the time elapsed since the previous call and returns how many
// whole units are due.
func (t *timestep) advance(now time.Time) int {
	elapsed := now.Sub(t.last)
	t.last = now
	return t.add(elapsed.Seconds() * UpdateRate)
}

func (t *timestep) add(units float64) int {
	t.acc += units
	n := 0
	for t.acc >= 1 {
		t.acc--
		n++
	}
	return n
}

// frameStats counts frames and updates and publishes the totals once per
// second.
type frameStats struct {
	timer   time.Time
	frames  int
	updates int
}

func newFrameStats(now time.Time) *frameStats {
	return &frameStats{timer: now}
}

// tick reports the counts of the last second when a second has passed since
// the previous report, and starts counting again from zero.
func (s *frameStats) tick(now time.Time) (fps, ups int, ok bool) {
	if now.Sub(s.timer) < time.Second {
		return 0, 0, false
	}
	fps, ups = s.frames, s.updates
	s.timer = s.timer.Add(time.Second)
	s.frames, s.updates = 0, 0
	return fps, ups, true
}
