package command

import "sync"

// Queue is an insertion ordered list of commands owned by a single goroutine.
//
// Any goroutine may Push. Only the owner may call Drain and Len. Commands
// pushed while a drain pass is running land in a staging list and are merged
// at the end of the pass, so they run no earlier than the next pass.
type Queue struct {
	active []Command

	// live is the number of commands of the current pass that have not been
	// removed yet. Outside of a pass it equals len(active).
	live int

	mu     sync.Mutex
	staged []Command
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push stages cmd for the next drain pass. Safe for concurrent use.
func (q *Queue) Push(cmd Command) {
	if cmd == nil {
		return
	}
	q.mu.Lock()
	q.staged = append(q.staged, cmd)
	q.mu.Unlock()
}

// Len returns the number of pending commands, including the one currently
// being performed and any staged ones. Owner only.
func (q *Queue) Len() int {
	q.mu.Lock()
	n := len(q.staged)
	q.mu.Unlock()
	return q.live + n
}

// Drain runs one pass over the queue. Each command present at the start of
// the pass is performed once, in order; Done and Fatal commands are removed
// and the rest keep their relative order. Staged commands are then appended.
// Fatal results are returned in the order they happened.
func (q *Queue) Drain() []Failure {
	var failures []Failure

	if len(q.active) > 0 {
		q.live = len(q.active)
		kept := q.active[:0]
		for i, cmd := range q.active {
			status, err := cmd.Perform()
			switch status {
			case Retry:
				kept = append(kept, cmd)
				continue
			case Fatal:
				failures = append(failures, Failure{Command: cmd, Err: err})
			}
			q.active[i] = nil
			q.live--
		}
		// clear the tail so removed commands can be collected
		for i := len(kept); i < len(q.active); i++ {
			q.active[i] = nil
		}
		q.active = kept
	}

	q.mu.Lock()
	q.active = append(q.active, q.staged...)
	clear(q.staged)
	q.staged = q.staged[:0]
	q.mu.Unlock()

	q.live = len(q.active)
	return failures
}
