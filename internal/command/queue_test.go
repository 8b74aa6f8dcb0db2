package command

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// recorder is a command that logs each attempt and returns a scripted status.
type recorder struct {
	name    string
	log     *[]string
	results []Status
	err     error
	calls   int
}

func (r *recorder) Perform() (Status, error) {
	*r.log = append(*r.log, r.name)
	status := Done
	if r.calls < len(r.results) {
		status = r.results[r.calls]
	}
	r.calls++
	if status == Fatal {
		return status, r.err
	}
	return status, nil
}

func TestQueue_PushedCommandsWaitForNextPass(t *testing.T) {
	q := NewQueue()
	var log []string

	q.Push(&recorder{name: "a", log: &log})
	require.Empty(t, q.Drain())
	require.Empty(t, log, "staged commands must not run in the pass that merges them")
	require.Equal(t, 1, q.Len())

	q.Drain()
	require.Equal(t, []string{"a"}, log)
	require.Equal(t, 0, q.Len())
}

func TestQueue_CommandPushedDuringPassRunsNextPass(t *testing.T) {
	q := NewQueue()
	var log []string

	child := &recorder{name: "child", log: &log}
	parent := Func(func() (Status, error) {
		log = append(log, "parent")
		q.Push(child)
		return Done, nil
	})
	q.Push(parent)
	q.Drain()

	q.Drain()
	require.Equal(t, []string{"parent"}, log)
	require.Equal(t, 1, q.Len())

	q.Drain()
	require.Equal(t, []string{"parent", "child"}, log)
	require.Equal(t, 0, q.Len())
}

func TestQueue_SelfRequeueDoesNotLoop(t *testing.T) {
	q := NewQueue()
	count := 0
	var spawn Func
	spawn = func() (Status, error) {
		count++
		q.Push(spawn)
		return Done, nil
	}
	q.Push(spawn)
	q.Drain()

	for i := 1; i <= 5; i++ {
		q.Drain()
		require.Equal(t, i, count)
	}
}

func TestQueue_RetainsRetriesInOrder(t *testing.T) {
	q := NewQueue()
	var log []string

	cmds := []*recorder{
		{name: "0", log: &log, results: []Status{Retry, Done}},
		{name: "1", log: &log},
		{name: "2", log: &log, results: []Status{Retry, Retry, Done}},
		{name: "3", log: &log},
		{name: "4", log: &log, results: []Status{Retry, Done}},
	}
	for _, c := range cmds {
		q.Push(c)
	}
	q.Drain()

	q.Drain()
	require.Equal(t, []string{"0", "1", "2", "3", "4"}, log)
	require.Equal(t, 3, q.Len())

	log = nil
	q.Drain()
	require.Equal(t, []string{"0", "2", "4"}, log)
	require.Equal(t, 1, q.Len())

	log = nil
	q.Drain()
	require.Equal(t, []string{"2"}, log)
	require.Equal(t, 0, q.Len())
}

func TestQueue_NeverLosesOrDuplicates(t *testing.T) {
	const n = 50
	q := NewQueue()
	var log []string

	retried := map[string]bool{}
	for i := 0; i < n; i++ {
		r := &recorder{name: string(rune('A' + i)), log: &log}
		if i%3 == 0 {
			r.results = []Status{Retry}
			retried[r.name] = true
		}
		q.Push(r)
	}
	q.Drain()
	q.Drain()

	require.Len(t, log, n)
	require.Equal(t, len(retried), q.Len())

	log = nil
	q.Drain()
	require.Len(t, log, len(retried))
	for i := 1; i < len(log); i++ {
		require.Less(t, log[i-1], log[i], "retried commands keep their relative order")
	}
	for _, name := range log {
		require.True(t, retried[name])
	}
}

func TestQueue_FatalIsRemovedAndReported(t *testing.T) {
	q := NewQueue()
	var log []string
	boom := errors.New("boom")

	bad := &recorder{name: "bad", log: &log, results: []Status{Fatal}, err: boom}
	q.Push(&recorder{name: "ok", log: &log})
	q.Push(bad)
	q.Drain()

	failures := q.Drain()
	require.Len(t, failures, 1)
	require.Same(t, bad, failures[0].Command)
	require.ErrorIs(t, failures[0], boom)
	require.Equal(t, 0, q.Len())
}

func TestQueue_LenCountsCurrentAndStaged(t *testing.T) {
	q := NewQueue()
	var seen []int

	observer := Func(func() (Status, error) {
		seen = append(seen, q.Len())
		return Done, nil
	})
	q.Push(observer)
	q.Push(Func(func() (Status, error) { return Retry, nil }))
	q.Drain()

	q.Push(Func(func() (Status, error) { return Done, nil }))
	q.Drain()

	// observer, the retrying command, and the staged command
	require.Equal(t, []int{3}, seen)
	require.Equal(t, 2, q.Len())
}

func TestQueue_ConcurrentPush(t *testing.T) {
	const producers = 8
	const perProducer = 200

	q := NewQueue()
	var mu sync.Mutex
	got := map[int]int{}

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				id := p*perProducer + i
				q.Push(Func(func() (Status, error) {
					mu.Lock()
					got[id]++
					mu.Unlock()
					return Done, nil
				}))
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	for finished := false; !finished; {
		select {
		case <-done:
			finished = true
		default:
			q.Drain()
		}
	}
	q.Drain()
	q.Drain()

	require.Len(t, got, producers*perProducer)
	for id, n := range got {
		require.Equal(t, 1, n, "command %d", id)
	}
	require.Equal(t, 0, q.Len())
}
