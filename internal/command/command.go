// Package command implements deferred, retryable units of work and the
// per-thread queue that runs them.
package command

import "fmt"

// Status is the outcome of a single Perform call.
type Status int

const (
	// Done means the command completed and is discarded.
	Done Status = iota
	// Retry means a precondition is not met yet. The command stays queued
	// and is performed again on the next drain pass.
	Retry
	// Fatal means the command can never complete. It is discarded and
	// reported to the queue owner.
	Fatal
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Retry:
		return "retry"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Command is a deferred operation. Perform may be called any number of times
// until it returns Done or Fatal; a Retry result must leave no partial state
// behind. The returned error is only inspected for Fatal.
type Command interface {
	Perform() (Status, error)
}

// Func adapts a plain function to the Command interface.
type Func func() (Status, error)

func (f Func) Perform() (Status, error) {
	return f()
}

// Failure records a command that returned Fatal during a drain pass.
type Failure struct {
	Command Command
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%T: %v", f.Command, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}
