package tracing

import "github.com/sarchlab/cosim/timing"

// Task is a handled event as a tracer sees it.
type Task struct {
	ID   string
	Kind string

	// Time is when the event was due.
	Time timing.VTimeInMs

	// ContinuousTime is the continuous engine time when the hook fired.
	ContinuousTime timing.VTimeInMs
}

// TaskFilter decides which tasks a tracer keeps.
type TaskFilter func(t Task) bool

// AllTasks keeps every task.
func AllTasks(Task) bool { return true }

// KindIs keeps the tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t Task) bool { return t.Kind == kind }
}
