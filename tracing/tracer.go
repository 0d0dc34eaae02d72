// Package tracing collects statistics over the events a co-simulation
// handles.
package tracing

// A Tracer is notified when an event starts and ends being handled.
type Tracer interface {
	StartTask(task Task)
	EndTask(task Task)
}
