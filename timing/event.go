package timing

// Handler processes events of various types. Events are plain data; handlers
// type-switch on them.
type Handler interface {
	Handle(event any) error
}

// TimeTeller exposes the current time of a clock.
type TimeTeller interface {
	CurrentTime() VTimeInMs
}

// ScheduledEvent is the scheduler-facing wrapper around a user-defined event.
type ScheduledEvent struct {
	// ID names the event. The scheduler fills it if it is empty.
	ID string

	// Event is the payload delivered to the handler, typically a pointer to
	// a task.
	Event any

	// Time is when the event should be processed.
	Time VTimeInMs

	// Handler is the component that processes the event.
	Handler Handler

	seq uint64
}
