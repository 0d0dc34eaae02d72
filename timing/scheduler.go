package timing

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sarchlab/cosim/idgen"
	"github.com/sarchlab/cosim/instrumentation/hooking"
)

// ErrNoPendingEvent is returned by Step when the queue is empty.
var ErrNoPendingEvent = errors.New("timing: no pending event")

// HookPosBeforeEvent fires right before an event is handled.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires right after an event is handled successfully.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// Scheduler is the discrete-event side of the co-simulation. It keeps pending
// events in time order and runs them one timestamp at a time.
//
// Scheduler is not safe for concurrent use. Handlers run on the goroutine
// that calls Step and may schedule further events from there.
type Scheduler struct {
	*hooking.HookableBase

	now     VTimeInMs
	queue   *eventQueue
	nextSeq uint64
	ids     idgen.Generator
}

// NewScheduler creates an empty scheduler at time zero that names events
// with a sequential generator.
func NewScheduler() *Scheduler {
	return NewSchedulerWithIDGenerator(idgen.NewSequential())
}

// NewSchedulerWithIDGenerator creates an empty scheduler at time zero that
// names events with ids.
func NewSchedulerWithIDGenerator(ids idgen.Generator) *Scheduler {
	return &Scheduler{
		HookableBase: hooking.NewHookableBase(),
		queue:        newEventQueue(),
		ids:          ids,
	}
}

// Initialize empties the queue and resets the virtual time to zero.
func (s *Scheduler) Initialize() {
	s.queue.Reset()
	s.now = 0
	s.nextSeq = 0
}

// CurrentTime returns the time of the most recently executed step.
func (s *Scheduler) CurrentTime() VTimeInMs {
	return s.now
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Pending returns the pending events in the order they will run.
func (s *Scheduler) Pending() []ScheduledEvent {
	return s.queue.Snapshot()
}

// Peek returns the time of the earliest pending event, or Never if there is
// none.
func (s *Scheduler) Peek() VTimeInMs {
	evt := s.queue.Peek()
	if evt == nil {
		return Never
	}

	return evt.Time
}

// Schedule registers an event. Events in the past are allowed and run on the
// next Step. Events with the same time run in the order they were
// scheduled. The assigned ID is returned.
func (s *Scheduler) Schedule(evt ScheduledEvent) string {
	if evt.ID == "" {
		evt.ID = s.ids.Generate()
	}

	evt.seq = s.nextSeq
	s.nextSeq++

	eventCopy := evt
	s.queue.Push(&eventCopy)

	return evt.ID
}

// Step runs every event due at the earliest pending time, including the ones
// the handlers schedule at or before that time while the step runs. The
// virtual time moves to that timestamp but never backwards.
//
// The first handler error aborts the step; the events not yet run stay
// queued.
func (s *Scheduler) Step() error {
	head := s.queue.Peek()
	if head == nil {
		return ErrNoPendingEvent
	}

	t := head.Time
	if t > s.now {
		s.now = t
	}

	for {
		next := s.queue.Peek()
		if next == nil || next.Time > t {
			return nil
		}

		evt := s.queue.Pop()
		if err := s.run(evt); err != nil {
			return err
		}
	}
}

func (s *Scheduler) run(evt *ScheduledEvent) error {
	hookCtx := hooking.HookCtx{
		Domain: s,
		Pos:    HookPosBeforeEvent,
		Item:   *evt,
	}
	s.InvokeHook(hookCtx)

	if evt.Handler != nil {
		err := evt.Handler.Handle(evt.Event)
		if err != nil {
			return fmt.Errorf("timing: handling %s %s @ %v: %w",
				reflect.TypeOf(evt.Event), evt.ID, evt.Time, err)
		}
	}

	hookCtx.Pos = HookPosAfterEvent
	s.InvokeHook(hookCtx)

	return nil
}
