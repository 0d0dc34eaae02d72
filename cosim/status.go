package cosim

import "github.com/sarchlab/cosim/timing"

// Status is a view of the simulator taken between two loop iterations.
type Status struct {
	Time           timing.VTimeInMs
	ContinuousTime timing.VTimeInMs
	Horizon        timing.VTimeInMs
	Pending        []timing.ScheduledEvent
	Paused         bool
}

// Status waits for the current iteration to finish and reports the state of
// both clocks. It is safe to call from another goroutine while the loop
// runs.
func (s *Simulator) Status() Status {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		s.pauseLock.Lock()
		defer s.pauseLock.Unlock()
	}

	return Status{
		Time:           s.scheduler.CurrentTime(),
		ContinuousTime: s.clock.CurrentTime(),
		Horizon:        s.context.Horizon(),
		Pending:        s.scheduler.Pending(),
		Paused:         s.isPaused,
	}
}
