package cosim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/timing"
)

// Run handles events until none is pending.
func (s *Simulator) Run() error {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	return s.run(func(t timing.VTimeInMs) bool {
		return !t.IsNever()
	})
}

// RunUntil handles events up to and including end. A zero-effect sentinel is
// scheduled at end so that the loop reaches end even when nothing else is
// pending. The end must be a finite time.
func (s *Simulator) RunUntil(end timing.VTimeInMs) error {
	if !end.IsFinite() {
		return fmt.Errorf("%w: end %v", ErrInvalidTiming, end)
	}

	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	s.schedule(&SentinelTask{}, end)

	return s.run(func(t timing.VTimeInMs) bool {
		return t <= end
	})
}

func (s *Simulator) run(isNotEnd func(t timing.VTimeInMs) bool) error {
	t := s.scheduler.Peek()
	for isNotEnd(t) {
		if err := s.iterate(t); err != nil {
			return err
		}

		t = s.scheduler.Peek()
	}

	return nil
}

// iterate brings the continuous clock to t, handles the events at t, then
// brings the continuous clock to where the handlers left the discrete time.
func (s *Simulator) iterate(t timing.VTimeInMs) error {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	s.logger.WithFields(logrus.Fields{
		"time":            float64(t),
		"continuous_time": float64(s.clock.CurrentTime()),
	}).Debug("Progressing to event")

	if err := s.advanceContinuousTo(t); err != nil {
		return fmt.Errorf("cosim: before event at %v: %w", t, err)
	}

	if err := s.scheduler.Step(); err != nil {
		return fmt.Errorf("cosim: event at %v: %w", t, err)
	}

	if err := s.advanceContinuousTo(s.scheduler.CurrentTime()); err != nil {
		return fmt.Errorf("cosim: after event at %v: %w", t, err)
	}

	return nil
}

// advanceContinuousTo runs the continuous engine so that its rounded time
// reaches target. The engine looks one step ahead on each run, so a delta
// longer than a step is shortened by one step when the engine's time has
// not drifted past the grid.
func (s *Simulator) advanceContinuousTo(target timing.VTimeInMs) error {
	delta := s.continuousDelta(target)
	if delta <= 0 {
		return nil
	}

	return s.clock.Advance(delta)
}

func (s *Simulator) continuousDelta(target timing.VTimeInMs) timing.VTimeInMs {
	step := s.clock.Step()
	now := s.clock.CurrentTime()
	nowRound := s.clock.Round(now)

	delta := s.clock.Round(target - nowRound)
	if now <= nowRound && delta > step {
		delta = s.clock.Round(delta - step)
	}

	return delta
}

// Pause blocks the loop before its next iteration until Continue is called.
func (s *Simulator) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue lets a paused loop go on.
func (s *Simulator) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// IsPaused tells if the loop is paused.
func (s *Simulator) IsPaused() bool {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	return s.isPaused
}
