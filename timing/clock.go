package timing

import (
	"errors"
	"fmt"
)

// ErrNonPositiveStep is returned when the continuous engine reports a time
// step that is zero or negative.
var ErrNonPositiveStep = errors.New("timing: time step must be positive")

// ContinuousEngine is the fixed-step simulator whose time base the
// TimestepClock wraps.
//
// Run may advance by a full step even when asked to run for zero time, and
// may look one step ahead of the requested delta. Callers go through
// TimestepClock, which never forwards a non-positive delta.
type ContinuousEngine interface {
	// Setup resets the engine to time zero.
	Setup() error

	// CurrentTime returns the engine's elapsed time.
	CurrentTime() VTimeInMs

	// TimeStep returns the fixed integration step.
	TimeStep() VTimeInMs

	// Run advances the engine by delta.
	Run(delta VTimeInMs) error
}

// TimestepClock wraps the continuous engine's time base. The step and the
// rounding precision are read once at construction and stay fixed.
type TimestepClock struct {
	engine    ContinuousEngine
	step      VTimeInMs
	precision int
}

// NewTimestepClock creates a clock for the given engine.
func NewTimestepClock(engine ContinuousEngine) (*TimestepClock, error) {
	step := engine.TimeStep()
	if step <= 0 {
		return nil, fmt.Errorf("%w, got %v", ErrNonPositiveStep, float64(step))
	}

	precision, err := OptimalRounding(step)
	if err != nil {
		return nil, err
	}

	c := &TimestepClock{
		engine:    engine,
		step:      step,
		precision: precision,
	}

	return c, nil
}

// CurrentTime returns the engine's elapsed time.
func (c *TimestepClock) CurrentTime() VTimeInMs {
	return c.engine.CurrentTime()
}

// Step returns the fixed time step of the engine.
func (c *TimestepClock) Step() VTimeInMs {
	return c.step
}

// Precision returns the number of decimal digits that represent the step
// exactly.
func (c *TimestepClock) Precision() int {
	return c.precision
}

// Round rounds t to the clock precision.
func (c *TimestepClock) Round(t VTimeInMs) VTimeInMs {
	return Round(t, c.precision)
}

// Advance runs the engine for delta. A delta that is zero or negative is a
// no-op.
func (c *TimestepClock) Advance(delta VTimeInMs) error {
	if delta <= 0 {
		return nil
	}

	if err := c.engine.Run(delta); err != nil {
		return fmt.Errorf("timing: advancing continuous clock by %v: %w",
			delta, err)
	}

	return nil
}
