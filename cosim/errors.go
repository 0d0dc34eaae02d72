package cosim

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cosim/neuro"
)

var (
	// ErrInvalidTiming is returned when a task is given a negative or
	// non-finite start time, duration or end time.
	ErrInvalidTiming = errors.New("cosim: times must be finite and not negative")

	// ErrInvalidPeriod is returned when a rate encoder has a period that
	// would never move time forward.
	ErrInvalidPeriod = errors.New("cosim: update period must be positive")

	// ErrUnknownTask is returned when the simulator is asked to handle an
	// event it did not schedule.
	ErrUnknownTask = errors.New("cosim: unknown task")
)

// ShapeMismatchError reports a sample that does not fit the resource it is
// presented to. Nothing is scheduled when it is returned.
type ShapeMismatchError struct {
	Expected neuro.Shape
	Actual   neuro.Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: expected %v, got %v",
		e.Expected, e.Actual)
}
