// Package timing holds the two clocks of a co-simulation: the fixed-step
// continuous clock and the discrete-event scheduler.
package timing

import (
	"math"
	"strconv"
)

// VTimeInMs defines the time in the simulated space in the unit of
// millisecond.
type VTimeInMs float64

// Never is the time of an event that will not happen. It is later than every
// finite time. Peek returns it when no event is pending, and an unbounded
// recurring task uses it as its end time.
const Never VTimeInMs = math.MaxFloat64

// IsNever tells if t is the Never time.
func (t VTimeInMs) IsNever() bool {
	return t >= Never
}

// IsFinite tells if t is an actual point in time: not NaN, not infinite
// and not Never.
func (t VTimeInMs) IsFinite() bool {
	f := float64(t)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && !t.IsNever()
}

// String prints the time in milliseconds, or "never".
func (t VTimeInMs) String() string {
	if t.IsNever() {
		return "never"
	}

	return strconv.FormatFloat(float64(t), 'g', -1, 64) + "ms"
}
