package cosim

import "github.com/sarchlab/cosim/timing"

// SimulationContext holds the horizon, the time up to which the simulation is
// committed to run. The horizon starts at zero and never decreases.
type SimulationContext struct {
	horizon timing.VTimeInMs
}

// NewSimulationContext creates a context with a zero horizon.
func NewSimulationContext() *SimulationContext {
	return &SimulationContext{}
}

// Horizon returns the current horizon.
func (c *SimulationContext) Horizon() timing.VTimeInMs {
	return c.horizon
}

// extendHorizon max-merges end into the horizon and reports whether the
// horizon moved.
func (c *SimulationContext) extendHorizon(end timing.VTimeInMs) bool {
	if end <= c.horizon {
		return false
	}

	c.horizon = end
	return true
}
