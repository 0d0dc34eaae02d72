// Package fixedstep is a reference continuous engine. It advances in whole
// time steps, looks one step ahead on every run and hosts constant current
// sources for the populations it creates.
package fixedstep

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/cosim/timing"
)

// ErrNegativeRun is returned when asked to run for a negative duration.
var ErrNegativeRun = errors.New("fixedstep: cannot run for a negative duration")

// ErrUnknownUnit is returned when a current source targets a unit that does
// not exist.
var ErrUnknownUnit = errors.New("fixedstep: unknown unit")

type currentSource struct {
	unit        int
	amplitude   float64
	start, stop timing.VTimeInMs
}

// Engine is a fixed-step simulator.
//
// Run(d) simulates round(d/step)+1 steps, so a run overshoots the requested
// delta by one step and Run(0) still advances one step. Elapsed time is
// accumulated by repeated addition and drifts off the step grid.
type Engine struct {
	step        timing.VTimeInMs
	now         timing.VTimeInMs
	stepsRun    uint64
	numUnits    int
	sources     []currentSource
	populations []*Population
}

// NewEngine creates an engine with the given step.
func NewEngine(step timing.VTimeInMs) *Engine {
	return &Engine{step: step}
}

// Setup resets the time and removes all current sources. Populations are
// kept.
func (e *Engine) Setup() error {
	if e.step <= 0 {
		return fmt.Errorf("fixedstep: invalid time step %v", float64(e.step))
	}

	e.now = 0
	e.stepsRun = 0
	e.sources = nil

	return nil
}

// TimeStep returns the integration step.
func (e *Engine) TimeStep() timing.VTimeInMs {
	return e.step
}

// CurrentTime returns the elapsed time.
func (e *Engine) CurrentTime() timing.VTimeInMs {
	return e.now
}

// StepsRun returns the number of steps simulated since Setup.
func (e *Engine) StepsRun() uint64 {
	return e.stepsRun
}

// Run simulates for delta.
func (e *Engine) Run(delta timing.VTimeInMs) error {
	if delta < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeRun, float64(delta))
	}

	steps := int(math.Round(float64(delta/e.step))) + 1
	for i := 0; i < steps; i++ {
		e.now += e.step
		e.stepsRun++
	}

	return nil
}

// NewPopulation allocates rows x cols units.
func (e *Engine) NewPopulation(label string, rows, cols int) *Population {
	p := &Population{
		engine: e,
		label:  label,
		rows:   rows,
		cols:   cols,
		offset: e.numUnits,
	}

	e.numUnits += rows * cols
	e.populations = append(e.populations, p)

	return p
}

// Populations returns the populations created on this engine.
func (e *Engine) Populations() []*Population {
	return e.populations
}

// InjectCurrent adds a constant current into unit during [start, stop).
func (e *Engine) InjectCurrent(
	unit int,
	amplitude float64,
	start, stop timing.VTimeInMs,
) error {
	if unit < 0 || unit >= e.numUnits {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, unit)
	}

	e.sources = append(e.sources, currentSource{
		unit:      unit,
		amplitude: amplitude,
		start:     start,
		stop:      stop,
	})

	return nil
}

// Current returns the total current flowing into unit at the current time.
func (e *Engine) Current(unit int) float64 {
	now := timing.Round(e.now, e.precision())

	total := 0.0
	for _, s := range e.sources {
		if s.unit == unit && s.start <= now && now < s.stop {
			total += s.amplitude
		}
	}

	return total
}

func (e *Engine) precision() int {
	digits, err := timing.OptimalRounding(e.step)
	if err != nil {
		return timing.MaxRoundingDigits
	}

	return digits
}
