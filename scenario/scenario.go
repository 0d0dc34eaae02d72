// Package scenario describes a co-simulation run in YAML: the populations of
// the reference engine, the inputs presented to them and the rates computed
// from them.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/neuro/fixedstep"
	"github.com/sarchlab/cosim/timing"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("scenario: invalid")

// Patterns that a presentation can use.
const (
	PatternUniform = "uniform"
	PatternChecker = "checker"
	PatternMatrix  = "matrix"
)

// Scenario is the content of a scenario file. Times are in milliseconds.
type Scenario struct {
	Populations      []PopulationSpec      `yaml:"populations"`
	Presentations    []PresentationSpec    `yaml:"presentations"`
	RateCalculations []RateCalculationSpec `yaml:"rate_calculations,omitempty"`

	// EndMs bounds the run. Without it the run lasts until no event is
	// pending.
	EndMs *float64 `yaml:"end_ms,omitempty"`
}

// PopulationSpec declares a grid of units.
type PopulationSpec struct {
	Label   string  `yaml:"label"`
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	MaxNAmp float64 `yaml:"max_namp,omitempty"`
}

// PresentationSpec presents a pattern to a population. Without StartMs it
// follows the previous presentation.
type PresentationSpec struct {
	Population string      `yaml:"population"`
	Pattern    string      `yaml:"pattern"`
	Value      float64     `yaml:"value,omitempty"`
	Values     [][]float64 `yaml:"values,omitempty"`
	StartMs    *float64    `yaml:"start_ms,omitempty"`
	DurationMs *float64    `yaml:"duration_ms,omitempty"`
}

// RateCalculationSpec computes the rates of a population periodically.
// Without DurationMs it lasts until the last presentation is over.
type RateCalculationSpec struct {
	Population string   `yaml:"population"`
	StartMs    *float64 `yaml:"start_ms,omitempty"`
	DurationMs *float64 `yaml:"duration_ms,omitempty"`
}

// Load reads and parses a scenario file. Unknown keys are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: parsing: %w", err)
	}

	return &s, nil
}

// End returns the end of a bounded run, or Never.
func (s *Scenario) End() timing.VTimeInMs {
	if s.EndMs == nil {
		return timing.Never
	}

	return timing.VTimeInMs(*s.EndMs)
}

// Validate checks the references between the sections and the patterns.
func (s *Scenario) Validate() error {
	shapes := make(map[string]neuro.Shape, len(s.Populations))

	for i, p := range s.Populations {
		if p.Label == "" {
			return fmt.Errorf("%w: population %d has no label", ErrInvalid, i)
		}

		if _, dup := shapes[p.Label]; dup {
			return fmt.Errorf("%w: population %q declared twice",
				ErrInvalid, p.Label)
		}

		if p.Rows < 1 || p.Cols < 1 {
			return fmt.Errorf("%w: population %q has shape (%d, %d)",
				ErrInvalid, p.Label, p.Rows, p.Cols)
		}

		shapes[p.Label] = neuro.Shape{Rows: p.Rows, Cols: p.Cols}
	}

	for i, p := range s.Presentations {
		if _, ok := shapes[p.Population]; !ok {
			return fmt.Errorf("%w: presentation %d targets unknown population %q",
				ErrInvalid, i, p.Population)
		}

		switch p.Pattern {
		case PatternUniform, PatternChecker, PatternMatrix:
		default:
			return fmt.Errorf("%w: presentation %d has unknown pattern %q",
				ErrInvalid, i, p.Pattern)
		}

		if err := timesMustBeValid(p.StartMs, p.DurationMs); err != nil {
			return fmt.Errorf("%w: presentation %d: %v", ErrInvalid, i, err)
		}
	}

	for i, r := range s.RateCalculations {
		if _, ok := shapes[r.Population]; !ok {
			return fmt.Errorf("%w: rate calculation %d targets unknown population %q",
				ErrInvalid, i, r.Population)
		}

		if err := timesMustBeValid(r.StartMs, r.DurationMs); err != nil {
			return fmt.Errorf("%w: rate calculation %d: %v", ErrInvalid, i, err)
		}
	}

	if err := timesMustBeValid(s.EndMs); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalid, err)
	}

	return nil
}

// timesMustBeValid accepts unset times and finite, non-negative ones.
func timesMustBeValid(times ...*float64) error {
	for _, t := range times {
		if t == nil {
			continue
		}

		if math.IsNaN(*t) || math.IsInf(*t, 0) || *t < 0 {
			return fmt.Errorf("time %v is not a finite, non-negative value", *t)
		}
	}

	return nil
}

// Apply creates the populations on engine and schedules the presentations
// and the rate calculations on sim, in file order. It returns the created
// populations by label. Every presentation is checked before the first one
// is scheduled, so a failing scenario leaves sim untouched.
func (s *Scenario) Apply(
	sim *cosim.Simulator,
	engine *fixedstep.Engine,
) (map[string]*fixedstep.Population, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	presentations, err := s.preparePresentations()
	if err != nil {
		return nil, err
	}

	pops := make(map[string]*fixedstep.Population, len(s.Populations))
	for _, p := range s.Populations {
		pop := engine.NewPopulation(p.Label, p.Rows, p.Cols)
		if p.MaxNAmp != 0 {
			pop.AttachInputLayer(neuro.NewRectilinearInputLayer(pop, p.MaxNAmp))
		}

		pops[p.Label] = pop
	}

	for i, p := range presentations {
		_, err := sim.ScheduleInputPresentation(pops[p.population], p.sample, p.opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario: presentation %d: %w", i, err)
		}
	}

	for i, r := range s.RateCalculations {
		var opts []cosim.RateOption
		if r.StartMs != nil {
			opts = append(opts, cosim.WithRateStartTime(timing.VTimeInMs(*r.StartMs)))
		}

		if r.DurationMs != nil {
			opts = append(opts, cosim.WithRateDuration(timing.VTimeInMs(*r.DurationMs)))
		}

		_, err := sim.ScheduleOutputRateCalculation(pops[r.Population], opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario: rate calculation %d: %w", i, err)
		}
	}

	return pops, nil
}

type preparedPresentation struct {
	population string
	sample     neuro.Sample
	opts       []cosim.PresentationOption
}

// preparePresentations builds every sample and checks it against the shape
// of its population.
func (s *Scenario) preparePresentations() ([]preparedPresentation, error) {
	shapes := make(map[string]neuro.Shape, len(s.Populations))
	for _, p := range s.Populations {
		shapes[p.Label] = neuro.Shape{Rows: p.Rows, Cols: p.Cols}
	}

	prepared := make([]preparedPresentation, 0, len(s.Presentations))
	for i, p := range s.Presentations {
		shape := shapes[p.Population]

		sample, err := p.sample(shape)
		if err != nil {
			return nil, fmt.Errorf("scenario: presentation %d: %w", i, err)
		}

		if sample.Shape() != shape {
			return nil, fmt.Errorf("scenario: presentation %d: %w", i,
				&cosim.ShapeMismatchError{Expected: shape, Actual: sample.Shape()})
		}

		var opts []cosim.PresentationOption
		if p.StartMs != nil {
			opts = append(opts, cosim.WithStartTime(timing.VTimeInMs(*p.StartMs)))
		}

		if p.DurationMs != nil {
			opts = append(opts, cosim.WithDuration(timing.VTimeInMs(*p.DurationMs)))
		}

		prepared = append(prepared, preparedPresentation{
			population: p.Population,
			sample:     sample,
			opts:       opts,
		})
	}

	return prepared, nil
}

// sample builds the pattern. Uniform and checker patterns take the shape of
// the population; a matrix keeps its own.
func (p PresentationSpec) sample(shape neuro.Shape) (neuro.Sample, error) {
	switch p.Pattern {
	case PatternUniform:
		return neuro.Uniform(shape.Rows, shape.Cols, p.Value), nil
	case PatternChecker:
		return neuro.Checker(shape.Rows, shape.Cols), nil
	default:
		return neuro.NewMatrix(p.Values)
	}
}
