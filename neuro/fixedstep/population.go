package fixedstep

import (
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// Population is a rectangular block of units of an Engine.
type Population struct {
	engine     *Engine
	label      string
	rows, cols int
	offset     int
	input      neuro.InputResource
}

// Label returns the name of the population.
func (p *Population) Label() string {
	return p.label
}

// Shape returns the grid of the population.
func (p *Population) Shape() neuro.Shape {
	return neuro.Shape{Rows: p.rows, Cols: p.cols}
}

// InjectCurrent drives the unit at (row, col).
func (p *Population) InjectCurrent(
	row, col int,
	amplitude float64,
	start, stop timing.VTimeInMs,
) error {
	return p.engine.InjectCurrent(p.offset+row*p.cols+col, amplitude, start, stop)
}

// Activity returns the input current of every unit at the engine's current
// time.
func (p *Population) Activity() []float64 {
	activity := make([]float64, p.rows*p.cols)
	for i := range activity {
		activity[i] = p.engine.Current(p.offset + i)
	}

	return activity
}

// AttachInputLayer sets the resource that receives the samples presented to
// this population.
func (p *Population) AttachInputLayer(input neuro.InputResource) {
	p.input = input
}

// DeliveryTarget returns the attached input layer. Without one, a
// rectilinear layer with unit amplitude is created on first use.
func (p *Population) DeliveryTarget() (neuro.InputResource, error) {
	if p.input == nil {
		p.input = neuro.NewRectilinearInputLayer(p, 1)
	}

	return p.input, nil
}
