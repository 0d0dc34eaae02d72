package neuro

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cosim/timing"
)

// ErrShape is returned when a sample does not fit the layer it is applied
// to.
var ErrShape = errors.New("neuro: sample shape does not match the layer")

// CurrentInjector drives single units of the engine with a constant current
// over an absolute time window.
type CurrentInjector interface {
	Shape() Shape
	InjectCurrent(row, col int, amplitude float64, start, stop timing.VTimeInMs) error
}

// RectilinearInputLayer places one electrode on every unit of a 2D grid of
// the target. Applying a sample injects maxNAmp * value into each electrode.
type RectilinearInputLayer struct {
	target  CurrentInjector
	maxNAmp float64
}

// NewRectilinearInputLayer creates an input layer over target.
func NewRectilinearInputLayer(
	target CurrentInjector,
	maxNAmp float64,
) *RectilinearInputLayer {
	return &RectilinearInputLayer{
		target:  target,
		maxNAmp: maxNAmp,
	}
}

// Shape returns the electrode grid, which matches the target.
func (l *RectilinearInputLayer) Shape() Shape {
	return l.target.Shape()
}

// MaxNAmp returns the amplitude injected for a sample value of 1.
func (l *RectilinearInputLayer) MaxNAmp() float64 {
	return l.maxNAmp
}

// DeliveryTarget returns the layer itself.
func (l *RectilinearInputLayer) DeliveryTarget() (InputResource, error) {
	return l, nil
}

// ApplyInput injects the sample from start to start + duration.
func (l *RectilinearInputLayer) ApplyInput(
	sample Sample,
	start, duration timing.VTimeInMs,
) error {
	shape := l.Shape()
	if sample.Shape() != shape {
		return fmt.Errorf("%w: layer %v, sample %v",
			ErrShape, shape, sample.Shape())
	}

	stop := start + duration
	for r := 0; r < shape.Rows; r++ {
		for c := 0; c < shape.Cols; c++ {
			amplitude := l.maxNAmp * sample.At(r, c)
			err := l.target.InjectCurrent(r, c, amplitude, start, stop)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
