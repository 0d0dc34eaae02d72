package neuro

import "github.com/sarchlab/cosim/timing"

// InputResource delivers samples into the continuous engine.
type InputResource interface {
	Shape() Shape

	// ApplyInput makes the sample drive the engine from start for
	// duration. Times are absolute.
	ApplyInput(sample Sample, start, duration timing.VTimeInMs) error
}

// InputTarget is anything a sample can be presented to. It resolves to the
// resource that actually delivers the input.
type InputTarget interface {
	DeliveryTarget() (InputResource, error)
}

// Population is a handle on a group of units in the continuous engine.
type Population interface {
	Label() string
	Shape() Shape
}

// ActivitySource exposes the instantaneous activity of each unit of a
// population, in row-major order.
type ActivitySource interface {
	Activity() []float64
}

// RateEncoder turns population activity into rates. UpdateRates is called
// once per UpdatePeriod.
type RateEncoder interface {
	UpdateRates() error
	UpdatePeriod() timing.VTimeInMs
}
