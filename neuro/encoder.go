package neuro

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cosim/timing"
)

// ErrEmptyWindow is returned when a rate encoder is built with a window that
// cannot hold any sample.
var ErrEmptyWindow = errors.New("neuro: rate window must hold at least one sample")

// WindowRateEncoder samples the activity of a population every period and
// reports the average over the last window samples.
type WindowRateEncoder struct {
	source  ActivitySource
	period  timing.VTimeInMs
	window  int
	history [][]float64
	updates uint64
}

// NewWindowRateEncoder creates an encoder over source.
func NewWindowRateEncoder(
	source ActivitySource,
	period timing.VTimeInMs,
	window int,
) (*WindowRateEncoder, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrEmptyWindow, window)
	}

	e := &WindowRateEncoder{
		source: source,
		period: period,
		window: window,
	}

	return e, nil
}

// UpdatePeriod returns the time between two updates.
func (e *WindowRateEncoder) UpdatePeriod() timing.VTimeInMs {
	return e.period
}

// UpdateRates takes one activity sample.
func (e *WindowRateEncoder) UpdateRates() error {
	activity := e.source.Activity()
	snapshot := make([]float64, len(activity))
	copy(snapshot, activity)

	e.history = append(e.history, snapshot)
	if len(e.history) > e.window {
		e.history = e.history[len(e.history)-e.window:]
	}

	e.updates++

	return nil
}

// Updates returns how many times UpdateRates has been called.
func (e *WindowRateEncoder) Updates() uint64 {
	return e.updates
}

// Rates returns the per-unit average activity over the window, or nil
// before the first update.
func (e *WindowRateEncoder) Rates() []float64 {
	if len(e.history) == 0 {
		return nil
	}

	rates := make([]float64, len(e.history[0]))
	for _, snapshot := range e.history {
		for i, v := range snapshot {
			rates[i] += v
		}
	}

	for i := range rates {
		rates[i] /= float64(len(e.history))
	}

	return rates
}

// WindowEncoderFactory returns a factory that builds a WindowRateEncoder for
// populations that expose their activity.
func WindowEncoderFactory(period timing.VTimeInMs, window int) EncoderFactory {
	return func(pop Population) (RateEncoder, error) {
		source, ok := pop.(ActivitySource)
		if !ok {
			return nil, fmt.Errorf("neuro: population %q does not expose activity",
				pop.Label())
		}

		return NewWindowRateEncoder(source, period, window)
	}
}
