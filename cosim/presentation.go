package cosim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// PresentationOption customizes a single input presentation.
type PresentationOption func(*presentation)

type presentation struct {
	start    timing.VTimeInMs
	duration timing.VTimeInMs
}

// WithStartTime sets when the presentation starts. By default it starts at
// the current horizon, right after the previous presentation.
func WithStartTime(t timing.VTimeInMs) PresentationOption {
	return func(p *presentation) { p.start = t }
}

// WithDuration sets how long the sample is applied.
func WithDuration(d timing.VTimeInMs) PresentationOption {
	return func(p *presentation) { p.duration = d }
}

// ScheduleInputPresentation schedules sample to be applied to the resource
// behind target and extends the horizon to the end of the presentation. This
// is the only way the horizon grows.
//
// A sample whose shape differs from the resource's returns a
// *ShapeMismatchError and changes nothing.
func (s *Simulator) ScheduleInputPresentation(
	target neuro.InputTarget,
	sample neuro.Sample,
	opts ...PresentationOption,
) (*InputPresentationTask, error) {
	resource, err := target.DeliveryTarget()
	if err != nil {
		return nil, fmt.Errorf("cosim: resolving input target: %w", err)
	}

	if sample.Shape() != resource.Shape() {
		mismatch := &ShapeMismatchError{
			Expected: resource.Shape(),
			Actual:   sample.Shape(),
		}
		s.logger.WithError(mismatch).Warn("Input presentation rejected")

		return nil, mismatch
	}

	p := presentation{
		start:    s.context.Horizon(),
		duration: s.defaultDuration,
	}
	for _, opt := range opts {
		opt(&p)
	}

	end := p.start + p.duration
	if p.start < 0 || p.duration < 0 || !p.start.IsFinite() || !end.IsFinite() {
		return nil, fmt.Errorf("%w: start %v, duration %v",
			ErrInvalidTiming, p.start, p.duration)
	}

	task := &InputPresentationTask{
		Resource:  resource,
		Sample:    sample,
		StartTime: p.start,
		Duration:  p.duration,
	}
	s.schedule(task, p.start)

	if s.context.extendHorizon(end) {
		s.logger.WithField("horizon", float64(s.context.Horizon())).
			Debug("Horizon extended")
	}

	return task, nil
}

func (s *Simulator) presentInput(task *InputPresentationTask) error {
	s.logger.WithFields(logrus.Fields{
		"start":    float64(task.StartTime),
		"duration": float64(task.Duration),
	}).Debug("Presenting input")

	return task.Resource.ApplyInput(task.Sample, task.StartTime, task.Duration)
}
