package cosim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// RateOption customizes a recurring rate calculation.
type RateOption func(*rateCalculation)

type rateCalculation struct {
	start       timing.VTimeInMs
	duration    timing.VTimeInMs
	hasDuration bool
}

// WithRateStartTime sets the first activation. By default it is the current
// continuous time.
func WithRateStartTime(t timing.VTimeInMs) RateOption {
	return func(r *rateCalculation) { r.start = t }
}

// WithRateDuration bounds the recurrence to start + d. Without it the
// recurrence is bounded by the horizon only.
func WithRateDuration(d timing.VTimeInMs) RateOption {
	return func(r *rateCalculation) {
		r.duration = d
		r.hasDuration = true
	}
}

// ScheduleOutputRateCalculation schedules the periodic update of the rate
// encoder of pop, creating the encoder if the population has none yet. The
// returned encoder is the one that will be updated.
//
// The recurrence never extends the horizon. It keeps rescheduling itself
// while the horizon and its own end time are not behind the activation
// time, so it fires exactly once past the horizon and then stops.
func (s *Simulator) ScheduleOutputRateCalculation(
	pop neuro.Population,
	opts ...RateOption,
) (neuro.RateEncoder, error) {
	encoder, err := s.encoders.Resolve(pop)
	if err != nil {
		return nil, err
	}

	period := encoder.UpdatePeriod()
	if period <= 0 {
		return nil, fmt.Errorf("%w: %q has period %v",
			ErrInvalidPeriod, pop.Label(), period)
	}

	r := rateCalculation{start: s.clock.Round(s.clock.CurrentTime())}
	for _, opt := range opts {
		opt(&r)
	}

	if r.start < 0 || !r.start.IsFinite() {
		return nil, fmt.Errorf("%w: start %v", ErrInvalidTiming, r.start)
	}

	end := timing.Never
	if r.hasDuration {
		end = r.start + r.duration
		if r.duration < 0 || !end.IsFinite() {
			return nil, fmt.Errorf("%w: start %v, duration %v",
				ErrInvalidTiming, r.start, r.duration)
		}
	}

	s.schedule(&RateCalculationTask{
		Population: pop.Label(),
		Encoder:    encoder,
		EndTime:    end,
		Period:     period,
	}, r.start)

	return encoder, nil
}

func (s *Simulator) calculateRates(task *RateCalculationTask) error {
	if err := task.Encoder.UpdateRates(); err != nil {
		return fmt.Errorf("cosim: updating rates of %q: %w",
			task.Population, err)
	}

	now := s.scheduler.CurrentTime()
	horizon := s.context.Horizon()

	if horizon < now || task.EndTime < now {
		s.logger.WithFields(logrus.Fields{
			"population": task.Population,
			"time":       float64(now),
			"horizon":    float64(horizon),
		}).Debug("Rate calculation finished")

		return nil
	}

	s.schedule(&RateCalculationTask{
		Population: task.Population,
		Encoder:    task.Encoder,
		EndTime:    task.EndTime,
		Period:     task.Period,
		Activation: task.Activation + 1,
	}, now+task.Period)

	return nil
}
