package cosim

import (
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// Task is the payload of the events the Simulator schedules. The set of
// tasks is closed.
type Task interface {
	// Kind names the variant, e.g. "input_presentation".
	Kind() string

	isTask()
}

// InputPresentationTask applies a sample to a resource from StartTime for
// Duration.
type InputPresentationTask struct {
	Resource  neuro.InputResource
	Sample    neuro.Sample
	StartTime timing.VTimeInMs
	Duration  timing.VTimeInMs
}

// Kind returns "input_presentation".
func (*InputPresentationTask) Kind() string { return "input_presentation" }

func (*InputPresentationTask) isTask() {}

// RateCalculationTask updates a rate encoder and reschedules itself every
// Period while the horizon and its own EndTime allow.
type RateCalculationTask struct {
	Population string
	Encoder    neuro.RateEncoder

	// EndTime is Never when the task is bounded by the horizon only.
	EndTime timing.VTimeInMs
	Period  timing.VTimeInMs

	// Activation counts how many times this recurrence has fired before.
	Activation int
}

// Kind returns "rate_calculation".
func (*RateCalculationTask) Kind() string { return "rate_calculation" }

func (*RateCalculationTask) isTask() {}

// SentinelTask does nothing. It marks the end of a bounded run.
type SentinelTask struct{}

// Kind returns "sentinel".
func (*SentinelTask) Kind() string { return "sentinel" }

func (*SentinelTask) isTask() {}

// TaskKind returns the kind of a scheduled payload, or "unknown".
func TaskKind(event any) string {
	if task, ok := event.(Task); ok {
		return task.Kind()
	}

	return "unknown"
}
