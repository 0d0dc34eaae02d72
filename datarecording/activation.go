package datarecording

import (
	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/instrumentation/hooking"
	"github.com/sarchlab/cosim/timing"
)

// ActivationTable is the table that holds one row per handled event.
const ActivationTable = "activation"

// Activation is a handled event together with the state of both clocks.
type Activation struct {
	ID             string
	Kind           string
	Time           float64
	ContinuousTime float64
	Horizon        float64
}

// SimulationObserver exposes the state recorded next to each event.
type SimulationObserver interface {
	ContinuousTime() timing.VTimeInMs
	Horizon() timing.VTimeInMs
}

// ActivationRecorder is a scheduler hook that records every event once it
// has been handled.
type ActivationRecorder struct {
	recorder DataRecorder
	observer SimulationObserver
	count    uint64
}

// NewActivationRecorder creates the activation table on recorder.
func NewActivationRecorder(
	recorder DataRecorder,
	observer SimulationObserver,
) *ActivationRecorder {
	recorder.CreateTable(ActivationTable, Activation{})

	return &ActivationRecorder{
		recorder: recorder,
		observer: observer,
	}
}

// Func records the event of an AfterEvent hook.
func (r *ActivationRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(timing.ScheduledEvent)
	if !ok {
		return
	}

	r.recorder.InsertData(ActivationTable, Activation{
		ID:             evt.ID,
		Kind:           cosim.TaskKind(evt.Event),
		Time:           float64(evt.Time),
		ContinuousTime: float64(r.observer.ContinuousTime()),
		Horizon:        float64(r.observer.Horizon()),
	})
	r.count++
}

// Count returns the number of rows recorded.
func (r *ActivationRecorder) Count() uint64 {
	return r.count
}
