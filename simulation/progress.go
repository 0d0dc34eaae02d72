package simulation

import (
	"github.com/sarchlab/cosim/instrumentation/hooking"
	"github.com/sarchlab/cosim/monitoring"
	"github.com/sarchlab/cosim/timing"
)

type horizonTeller interface {
	Horizon() timing.VTimeInMs
}

// progressHook moves a progress bar toward the horizon as events are
// handled.
type progressHook struct {
	bar     *monitoring.ProgressBar
	horizon horizonTeller
}

func newProgressHook(
	bar *monitoring.ProgressBar,
	horizon horizonTeller,
) *progressHook {
	return &progressHook{bar: bar, horizon: horizon}
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(timing.ScheduledEvent)
	if !ok {
		return
	}

	if !evt.Time.IsFinite() {
		return
	}

	finished := max(evt.Time, 0)
	total := max(h.horizon.Horizon(), finished)

	h.bar.Update(uint64(finished), uint64(total))
}
