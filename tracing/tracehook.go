package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/instrumentation/hooking"
	"github.com/sarchlab/cosim/timing"
)

// CollectTrace makes tracer receive the events handled by domain. Clock
// tells the continuous time recorded with each task.
func CollectTrace(
	domain hooking.Hookable,
	clock timing.TimeTeller,
	tracer Tracer,
) {
	for _, hook := range domain.Hooks() {
		h, ok := hook.(*traceHook)
		if ok && h.t == tracer {
			panic(fmt.Sprintf("domain already has tracer %s",
				reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer, clock: clock})
}

// A traceHook turns scheduler hooks into tracer calls.
type traceHook struct {
	t     Tracer
	clock timing.TimeTeller
}

func (h *traceHook) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(timing.ScheduledEvent)
	if !ok {
		return
	}

	task := Task{
		ID:             evt.ID,
		Kind:           cosim.TaskKind(evt.Event),
		Time:           evt.Time,
		ContinuousTime: h.clock.CurrentTime(),
	}

	switch ctx.Pos {
	case timing.HookPosBeforeEvent:
		h.t.StartTask(task)
	case timing.HookPosAfterEvent:
		h.t.EndTask(task)
	}
}
