package timing

import (
	"reflect"

	"github.com/sarchlab/cosim/instrumentation/hooking"
	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that logs every event before it is handled.
type EventLogger struct {
	logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which writes into logger.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(ScheduledEvent)
	if !ok {
		return
	}

	h.logger.WithFields(logrus.Fields{
		"id":   evt.ID,
		"time": float64(evt.Time),
	}).Infof("%.10f, %s", float64(evt.Time), reflect.TypeOf(evt.Event))
}
