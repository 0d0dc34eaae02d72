package timing

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cosim/instrumentation/hooking"
)

type labelEvent struct {
	label string
}

// recordingHandler records the labels it handles and may schedule follow-up
// events when it sees a given label.
type recordingHandler struct {
	scheduler *Scheduler
	calls     []string
	followUps map[string][]ScheduledEvent
	times     []VTimeInMs
}

func (h *recordingHandler) Handle(event any) error {
	evt, ok := event.(*labelEvent)
	if !ok {
		return errors.New("unexpected event")
	}

	h.calls = append(h.calls, evt.label)
	h.times = append(h.times, h.scheduler.CurrentTime())

	for _, f := range h.followUps[evt.label] {
		h.scheduler.Schedule(f)
	}

	return nil
}

var _ = Describe("Scheduler", func() {
	var (
		mockCtrl  *gomock.Controller
		scheduler *Scheduler
		handler   *recordingHandler
	)

	at := func(label string, t VTimeInMs) ScheduledEvent {
		return ScheduledEvent{
			Event:   &labelEvent{label: label},
			Time:    t,
			Handler: handler,
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		scheduler = NewScheduler()
		handler = &recordingHandler{
			scheduler: scheduler,
			followUps: make(map[string][]ScheduledEvent),
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report no event when empty", func() {
		Expect(scheduler.Peek()).To(Equal(Never))
		Expect(scheduler.Peek().IsNever()).To(BeTrue())
		Expect(scheduler.Len()).To(Equal(0))
	})

	It("should peek the earliest event", func() {
		scheduler.Schedule(at("late", 9))
		scheduler.Schedule(at("early", 5))

		Expect(scheduler.Peek()).To(Equal(VTimeInMs(5)))
		Expect(scheduler.Len()).To(Equal(2))
	})

	It("should name events with sequential ids", func() {
		id1 := scheduler.Schedule(at("a", 1))
		id2 := scheduler.Schedule(at("b", 1))

		Expect(id1).To(Equal("1"))
		Expect(id2).To(Equal("2"))
	})

	It("should keep an explicit id", func() {
		evt := at("a", 1)
		evt.ID = "custom"

		Expect(scheduler.Schedule(evt)).To(Equal("custom"))
		Expect(scheduler.Pending()[0].ID).To(Equal("custom"))
	})

	It("should run all the events of the earliest time in FIFO order", func() {
		scheduler.Schedule(at("b", 2))
		scheduler.Schedule(at("a1", 1))
		scheduler.Schedule(at("a2", 1))
		scheduler.Schedule(at("a3", 1))

		Expect(scheduler.Step()).To(Succeed())

		Expect(handler.calls).To(Equal([]string{"a1", "a2", "a3"}))
		Expect(scheduler.CurrentTime()).To(Equal(VTimeInMs(1)))
		Expect(scheduler.Peek()).To(Equal(VTimeInMs(2)))
	})

	It("should run same-time events scheduled by handlers in the same step", func() {
		handler.followUps["a"] = []ScheduledEvent{at("now", 1), at("later", 4)}
		scheduler.Schedule(at("a", 1))

		Expect(scheduler.Step()).To(Succeed())

		Expect(handler.calls).To(Equal([]string{"a", "now"}))
		Expect(scheduler.Peek()).To(Equal(VTimeInMs(4)))
	})

	It("should run events scheduled in the past on the next step", func() {
		scheduler.Schedule(at("a", 5))
		Expect(scheduler.Step()).To(Succeed())

		scheduler.Schedule(at("past", 2))
		Expect(scheduler.Peek()).To(Equal(VTimeInMs(2)))
		Expect(scheduler.Step()).To(Succeed())

		Expect(handler.calls).To(Equal([]string{"a", "past"}))
		Expect(scheduler.CurrentTime()).To(Equal(VTimeInMs(5)))
	})

	It("should process events in time order across steps", func() {
		handler.followUps["evt2"] = []ScheduledEvent{at("evt3", 3), at("evt4", 5)}
		scheduler.Schedule(at("evt1", 4))
		scheduler.Schedule(at("evt2", 2))

		for scheduler.Len() > 0 {
			Expect(scheduler.Step()).To(Succeed())
		}

		Expect(handler.calls).To(Equal([]string{"evt2", "evt3", "evt1", "evt4"}))
		Expect(handler.times).To(Equal([]VTimeInMs{2, 3, 4, 5}))
	})

	It("should fail to step an empty queue", func() {
		Expect(scheduler.Step()).To(MatchError(ErrNoPendingEvent))
	})

	It("should stop the step at the first handler error", func() {
		boom := errors.New("boom")
		failing := NewMockHandler(mockCtrl)
		failing.EXPECT().Handle(gomock.Any()).Return(boom)

		scheduler.Schedule(ScheduledEvent{Event: &labelEvent{"x"}, Time: 1, Handler: failing})
		scheduler.Schedule(at("after", 1))

		err := scheduler.Step()

		Expect(err).To(MatchError(boom))
		Expect(handler.calls).To(BeEmpty())
		Expect(scheduler.Len()).To(Equal(1))
	})

	It("should reset on initialize", func() {
		scheduler.Schedule(at("a", 3))
		Expect(scheduler.Step()).To(Succeed())
		scheduler.Schedule(at("b", 7))

		scheduler.Initialize()

		Expect(scheduler.Len()).To(Equal(0))
		Expect(scheduler.Peek()).To(Equal(Never))
		Expect(scheduler.CurrentTime()).To(Equal(VTimeInMs(0)))
	})

	It("should list pending events in run order", func() {
		scheduler.Schedule(at("c", 3))
		scheduler.Schedule(at("a", 1))
		scheduler.Schedule(at("b", 1))

		pending := scheduler.Pending()

		labels := []string{}
		for _, p := range pending {
			labels = append(labels, p.Event.(*labelEvent).label)
		}
		Expect(labels).To(Equal([]string{"a", "b", "c"}))
		Expect(scheduler.Len()).To(Equal(3))
	})

	It("should invoke hooks around each event", func() {
		positions := []string{}
		scheduler.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			evt := ctx.Item.(ScheduledEvent)
			positions = append(positions,
				ctx.Pos.Name+":"+evt.Event.(*labelEvent).label)
		}))

		scheduler.Schedule(at("a", 1))
		Expect(scheduler.Step()).To(Succeed())

		Expect(positions).To(Equal([]string{"BeforeEvent:a", "AfterEvent:a"}))
	})
})
