package cosim

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

var _ = Describe("Input presentation", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockContinuousEngine
		resource *MockInputResource
		target   *MockInputTarget
		logHook  *test.Hook
		sim      *Simulator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockContinuousEngine(mockCtrl)
		resource = NewMockInputResource(mockCtrl)
		target = NewMockInputTarget(mockCtrl)

		et := &engineTime{step: 0.1}
		expectTimeBase(engine, et)
		engine.EXPECT().Run(gomock.Any()).DoAndReturn(lookAhead(et)).AnyTimes()

		resource.EXPECT().Shape().
			Return(neuro.Shape{Rows: 8, Cols: 8}).AnyTimes()
		target.EXPECT().DeliveryTarget().Return(resource, nil).AnyTimes()

		var logger *logrus.Logger
		logger, logHook = test.NewNullLogger()

		var err error
		sim, err = ConfigureScheduling(engine, WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	pendingTimes := func() []timing.VTimeInMs {
		var times []timing.VTimeInMs
		for _, evt := range sim.Scheduler().Pending() {
			times = append(times, evt.Time)
		}

		return times
	}

	It("should queue presentations back to back at the horizon", func() {
		sample := neuro.Uniform(8, 8, 1)

		first, err := sim.ScheduleInputPresentation(target, sample,
			WithDuration(50))
		Expect(err).NotTo(HaveOccurred())

		second, err := sim.ScheduleInputPresentation(target, sample,
			WithDuration(50))
		Expect(err).NotTo(HaveOccurred())

		Expect(first.StartTime).To(Equal(timing.VTimeInMs(0)))
		Expect(second.StartTime).To(Equal(timing.VTimeInMs(50)))
		Expect(pendingTimes()).To(Equal([]timing.VTimeInMs{0, 50}))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(100)))
	})

	It("should use the default duration", func() {
		task, err := sim.ScheduleInputPresentation(target, neuro.Checker(8, 8))

		Expect(err).NotTo(HaveOccurred())
		Expect(task.Duration).To(Equal(DefaultPresentationDuration))
		Expect(sim.Horizon()).To(Equal(DefaultPresentationDuration))
	})

	It("should not shrink the horizon for an earlier presentation", func() {
		sample := neuro.Uniform(8, 8, 0.5)

		_, err := sim.ScheduleInputPresentation(target, sample,
			WithDuration(100))
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.ScheduleInputPresentation(target, sample,
			WithStartTime(10), WithDuration(5))
		Expect(err).NotTo(HaveOccurred())

		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(100)))
		Expect(pendingTimes()).To(Equal([]timing.VTimeInMs{0, 10}))
	})

	It("should reject a sample of the wrong shape", func() {
		_, err := sim.ScheduleInputPresentation(target, neuro.Uniform(8, 8, 1),
			WithDuration(100))
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.ScheduleInputPresentation(target, neuro.Uniform(4, 4, 1))

		var mismatch *ShapeMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Expected).To(Equal(neuro.Shape{Rows: 8, Cols: 8}))
		Expect(mismatch.Actual).To(Equal(neuro.Shape{Rows: 4, Cols: 4}))
		Expect(sim.Scheduler().Len()).To(Equal(1))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(100)))
		Expect(logHook.LastEntry().Level).To(Equal(logrus.WarnLevel))
	})

	It("should reject negative timing", func() {
		_, err := sim.ScheduleInputPresentation(target, neuro.Uniform(8, 8, 1),
			WithDuration(-1))
		Expect(err).To(MatchError(ErrInvalidTiming))

		_, err = sim.ScheduleInputPresentation(target, neuro.Uniform(8, 8, 1),
			WithStartTime(-5))
		Expect(err).To(MatchError(ErrInvalidTiming))

		Expect(sim.Scheduler().Len()).To(Equal(0))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(0)))
	})

	It("should reject timing that is not finite", func() {
		sample := neuro.Uniform(8, 8, 1)

		_, err := sim.ScheduleInputPresentation(target, sample,
			WithDuration(timing.VTimeInMs(math.Inf(1))))
		Expect(err).To(MatchError(ErrInvalidTiming))

		_, err = sim.ScheduleInputPresentation(target, sample,
			WithDuration(timing.VTimeInMs(math.NaN())))
		Expect(err).To(MatchError(ErrInvalidTiming))

		_, err = sim.ScheduleInputPresentation(target, sample,
			WithStartTime(timing.VTimeInMs(math.NaN())))
		Expect(err).To(MatchError(ErrInvalidTiming))

		_, err = sim.ScheduleInputPresentation(target, sample,
			WithStartTime(timing.Never), WithDuration(0))
		Expect(err).To(MatchError(ErrInvalidTiming))

		_, err = sim.ScheduleInputPresentation(target, sample,
			WithStartTime(timing.Never/2), WithDuration(timing.Never/2+timing.Never/4))
		Expect(err).To(MatchError(ErrInvalidTiming))

		Expect(sim.Scheduler().Len()).To(Equal(0))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(0)))
	})

	It("should keep the horizon after a rejected presentation", func() {
		_, err := sim.ScheduleInputPresentation(target, neuro.Uniform(8, 8, 1),
			WithDuration(50))
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.ScheduleInputPresentation(target, neuro.Uniform(8, 8, 1),
			WithStartTime(timing.VTimeInMs(math.NaN())))
		Expect(err).To(MatchError(ErrInvalidTiming))

		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(50)))
		Expect(pendingTimes()).To(Equal([]timing.VTimeInMs{0}))
	})

	It("should fail when the target cannot deliver", func() {
		deliveryErr := errors.New("no electrodes")
		broken := NewMockInputTarget(mockCtrl)
		broken.EXPECT().DeliveryTarget().Return(nil, deliveryErr)

		_, err := sim.ScheduleInputPresentation(broken, neuro.Uniform(8, 8, 1))

		Expect(err).To(MatchError(deliveryErr))
		Expect(sim.Scheduler().Len()).To(Equal(0))
	})

	It("should apply the sample over its window", func() {
		sample := neuro.Uniform(8, 8, 1)
		resource.EXPECT().
			ApplyInput(sample, timing.VTimeInMs(20), timing.VTimeInMs(30)).
			Return(nil)

		_, err := sim.ScheduleInputPresentation(target, sample,
			WithStartTime(20), WithDuration(30))
		Expect(err).NotTo(HaveOccurred())

		Expect(sim.Run()).To(Succeed())
		Expect(sim.CurrentTime()).To(Equal(timing.VTimeInMs(20)))
	})
})
