package cosim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// engineTime lets the mocked engine keep a time that tests can move.
type engineTime struct {
	now  timing.VTimeInMs
	step timing.VTimeInMs
}

// expectTimeBase makes engine report its step and time from et. Runs are
// left to each test.
func expectTimeBase(engine *MockContinuousEngine, et *engineTime) {
	engine.EXPECT().Setup().DoAndReturn(func() error {
		et.now = 0
		return nil
	}).AnyTimes()
	engine.EXPECT().TimeStep().Return(et.step).AnyTimes()
	engine.EXPECT().CurrentTime().DoAndReturn(func() timing.VTimeInMs {
		return et.now
	}).AnyTimes()
}

// lookAhead advances et the way a one-step look-ahead engine does.
func lookAhead(et *engineTime) func(d timing.VTimeInMs) error {
	return func(d timing.VTimeInMs) error {
		et.now = timing.Round(et.now+d+et.step, 10)
		return nil
	}
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockContinuousEngine
		et       *engineTime
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockContinuousEngine(mockCtrl)
		et = &engineTime{step: 0.1}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start empty at time zero", func() {
		expectTimeBase(engine, et)

		sim, err := ConfigureScheduling(engine, WithLogger(quietLogger()))

		Expect(err).NotTo(HaveOccurred())
		Expect(sim.CurrentTime()).To(Equal(timing.VTimeInMs(0)))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(0)))
		Expect(sim.Scheduler().Len()).To(Equal(0))
		Expect(sim.Clock().Precision()).To(Equal(1))
	})

	It("should fail when the engine cannot be set up", func() {
		setupErr := errors.New("no network loaded")
		engine.EXPECT().Setup().Return(setupErr)

		_, err := ConfigureScheduling(engine, WithLogger(quietLogger()))

		Expect(err).To(MatchError(setupErr))
	})

	It("should fail on a non-positive step", func() {
		et.step = 0
		expectTimeBase(engine, et)

		_, err := ConfigureScheduling(engine, WithLogger(quietLogger()))

		Expect(err).To(MatchError(timing.ErrNonPositiveStep))
	})

	It("should reject a negative default duration", func() {
		_, err := ConfigureScheduling(engine,
			WithLogger(quietLogger()),
			WithDefaultPresentationDuration(-1))

		Expect(err).To(MatchError(ErrInvalidTiming))
	})

	It("should start a new run from a clean state", func() {
		expectTimeBase(engine, et)
		et.now = 42

		ctx := NewSimulationContext()
		ctx.extendHorizon(30)

		sim, err := ConfigureScheduling(engine,
			WithLogger(quietLogger()),
			WithSimulationContext(ctx))

		Expect(err).NotTo(HaveOccurred())
		Expect(sim.ContinuousTime()).To(Equal(timing.VTimeInMs(0)))
		Expect(sim.Context()).To(BeIdenticalTo(ctx))
		Expect(sim.Horizon()).To(Equal(timing.VTimeInMs(30)))
	})

	It("should refuse events it did not schedule", func() {
		expectTimeBase(engine, et)
		sim, err := ConfigureScheduling(engine, WithLogger(quietLogger()))
		Expect(err).NotTo(HaveOccurred())

		err = sim.Handle(struct{}{})

		Expect(err).To(MatchError(ErrUnknownTask))
		Expect(sim.Handle(&SentinelTask{})).To(Succeed())
	})

	It("should name tasks by kind", func() {
		Expect(TaskKind(&InputPresentationTask{})).To(Equal("input_presentation"))
		Expect(TaskKind(&RateCalculationTask{})).To(Equal("rate_calculation"))
		Expect(TaskKind(&SentinelTask{})).To(Equal("sentinel"))
		Expect(TaskKind(42)).To(Equal("unknown"))
	})

	It("should only grow the horizon", func() {
		ctx := NewSimulationContext()

		Expect(ctx.extendHorizon(10)).To(BeTrue())
		Expect(ctx.extendHorizon(5)).To(BeFalse())
		Expect(ctx.extendHorizon(10)).To(BeFalse())
		Expect(ctx.Horizon()).To(Equal(timing.VTimeInMs(10)))
	})

	It("should describe a shape mismatch", func() {
		err := &ShapeMismatchError{
			Expected: neuro.Shape{Rows: 8, Cols: 8},
			Actual:   neuro.Shape{Rows: 4, Cols: 4},
		}

		Expect(err.Error()).To(
			Equal("shape mismatch: expected (8, 8), got (4, 4)"))
	})
})
