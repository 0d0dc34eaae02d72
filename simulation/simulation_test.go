package simulation

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/datarecording"
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

var _ = Describe("Simulation", func() {
	var (
		builder    Builder
		simulation *Simulation
	)

	BeforeEach(func() {
		logger, _ := test.NewNullLogger()
		builder = MakeBuilder().
			WithLogger(logger).
			WithRateEncoding(10, 1)
	})

	AfterEach(func() {
		if simulation != nil {
			simulation.Terminate()
			simulation = nil
		}
	})

	present := func(s *Simulation) {
		pop := s.Engine().NewPopulation("retina", 2, 2)

		_, err := s.Simulator().ScheduleInputPresentation(pop,
			neuro.Uniform(2, 2, 1), cosim.WithDuration(30))
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Simulator().ScheduleOutputRateCalculation(pop)
		Expect(err).NotTo(HaveOccurred())
	}

	It("should run and summarize", func() {
		var err error
		simulation, err = builder.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(simulation.ID()).NotTo(BeEmpty())
		Expect(simulation.DataRecorder()).To(BeNil())
		Expect(simulation.Monitor()).To(BeNil())

		present(simulation)

		Expect(simulation.Run(timing.Never)).To(Succeed())

		summary := simulation.Summary()
		Expect(summary.Time).To(Equal(timing.VTimeInMs(40)))
		Expect(summary.Horizon).To(Equal(timing.VTimeInMs(30)))
		Expect(summary.Pending).To(Equal(0))
		Expect(summary.Kinds).To(Equal(
			[]string{"input_presentation", "rate_calculation"}))
		Expect(summary.EventsByKind["rate_calculation"]).To(Equal(uint64(5)))
		Expect(summary.StepsRun).To(BeNumerically(">=", 400))
		Expect(summary.MaxLag).To(BeNumerically("<=", 0.1+1e-9))
		Expect(summary.AverageLag).To(BeNumerically(">=", -1e-9))
	})

	It("should stop a bounded run at its end", func() {
		var err error
		simulation, err = builder.Build()
		Expect(err).NotTo(HaveOccurred())

		present(simulation)

		Expect(simulation.Run(15)).To(Succeed())

		summary := simulation.Summary()
		Expect(summary.Time).To(Equal(timing.VTimeInMs(15)))
		Expect(summary.Pending).To(Equal(1))
		Expect(summary.EventsByKind["sentinel"]).To(Equal(uint64(1)))
	})

	It("should record activations", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		var err error
		simulation, err = builder.
			WithRecording().
			WithOutputFileName(path).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(simulation.DataRecorder().ListTables()).To(Equal(
			[]string{datarecording.ExecTable, datarecording.ActivationTable}))

		present(simulation)
		Expect(simulation.Run(timing.Never)).To(Succeed())
		Expect(simulation.Summary().Recorded).To(Equal(uint64(6)))

		simulation.Terminate()

		reader, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(datarecording.ActivationTable, datarecording.Activation{})
		results, total, err := reader.Query(context.Background(),
			datarecording.ActivationTable,
			datarecording.QueryParams{
				Where:   "Kind = ?",
				Args:    []any{"rate_calculation"},
				OrderBy: "Time",
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(5))

		last := results[4].(*datarecording.Activation)
		Expect(last.Time).To(Equal(40.0))
		Expect(last.Horizon).To(Equal(30.0))
		Expect(last.ContinuousTime).To(BeNumerically(">=", 40-1e-9))
	})

	It("should serve the monitor while running", func() {
		var err error
		simulation, err = builder.WithMonitoring().Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(simulation.Monitor()).NotTo(BeNil())

		present(simulation)
		Expect(simulation.Run(timing.Never)).To(Succeed())
	})

	It("should reject a monitor port without monitoring", func() {
		_, err := builder.WithMonitorPort(8080).Build()

		Expect(err).To(HaveOccurred())
	})

	It("should reject an output file without recording", func() {
		_, err := builder.WithOutputFileName("run").Build()

		Expect(err).To(HaveOccurred())
	})

	It("should reject an invalid step", func() {
		_, err := builder.WithTimeStep(0).Build()

		Expect(err).To(HaveOccurred())
	})
})
