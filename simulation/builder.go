package simulation

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/config"
	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/datarecording"
	"github.com/sarchlab/cosim/monitoring"
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/neuro/fixedstep"
	"github.com/sarchlab/cosim/timing"
	"github.com/sarchlab/cosim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	timeStep        timing.VTimeInMs
	defaultDuration timing.VTimeInMs
	ratePeriod      timing.VTimeInMs
	rateWindow      int
	recordOn        bool
	outputFileName  string
	monitorOn       bool
	monitorPort     int
	openBrowser     bool
	logEvents       bool
	logger          logrus.FieldLogger
}

// MakeBuilder creates a new builder with a 0.1 ms step, 200 ms
// presentations and rates updated every 10 ms over 10 samples. Recording
// and monitoring are off.
func MakeBuilder() Builder {
	return Builder{
		timeStep:        0.1,
		defaultDuration: cosim.DefaultPresentationDuration,
		ratePeriod:      10,
		rateWindow:      10,
		logger:          logrus.StandardLogger(),
	}
}

// WithConfig applies a run configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.timeStep = timing.VTimeInMs(cfg.TimeStepMs)
	b.defaultDuration = timing.VTimeInMs(cfg.DefaultPresentationMs)
	b.ratePeriod = timing.VTimeInMs(cfg.RatePeriodMs)
	b.rateWindow = cfg.RateWindow
	b.recordOn = cfg.Record
	b.outputFileName = cfg.RecordPath
	b.monitorOn = cfg.Monitor
	b.monitorPort = cfg.MonitorPort
	b.openBrowser = cfg.OpenBrowser

	return b
}

// WithTimeStep sets the step of the continuous engine.
func (b Builder) WithTimeStep(step timing.VTimeInMs) Builder {
	b.timeStep = step
	return b
}

// WithDefaultPresentationDuration sets the duration of presentations that
// do not set one.
func (b Builder) WithDefaultPresentationDuration(d timing.VTimeInMs) Builder {
	b.defaultDuration = d
	return b
}

// WithRateEncoding sets how often rates are updated and over how many
// samples they are averaged.
func (b Builder) WithRateEncoding(period timing.VTimeInMs, window int) Builder {
	b.ratePeriod = period
	b.rateWindow = window

	return b
}

// WithRecording turns activation recording on.
func (b Builder) WithRecording() Builder {
	b.recordOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitoring turns the monitoring server on.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithEventLogging logs every handled event at info level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithLogger sets the logger of the simulation.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() error {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		return fmt.Errorf(
			"simulation: monitor port and browser need monitoring enabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		return fmt.Errorf("simulation: output file needs recording enabled")
	}

	return nil
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	if err := b.parametersMustBeValid(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:     xid.New().String(),
		logger: b.logger,
	}

	s.engine = fixedstep.NewEngine(b.timeStep)

	simulator, err := cosim.ConfigureScheduling(s.engine,
		cosim.WithLogger(b.logger),
		cosim.WithDefaultPresentationDuration(b.defaultDuration),
		cosim.WithEncoderRegistry(neuro.NewEncoderRegistry(
			neuro.WindowEncoderFactory(b.ratePeriod, b.rateWindow))))
	if err != nil {
		return nil, err
	}

	s.simulator = simulator

	s.kindCounter = tracing.NewKindCountTracer(tracing.AllTasks)
	tracing.CollectTrace(simulator.Scheduler(), simulator.Clock(), s.kindCounter)

	s.syncLag = tracing.NewSyncLagTracer(tracing.AllTasks)
	tracing.CollectTrace(simulator.Scheduler(), simulator.Clock(), s.syncLag)

	if b.logEvents {
		simulator.AcceptHook(timing.NewEventLogger(b.logger))
	}

	if b.recordOn {
		if err := s.startRecording(b); err != nil {
			return nil, err
		}
	}

	if b.monitorOn {
		if err := s.startMonitoring(b); err != nil {
			s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func (s *Simulation) startRecording(b Builder) error {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "cosim_run_" + s.id
	}

	recorder, err := datarecording.New(outputPath)
	if err != nil {
		return err
	}

	s.dataRecorder = recorder
	s.execRecorder = datarecording.NewExecRecorder(recorder)
	s.execRecorder.Start()
	s.execRecorder.Set("Simulation ID", s.id)
	s.execRecorder.Set("Time Step", b.timeStep.String())

	s.activations = datarecording.NewActivationRecorder(recorder, s.simulator)
	s.simulator.AcceptHook(s.activations)

	s.logger.WithField("file", outputPath+".sqlite3").
		Info("Recording activations")

	return nil
}

func (s *Simulation) startMonitoring(b Builder) error {
	s.monitor = monitoring.NewMonitor().WithLogger(b.logger)
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterSimulation(s.simulator)
	s.monitor.RegisterState(s.simulator)

	s.progress = s.monitor.CreateProgressBar("Simulated time (ms)", 0)
	s.simulator.AcceptHook(newProgressHook(s.progress, s.simulator))

	url, err := s.monitor.StartServer()
	if err != nil {
		return err
	}

	if b.openBrowser {
		if err := s.monitor.OpenBrowser(url); err != nil {
			s.logger.WithError(err).Warn("Cannot open browser")
		}
	}

	return nil
}
