// Package simulation assembles a runnable co-simulation: the reference
// engine, the simulator and the optional recording and monitoring around
// them.
package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/datarecording"
	"github.com/sarchlab/cosim/monitoring"
	"github.com/sarchlab/cosim/neuro/fixedstep"
	"github.com/sarchlab/cosim/timing"
	"github.com/sarchlab/cosim/tracing"
)

// A Simulation owns everything a run needs.
type Simulation struct {
	id     string
	logger logrus.FieldLogger

	engine    *fixedstep.Engine
	simulator *cosim.Simulator

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	activations  *datarecording.ActivationRecorder

	monitor  *monitoring.Monitor
	progress *monitoring.ProgressBar

	kindCounter *tracing.KindCountTracer
	syncLag     *tracing.SyncLagTracer

	terminated bool
}

// ID returns the unique name of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the continuous engine.
func (s *Simulation) Engine() *fixedstep.Engine {
	return s.engine
}

// Simulator returns the simulator that schedules the tasks.
func (s *Simulation) Simulator() *cosim.Simulator {
	return s.simulator
}

// DataRecorder returns the recorder, or nil when recording is off.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor, or nil when monitoring is off.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Run handles events until end, or until none is pending when end is Never.
func (s *Simulation) Run(end timing.VTimeInMs) error {
	if end.IsNever() {
		return s.simulator.Run()
	}

	return s.simulator.RunUntil(end)
}

// Summary describes a finished run.
type Summary struct {
	ID             string
	Time           timing.VTimeInMs
	ContinuousTime timing.VTimeInMs
	Horizon        timing.VTimeInMs
	StepsRun       uint64
	Pending        int
	EventsByKind   map[string]uint64
	Kinds          []string
	MaxLag         timing.VTimeInMs
	AverageLag     timing.VTimeInMs
	Recorded       uint64
}

// Summary reports the state of the run.
func (s *Simulation) Summary() Summary {
	status := s.simulator.Status()

	summary := Summary{
		ID:             s.id,
		Time:           status.Time,
		ContinuousTime: status.ContinuousTime,
		Horizon:        status.Horizon,
		StepsRun:       s.engine.StepsRun(),
		Pending:        len(status.Pending),
		EventsByKind:   make(map[string]uint64),
		Kinds:          s.kindCounter.Kinds(),
		MaxLag:         s.syncLag.MaxLag(),
		AverageLag:     s.syncLag.AverageLag(),
	}

	for _, kind := range summary.Kinds {
		summary.EventsByKind[kind] = s.kindCounter.Count(kind)
	}

	if s.activations != nil {
		summary.Recorded = s.activations.Count()
	}

	return summary
}

// Terminate writes the end of the run, closes the recording and stops the
// monitoring server. It can be called more than once.
func (s *Simulation) Terminate() {
	if s.terminated {
		return
	}

	s.terminated = true

	if s.execRecorder != nil {
		s.execRecorder.End()
	}

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close recording")
		}
	}

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.progress)

		if err := s.monitor.StopServer(); err != nil {
			s.logger.WithError(err).Error("Failed to stop monitoring server")
		}
	}
}
