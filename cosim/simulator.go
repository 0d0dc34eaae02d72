package cosim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cosim/idgen"
	"github.com/sarchlab/cosim/instrumentation/hooking"
	"github.com/sarchlab/cosim/neuro"
	"github.com/sarchlab/cosim/timing"
)

// DefaultPresentationDuration is used when neither the caller nor the
// simulator configuration sets a presentation duration.
const DefaultPresentationDuration timing.VTimeInMs = 200

// Simulator couples a discrete-event scheduler with a continuous engine.
type Simulator struct {
	clock     *timing.TimestepClock
	scheduler *timing.Scheduler
	context   *SimulationContext
	encoders  *neuro.EncoderRegistry
	logger    logrus.FieldLogger

	defaultDuration timing.VTimeInMs

	isPaused      bool
	isPausedLock  sync.Mutex
	pauseLock     sync.Mutex
	singleRunLock sync.Mutex
}

// An Option customizes a Simulator at configuration time.
type Option func(*options)

type options struct {
	logger          logrus.FieldLogger
	encoders        *neuro.EncoderRegistry
	context         *SimulationContext
	ids             idgen.Generator
	defaultDuration timing.VTimeInMs
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEncoderRegistry sets where rate encoders are resolved and created.
func WithEncoderRegistry(encoders *neuro.EncoderRegistry) Option {
	return func(o *options) { o.encoders = encoders }
}

// WithSimulationContext makes the simulator use an existing context.
func WithSimulationContext(ctx *SimulationContext) Option {
	return func(o *options) { o.context = ctx }
}

// WithIDGenerator sets how scheduled events are named.
func WithIDGenerator(ids idgen.Generator) Option {
	return func(o *options) { o.ids = ids }
}

// WithDefaultPresentationDuration sets the duration of input presentations
// scheduled without one.
func WithDefaultPresentationDuration(d timing.VTimeInMs) Option {
	return func(o *options) { o.defaultDuration = d }
}

// ConfigureScheduling sets the engine up, wraps its time base and returns a
// Simulator with an empty event queue and a zero horizon.
func ConfigureScheduling(
	engine timing.ContinuousEngine,
	opts ...Option,
) (*Simulator, error) {
	o := options{
		logger:          logrus.StandardLogger(),
		ids:             idgen.NewSequential(),
		defaultDuration: DefaultPresentationDuration,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.defaultDuration < 0 {
		return nil, fmt.Errorf("%w: default duration %v",
			ErrInvalidTiming, o.defaultDuration)
	}

	if err := engine.Setup(); err != nil {
		return nil, fmt.Errorf("cosim: setting up continuous engine: %w", err)
	}

	clock, err := timing.NewTimestepClock(engine)
	if err != nil {
		return nil, err
	}

	scheduler := timing.NewSchedulerWithIDGenerator(o.ids)
	scheduler.Initialize()

	if o.context == nil {
		o.context = NewSimulationContext()
	}

	if o.encoders == nil {
		o.encoders = neuro.NewEncoderRegistry(nil)
	}

	s := &Simulator{
		clock:           clock,
		scheduler:       scheduler,
		context:         o.context,
		encoders:        o.encoders,
		logger:          o.logger,
		defaultDuration: o.defaultDuration,
	}

	return s, nil
}

// Clock returns the continuous clock.
func (s *Simulator) Clock() *timing.TimestepClock {
	return s.clock
}

// Scheduler returns the discrete-event scheduler.
func (s *Simulator) Scheduler() *timing.Scheduler {
	return s.scheduler
}

// Context returns the context that holds the horizon.
func (s *Simulator) Context() *SimulationContext {
	return s.context
}

// Encoders returns the registry rate encoders are resolved from.
func (s *Simulator) Encoders() *neuro.EncoderRegistry {
	return s.encoders
}

// AcceptHook registers a hook that fires around every handled event.
func (s *Simulator) AcceptHook(hook hooking.Hook) {
	s.scheduler.AcceptHook(hook)
}

// CurrentTime returns the discrete-event time.
func (s *Simulator) CurrentTime() timing.VTimeInMs {
	return s.scheduler.CurrentTime()
}

// ContinuousTime returns the continuous engine time.
func (s *Simulator) ContinuousTime() timing.VTimeInMs {
	return s.clock.CurrentTime()
}

// Horizon returns the time the simulation is committed to run to.
func (s *Simulator) Horizon() timing.VTimeInMs {
	return s.context.Horizon()
}

// Handle runs a task. The Simulator is the handler of every event it
// schedules.
func (s *Simulator) Handle(event any) error {
	switch task := event.(type) {
	case *InputPresentationTask:
		return s.presentInput(task)
	case *RateCalculationTask:
		return s.calculateRates(task)
	case *SentinelTask:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownTask, event)
	}
}

func (s *Simulator) schedule(task Task, at timing.VTimeInMs) string {
	id := s.scheduler.Schedule(timing.ScheduledEvent{
		Event:   task,
		Time:    at,
		Handler: s,
	})

	s.logger.WithFields(logrus.Fields{
		"id":   id,
		"kind": task.Kind(),
		"at":   float64(at),
	}).Debug("Task scheduled")

	return id
}
