package tracing

import (
	"sync"

	"github.com/sarchlab/cosim/timing"
)

// SyncLagTracer measures how far ahead of each event the continuous engine
// is when the event starts. A negative lag means the engine was behind.
type SyncLagTracer struct {
	filter TaskFilter
	lock   sync.Mutex

	numTasks uint64
	totalLag timing.VTimeInMs
	minLag   timing.VTimeInMs
	maxLag   timing.VTimeInMs
}

// NewSyncLagTracer creates a new SyncLagTracer
func NewSyncLagTracer(filter TaskFilter) *SyncLagTracer {
	return &SyncLagTracer{filter: filter}
}

// StartTask records the lag of a task.
func (t *SyncLagTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	lag := task.ContinuousTime - task.Time

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.numTasks == 0 || lag < t.minLag {
		t.minLag = lag
	}

	if t.numTasks == 0 || lag > t.maxLag {
		t.maxLag = lag
	}

	t.totalLag += lag
	t.numTasks++
}

// EndTask does nothing.
func (t *SyncLagTracer) EndTask(Task) {}

// NumTasks returns the number of tasks measured.
func (t *SyncLagTracer) NumTasks() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.numTasks
}

// MinLag returns the smallest lag, or zero if nothing was measured.
func (t *SyncLagTracer) MinLag() timing.VTimeInMs {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.minLag
}

// MaxLag returns the largest lag, or zero if nothing was measured.
func (t *SyncLagTracer) MaxLag() timing.VTimeInMs {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.maxLag
}

// AverageLag returns the mean lag, or zero if nothing was measured.
func (t *SyncLagTracer) AverageLag() timing.VTimeInMs {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.numTasks == 0 {
		return 0
	}

	return t.totalLag / timing.VTimeInMs(t.numTasks)
}
