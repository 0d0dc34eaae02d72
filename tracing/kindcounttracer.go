package tracing

import "sync"

// KindCountTracer counts the handled events of each kind.
type KindCountTracer struct {
	filter   TaskFilter
	lock     sync.Mutex
	inflight map[string]Task
	kinds    []string
	count    map[string]uint64
}

// NewKindCountTracer creates a new KindCountTracer
func NewKindCountTracer(filter TaskFilter) *KindCountTracer {
	return &KindCountTracer{
		filter:   filter,
		inflight: make(map[string]Task),
		count:    make(map[string]uint64),
	}
}

// Kinds returns the kinds seen, in the order they were first handled.
func (t *KindCountTracer) Kinds() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	kinds := make([]string, len(t.kinds))
	copy(kinds, t.kinds)

	return kinds
}

// Count returns how many events of a kind were handled successfully.
func (t *KindCountTracer) Count(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count[kind]
}

// StartTask notes that a task is being handled.
func (t *KindCountTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflight[task.ID] = task
	t.lock.Unlock()
}

// EndTask counts a task that was started.
func (t *KindCountTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.inflight[task.ID]; !ok {
		return
	}

	delete(t.inflight, task.ID)

	if _, seen := t.count[task.Kind]; !seen {
		t.kinds = append(t.kinds, task.Kind)
	}

	t.count[task.Kind]++
}
