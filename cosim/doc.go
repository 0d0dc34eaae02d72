// Package cosim keeps a discrete-event scheduler and a fixed-step continuous
// engine in step with each other.
//
// A Simulator owns both clocks and the simulation horizon. Callers schedule
// input presentations, which extend the horizon, and recurring rate
// calculations, which never do. Run and RunUntil then alternate between the
// two clocks: for every event time the continuous engine is first advanced to
// that time, the events are handled, and the engine is advanced again so that
// whatever the handlers set up has settled before the next event is looked
// at.
//
// Everything runs on the caller's goroutine. Handlers must not block.
package cosim
