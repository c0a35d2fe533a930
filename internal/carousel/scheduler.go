package carousel

import "time"

// SchedulerState is the autoplay state machine's state.
type SchedulerState int

const (
	Idle SchedulerState = iota
	Running
)

// String returns the string representation of the SchedulerState
func (s SchedulerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// scheduler owns at most one live timer handle. A repeating tick is modelled
// as a chain of one-shot timers so every start schedules a full interval.
//
// Each start bumps the generation; a callback carrying an older generation
// belongs to a cancelled handle and must be dropped. This covers a timer
// that fired concurrently with Stop and is waiting on the carousel lock.
//
// The scheduler is not safe for concurrent use; the owning Carousel holds
// its lock around every call, including onTick.
type scheduler struct {
	clock      Clock
	timer      Timer
	generation uint64
	state      SchedulerState
	interval   time.Duration
	onTick     func(generation uint64)
}

func newScheduler(clock Clock, onTick func(uint64)) *scheduler {
	return &scheduler{
		clock:  clock,
		onTick: onTick,
	}
}

// start cancels any live handle and schedules a fresh interval.
func (s *scheduler) start(interval time.Duration) {
	s.cancel()
	s.generation++
	gen := s.generation
	s.interval = NormalizeInterval(interval)
	s.timer = s.clock.AfterFunc(s.interval, func() { s.onTick(gen) })
	s.state = Running
}

// stop moves to Idle. Stopping an idle scheduler is a no-op; the return value
// reports whether a running timer was cancelled.
func (s *scheduler) stop() bool {
	if s.state != Running {
		return false
	}
	s.cancel()
	s.generation++
	s.state = Idle
	return true
}

func (s *scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// current reports whether a tick with this generation belongs to the live
// handle.
func (s *scheduler) current(gen uint64) bool {
	return s.state == Running && gen == s.generation
}

// rearm schedules the next tick of a running scheduler with the same period.
func (s *scheduler) rearm() {
	if s.state == Running {
		s.start(s.interval)
	}
}
