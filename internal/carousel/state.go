package carousel

import (
	"time"

	"github.com/conneroisu/fluentcarousel/internal/types"
)

const (
	// DefaultInterval is the autoplay period used when none is configured.
	DefaultInterval = 3000 * time.Millisecond
	// MinInterval is the shortest autoplay period the scheduler accepts.
	// Shorter or non-positive periods are raised to it.
	MinInterval = 100 * time.Millisecond
)

// NormalizeInterval raises d to MinInterval when it is shorter.
func NormalizeInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// State is the data owned by one carousel. It is not safe for concurrent
// use; Carousel serializes access to it.
//
// Invariant: 0 <= current < len(items) when items is non-empty, and
// current == 0 when it is empty.
type State struct {
	items    []types.Item
	current  int
	loop     bool
	autoPlay bool
	interval time.Duration
}

func newState(items []types.Item, loop, autoPlay bool, interval time.Duration) *State {
	return &State{
		items:    types.CloneItems(items),
		loop:     loop,
		autoPlay: autoPlay,
		interval: NormalizeInterval(interval),
	}
}

// Len returns the number of items.
func (s *State) Len() int { return len(s.items) }

// Index returns the current index.
func (s *State) Index() int { return s.current }

// Loop reports whether navigation wraps at the ends.
func (s *State) Loop() bool { return s.loop }

// AutoPlay reports whether autoplay is enabled.
func (s *State) AutoPlay() bool { return s.autoPlay }

// Interval returns the autoplay period.
func (s *State) Interval() time.Duration { return s.interval }

// CurrentItem returns the current item; ok is false when there are no items.
func (s *State) CurrentItem() (types.Item, bool) {
	if len(s.items) == 0 {
		return types.Item{}, false
	}
	return s.items[s.current], true
}

// HasNext reports whether advancing would change the current item.
func (s *State) HasNext() bool { return HasNext(s.current, len(s.items), s.loop) }

// HasPrevious reports whether rewinding would change the current item.
func (s *State) HasPrevious() bool { return HasPrevious(s.current, len(s.items), s.loop) }

// Items returns a copy of the collection.
func (s *State) Items() []types.Item { return types.CloneItems(s.items) }

func (s *State) setItems(items []types.Item) {
	s.items = types.CloneItems(items)
	s.current = ClampIndex(s.current, len(s.items))
}

// advance moves to the next index and reports whether it changed.
func (s *State) advance() bool {
	return s.moveTo(NextIndex(s.current, len(s.items), s.loop))
}

// rewind moves to the previous index and reports whether it changed.
func (s *State) rewind() bool {
	return s.moveTo(PreviousIndex(s.current, len(s.items), s.loop))
}

// moveTo sets the current index if it is in range and different.
func (s *State) moveTo(index int) bool {
	if index < 0 || index >= len(s.items) || index == s.current {
		return false
	}
	s.current = index
	return true
}

func (s *State) inRange(index int) bool {
	return index >= 0 && index < len(s.items)
}
