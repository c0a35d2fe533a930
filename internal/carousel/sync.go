package carousel

import (
	"reflect"
	"sync"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/types"
)

// Config is the configuration a parent owns and pushes into a carousel.
// A nil ActiveIndex leaves the current index alone.
type Config struct {
	Items       []types.Item
	ActiveIndex *int
	AutoPlay    bool
	Interval    time.Duration
	Loop        bool
}

// Sync reconciles externally owned values into a Carousel. Each setter is an
// explicit observer hook: the parent calls it when its value changes and the
// carousel's scheduler reacts through its normal transition rules.
//
// Writes made through Sync never emit itemChange, so a parent that listens
// to the carousel and also drives it cannot loop on its own updates.
type Sync struct {
	carousel *Carousel

	mu        sync.Mutex
	last      Config
	lastIndex int
	hasIndex  bool
	// pending is set while lastIndex is outside the collection; it is
	// retried whenever the items change.
	pending bool
}

// NewSync binds a Sync to c, seeded with c's current configuration.
func NewSync(c *Carousel) *Sync {
	snap := c.Snapshot()
	return &Sync{
		carousel: c,
		last: Config{
			Items:    snap.Items,
			AutoPlay: snap.AutoPlay,
			Interval: time.Duration(snap.IntervalMs) * time.Millisecond,
			Loop:     snap.Loop,
		},
	}
}

// SetActiveIndex applies an externally owned index. Repeating the last
// applied value is a no-op. An index outside the current collection is held
// and applied once a later items update brings it into range. It reports
// whether the carousel's index was written.
func (s *Sync) SetActiveIndex(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setActiveIndex(index)
}

func (s *Sync) setActiveIndex(index int) bool {
	if s.hasIndex && s.lastIndex == index && !s.pending {
		return false
	}
	s.lastIndex = index
	s.hasIndex = true
	s.pending = !s.carousel.syncIndex(index)
	return !s.pending
}

// retryPending applies a held index after the collection changed.
func (s *Sync) retryPending() bool {
	if !s.pending {
		return false
	}
	s.pending = !s.carousel.syncIndex(s.lastIndex)
	return !s.pending
}

// SetItems replaces the collection. A held active index that now fits is
// applied.
func (s *Sync) SetItems(items []types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.Items = types.CloneItems(items)
	s.carousel.SetItems(items)
	s.retryPending()
}

// SetAutoPlay enables or disables autoplay.
func (s *Sync) SetAutoPlay(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.AutoPlay = enabled
	s.carousel.SetAutoPlay(enabled)
}

// SetInterval changes the autoplay period.
func (s *Sync) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.Interval = NormalizeInterval(d)
	s.carousel.SetInterval(d)
}

// SetLoop changes the wraparound mode.
func (s *Sync) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.Loop = loop
	s.carousel.SetLoop(loop)
}

// Apply pushes a whole configuration, calling only the hooks whose value
// differs from what was last applied. Items are applied before the active
// index so the index is checked against the new collection. It returns the
// names of the settings that changed.
func (s *Sync) Apply(cfg Config) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	heldApplied := false

	if !reflect.DeepEqual(cfg.Items, s.last.Items) {
		s.last.Items = types.CloneItems(cfg.Items)
		s.carousel.SetItems(cfg.Items)
		heldApplied = s.retryPending()
		changed = append(changed, "items")
	}
	if cfg.Loop != s.last.Loop {
		s.last.Loop = cfg.Loop
		s.carousel.SetLoop(cfg.Loop)
		changed = append(changed, "loop")
	}
	if interval := NormalizeInterval(cfg.Interval); interval != s.last.Interval {
		s.last.Interval = interval
		s.carousel.SetInterval(interval)
		changed = append(changed, "autoPlayInterval")
	}
	if cfg.AutoPlay != s.last.AutoPlay {
		s.last.AutoPlay = cfg.AutoPlay
		s.carousel.SetAutoPlay(cfg.AutoPlay)
		changed = append(changed, "autoPlay")
	}
	indexApplied := cfg.ActiveIndex != nil && s.setActiveIndex(*cfg.ActiveIndex)
	if indexApplied || heldApplied {
		changed = append(changed, "activeIndex")
	}

	return changed
}
