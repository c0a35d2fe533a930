package carousel

import (
	"time"

	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/types"
)

// Option configures a Carousel at construction.
type Option func(*options)

type options struct {
	id          string
	items       []types.Item
	activeIndex int
	loop        bool
	autoPlay    bool
	interval    time.Duration
	clock       Clock
	logger      logging.Logger
	listeners   []Listener
}

func defaultOptions() options {
	return options{
		interval: DefaultInterval,
		clock:    RealClock(),
		logger:   logging.NewNopLogger(),
	}
}

// WithID names the carousel in log output.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithItems sets the initial item collection.
func WithItems(items []types.Item) Option {
	return func(o *options) { o.items = items }
}

// WithActiveIndex sets the initial current index. Out-of-range values are
// ignored and the carousel starts at 0.
func WithActiveIndex(index int) Option {
	return func(o *options) { o.activeIndex = index }
}

// WithLoop enables wraparound navigation.
func WithLoop(loop bool) Option {
	return func(o *options) { o.loop = loop }
}

// WithAutoPlay enables the autoplay scheduler.
func WithAutoPlay(enabled bool) Option {
	return func(o *options) { o.autoPlay = enabled }
}

// WithInterval sets the autoplay period. Values below MinInterval are raised
// to MinInterval.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithClock replaces the time source, mainly for tests.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger used for state machine transitions.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithListener registers a listener before the carousel starts.
func WithListener(l Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}
