package carousel

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/types"
)

const subscriberBuffer = 64

// Carousel is the public surface of the navigation engine. All methods are
// safe for concurrent use; mutations are serialized so a manual command and
// an autoplay tick never interleave.
type Carousel struct {
	mu      sync.Mutex
	state   *State
	sched   *scheduler
	hovered bool
	closed  bool
	clock   Clock
	logger  logging.Logger

	// queue holds notifications in mutation order; one goroutine at a time
	// drains it. Both are guarded by mu.
	queue      []Event
	delivering bool

	listenersMu  sync.RWMutex
	listeners    []listenerEntry
	nextListener int

	subsMu sync.RWMutex
	subs   map[chan Event]struct{}
}

type listenerEntry struct {
	id int
	l  Listener
}

// Snapshot is a consistent read of a carousel's state.
type Snapshot struct {
	Items       []types.Item `json:"items"`
	Index       int          `json:"index"`
	HasNext     bool         `json:"hasNext"`
	HasPrevious bool         `json:"hasPrevious"`
	Loop        bool         `json:"loop"`
	AutoPlay    bool         `json:"autoPlay"`
	IntervalMs  int64        `json:"autoPlayInterval"`
	Scheduler   string       `json:"scheduler"`
	Paused      bool         `json:"paused"`
}

// CurrentItem returns the item at Index, if any.
func (s Snapshot) CurrentItem() (types.Item, bool) {
	if s.Index < 0 || s.Index >= len(s.Items) {
		return types.Item{}, false
	}
	return s.Items[s.Index], true
}

// New creates a carousel. When autoplay is enabled and there is more than
// one item the scheduler starts immediately.
func New(opts ...Option) *Carousel {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.WithComponent("carousel")
	if o.id != "" {
		logger = logger.With("carousel_id", o.id)
	}

	c := &Carousel{
		state:  newState(o.items, o.loop, o.autoPlay, o.interval),
		clock:  o.clock,
		logger: logger,
		subs:   make(map[chan Event]struct{}),
	}
	if c.state.inRange(o.activeIndex) {
		c.state.current = o.activeIndex
	}
	c.sched = newScheduler(o.clock, c.tick)

	for _, l := range o.listeners {
		c.AddListener(l)
	}

	c.mu.Lock()
	c.reconcile()
	c.mu.Unlock()

	return c
}

// Next advances to the following item. It reports whether the index moved.
func (c *Carousel) Next() bool {
	return c.navigate((*State).advance)
}

// Previous rewinds to the preceding item. It reports whether the index moved.
func (c *Carousel) Previous() bool {
	return c.navigate((*State).rewind)
}

// GoToIndex jumps to index. Out-of-range indexes are ignored.
func (c *Carousel) GoToIndex(index int) bool {
	return c.navigate(func(s *State) bool { return s.moveTo(index) })
}

func (c *Carousel) navigate(move func(*State) bool) bool {
	c.mu.Lock()
	if c.closed || !move(c.state) {
		c.mu.Unlock()
		return false
	}
	c.enqueue(c.changeEvent(SourceNavigation))
	c.restart()
	c.mu.Unlock()

	c.flush()
	return true
}

// OnItemClick emits an item-click notification. The current index is not
// changed.
func (c *Carousel) OnItemClick(item types.Item, index int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.enqueue(Event{
		Type:      EventItemClick,
		Item:      item,
		Index:     index,
		Source:    SourcePointer,
		Timestamp: c.clock.Now(),
	})
	c.mu.Unlock()

	c.flush()
}

// PointerEnter pauses autoplay while the pointer is over the carousel.
func (c *Carousel) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.hovered {
		return
	}
	c.hovered = true
	if c.sched.stop() {
		c.logger.Debug(context.Background(), "autoplay paused on hover")
	}
}

// PointerLeave ends a hover-pause. The next tick is a full interval away.
// Without a preceding PointerEnter it does nothing.
func (c *Carousel) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.hovered {
		return
	}
	c.hovered = false
	c.restart()
}

// SetItems replaces the collection. The current index is clamped into the
// new range; no notification is emitted.
func (c *Carousel) SetItems(items []types.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	before := c.state.current
	c.state.setItems(items)
	if c.state.current != before {
		c.logger.Debug(context.Background(), "current index clamped",
			"from", before, "to", c.state.current, "items", c.state.Len())
	}
	c.reconcile()
}

// SetLoop changes the wraparound mode.
func (c *Carousel) SetLoop(loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.state.loop = loop
}

// SetAutoPlay enables or disables the scheduler.
func (c *Carousel) SetAutoPlay(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.state.autoPlay = enabled
	c.reconcile()
}

// SetInterval changes the autoplay period. A running scheduler is restarted
// with the new period.
func (c *Carousel) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d = NormalizeInterval(d)
	if c.closed || d == c.state.interval {
		return
	}
	c.state.interval = d
	if c.sched.state == Running {
		c.sched.start(d)
		c.logger.Debug(context.Background(), "autoplay rescheduled", "interval_ms", d.Milliseconds())
	}
}

// syncIndex assigns the current index without notifying anyone and without
// touching the timer. It is the write path for externally owned state.
func (c *Carousel) syncIndex(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.state.inRange(index) {
		return false
	}
	c.state.current = index
	return true
}

// Close stops autoplay and ends all subscriptions. It is safe to call more
// than once; every call after the first is a no-op.
func (c *Carousel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.sched.stop()
	c.mu.Unlock()

	c.subsMu.Lock()
	for ch := range c.subs {
		close(ch)
	}
	c.subs = make(map[chan Event]struct{})
	c.subsMu.Unlock()

	c.logger.Debug(context.Background(), "carousel closed")
}

// CurrentItem returns the current item; ok is false when there are no items.
func (c *Carousel) CurrentItem() (types.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentItem()
}

// Index returns the current index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.current
}

// Len returns the number of items.
func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Len()
}

// Items returns a copy of the collection.
func (c *Carousel) Items() []types.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Items()
}

// HasNext reports whether Next would move.
func (c *Carousel) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.HasNext()
}

// HasPrevious reports whether Previous would move.
func (c *Carousel) HasPrevious() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.HasPrevious()
}

// SchedulerState returns Running while an autoplay timer is live.
func (c *Carousel) SchedulerState() SchedulerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sched.state
}

// Snapshot returns a consistent copy of the carousel's state.
func (c *Carousel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Items:       c.state.Items(),
		Index:       c.state.current,
		HasNext:     c.state.HasNext(),
		HasPrevious: c.state.HasPrevious(),
		Loop:        c.state.loop,
		AutoPlay:    c.state.autoPlay,
		IntervalMs:  c.state.interval.Milliseconds(),
		Scheduler:   c.sched.state.String(),
		Paused:      c.hovered,
	}
}

// AddListener registers l and returns a function that removes it.
func (c *Carousel) AddListener(l Listener) (remove func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	c.nextListener++
	id := c.nextListener
	c.listeners = append(c.listeners, listenerEntry{id: id, l: l})

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		for i, entry := range c.listeners {
			if entry.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribe returns a channel receiving every notification and a function
// that ends the subscription. Events are dropped for a subscriber whose
// buffer is full. The channel is closed by cancel or by Close.
func (c *Carousel) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	c.subsMu.Lock()
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		c.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	return ch, func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
}

// tick is the scheduler callback. Ticks from a cancelled handle are ignored.
func (c *Carousel) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.sched.current(gen) {
		c.mu.Unlock()
		return
	}
	if c.state.advance() {
		c.enqueue(c.changeEvent(SourceAutoPlay))
	}
	c.sched.rearm()
	c.mu.Unlock()

	c.flush()
}

// shouldRun evaluates the Idle -> Running guard. Caller holds c.mu.
func (c *Carousel) shouldRun() bool {
	return !c.closed && !c.hovered && c.state.autoPlay && c.state.Len() > 1
}

// reconcile moves the scheduler to the state the guard demands without
// disturbing a timer that is already running. Caller holds c.mu.
func (c *Carousel) reconcile() {
	run := c.shouldRun()
	switch {
	case run && c.sched.state == Idle:
		c.sched.start(c.state.interval)
		c.logger.Debug(context.Background(), "autoplay started",
			"interval_ms", c.state.interval.Milliseconds(), "items", c.state.Len())
	case !run && c.sched.state == Running:
		c.sched.stop()
		c.logger.Debug(context.Background(), "autoplay stopped",
			"autoplay", c.state.autoPlay, "items", c.state.Len())
	}
}

// restart schedules a brand-new full interval when autoplay should run. Any
// partially elapsed interval is discarded. Caller holds c.mu.
func (c *Carousel) restart() {
	if c.shouldRun() {
		c.sched.start(c.state.interval)
		return
	}
	c.reconcile()
}

// changeEvent builds an item-change event for the current item. Caller holds
// c.mu and has checked the collection is non-empty.
func (c *Carousel) changeEvent(source Source) Event {
	item, _ := c.state.CurrentItem()
	return Event{
		Type:      EventItemChange,
		Item:      item,
		Index:     c.state.current,
		Source:    source,
		Timestamp: c.clock.Now(),
	}
}

// enqueue records a notification. Caller holds c.mu, so queue order is the
// order in which mutations were applied.
func (c *Carousel) enqueue(event Event) {
	c.queue = append(c.queue, event)
}

// flush delivers queued notifications outside c.mu. When another goroutine
// is already delivering it returns at once and that goroutine picks up the
// new events, so listeners never observe two notifications out of order. A
// listener that calls back into the carousel has its own notification
// delivered after it returns.
func (c *Carousel) flush() {
	c.mu.Lock()
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.queue) > 0 {
		event := c.queue[0]
		c.queue[0] = Event{}
		c.queue = c.queue[1:]
		c.mu.Unlock()

		c.dispatch(event)

		c.mu.Lock()
	}

	c.delivering = false
	c.mu.Unlock()
}

func (c *Carousel) dispatch(event Event) {
	c.listenersMu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, entry := range c.listeners {
		listeners = append(listeners, entry.l)
	}
	c.listenersMu.RUnlock()

	for _, l := range listeners {
		switch event.Type {
		case EventItemChange:
			l.OnItemChange(event)
		case EventItemClick:
			l.OnItemClick(event)
		}
	}

	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for ch := range c.subs {
		select {
		case ch <- event:
		default:
			// Skip if channel is full
		}
	}
}
