package carousel

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects notifications in order.
type recorder struct {
	mu      sync.Mutex
	changes []Event
	clicks  []Event
}

func (r *recorder) OnItemChange(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, e)
}

func (r *recorder) OnItemClick(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, e)
}

func (r *recorder) changeIndexes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.changes))
	for _, e := range r.changes {
		out = append(out, e.Index)
	}
	return out
}

func (r *recorder) changeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func abc() []types.Item {
	return []types.Item{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C"},
	}
}

func newTestCarousel(t *testing.T, opts ...Option) (*Carousel, *recorder, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	rec := &recorder{}
	c := New(append([]Option{WithClock(clock), WithListener(rec)}, opts...)...)
	t.Cleanup(c.Close)
	return c, rec, clock
}

func TestNew_Defaults(t *testing.T) {
	c, _, _ := newTestCarousel(t)

	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, c.Len())
	_, ok := c.CurrentItem()
	assert.False(t, ok)
	assert.Equal(t, Idle, c.SchedulerState())

	snap := c.Snapshot()
	assert.Equal(t, DefaultInterval.Milliseconds(), snap.IntervalMs)
	assert.False(t, snap.Loop)
	assert.False(t, snap.AutoPlay)
}

func TestNew_ActiveIndex(t *testing.T) {
	c, _, _ := newTestCarousel(t, WithItems(abc()), WithActiveIndex(2))
	assert.Equal(t, 2, c.Index())

	out, _, _ := newTestCarousel(t, WithItems(abc()), WithActiveIndex(7))
	assert.Equal(t, 0, out.Index())
}

func TestNext_LoopScenario(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()), WithLoop(true))

	for i := 0; i < 3; i++ {
		assert.True(t, c.Next())
	}

	assert.Equal(t, []int{1, 2, 0}, rec.changeIndexes())
	require.Len(t, rec.changes, 3)
	assert.Equal(t, "b", rec.changes[0].Item.ID)
	assert.Equal(t, "c", rec.changes[1].Item.ID)
	assert.Equal(t, "a", rec.changes[2].Item.ID)
	for _, e := range rec.changes {
		assert.Equal(t, EventItemChange, e.Type)
		assert.Equal(t, SourceNavigation, e.Source)
	}
}

func TestNext_NoLoopAtEnd(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()), WithActiveIndex(2))

	assert.False(t, c.HasNext())
	assert.False(t, c.Next())
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 0, rec.changeCount())
}

func TestPrevious_NoLoopAtStart(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()))

	assert.False(t, c.HasPrevious())
	assert.False(t, c.Previous())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, rec.changeCount())
}

func TestPrevious_LoopWraps(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()), WithLoop(true))

	assert.True(t, c.Previous())
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, []int{2}, rec.changeIndexes())
}

func TestGoToIndex(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()))

	t.Run("out of range is ignored", func(t *testing.T) {
		assert.False(t, c.GoToIndex(5))
		assert.False(t, c.GoToIndex(-1))
		assert.Equal(t, 0, c.Index())
		assert.Equal(t, 0, rec.changeCount())
	})

	t.Run("in range moves and emits", func(t *testing.T) {
		assert.True(t, c.GoToIndex(2))
		assert.Equal(t, 2, c.Index())
		assert.Equal(t, []int{2}, rec.changeIndexes())
	})

	t.Run("current index is a no-op", func(t *testing.T) {
		assert.False(t, c.GoToIndex(2))
		assert.Equal(t, 1, rec.changeCount())
	})
}

func TestEmptyCollectionIsInert(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithLoop(true))

	assert.False(t, c.Next())
	assert.False(t, c.Previous())
	assert.False(t, c.GoToIndex(0))
	assert.False(t, c.HasNext())
	assert.False(t, c.HasPrevious())
	assert.Equal(t, 0, rec.changeCount())
}

func TestSetItems(t *testing.T) {
	t.Run("shrinking clamps the index", func(t *testing.T) {
		c, rec, _ := newTestCarousel(t, WithItems(abc()), WithActiveIndex(2))

		c.SetItems(abc()[:2])
		assert.Equal(t, 1, c.Index())
		item, ok := c.CurrentItem()
		require.True(t, ok)
		assert.Equal(t, "b", item.ID)
		assert.Equal(t, 0, rec.changeCount())
	})

	t.Run("empty resets to zero without notifications", func(t *testing.T) {
		c, rec, _ := newTestCarousel(t, WithItems(abc()), WithActiveIndex(1))

		c.SetItems(nil)
		assert.Equal(t, 0, c.Index())
		_, ok := c.CurrentItem()
		assert.False(t, ok)
		assert.Equal(t, 0, rec.changeCount())
	})

	t.Run("growing keeps the index", func(t *testing.T) {
		c, _, _ := newTestCarousel(t, WithItems(abc()[:2]), WithActiveIndex(1))

		c.SetItems(abc())
		assert.Equal(t, 1, c.Index())
	})

	t.Run("caller slice is copied", func(t *testing.T) {
		items := abc()
		c, _, _ := newTestCarousel(t, WithItems(items))

		items[0].ID = "mutated"
		item, _ := c.CurrentItem()
		assert.Equal(t, "a", item.ID)
	})
}

func TestOnItemClick(t *testing.T) {
	c, rec, _ := newTestCarousel(t, WithItems(abc()))

	c.OnItemClick(abc()[2], 2)

	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, rec.changeCount())
	require.Len(t, rec.clicks, 1)
	assert.Equal(t, EventItemClick, rec.clicks[0].Type)
	assert.Equal(t, "c", rec.clicks[0].Item.ID)
	assert.Equal(t, 2, rec.clicks[0].Index)
}

func TestListenerMayReenter(t *testing.T) {
	clock := newFakeClock()
	var c *Carousel
	calls := 0
	c = New(WithClock(clock), WithItems(abc()), WithListener(ListenerFuncs{
		ItemChange: func(e Event) {
			calls++
			if e.Index == 1 {
				c.Next()
			}
		},
	}))
	defer c.Close()

	done := make(chan struct{})
	go func() {
		c.Next()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener re-entry deadlocked")
	}
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 2, calls)
}

func TestAddListener_Remove(t *testing.T) {
	c, _, _ := newTestCarousel(t, WithItems(abc()), WithLoop(true))
	extra := &recorder{}

	remove := c.AddListener(extra)
	c.Next()
	remove()
	c.Next()

	assert.Equal(t, 1, extra.changeCount())
}

func TestSubscribe(t *testing.T) {
	c, _, _ := newTestCarousel(t, WithItems(abc()))

	events, cancel := c.Subscribe()
	c.Next()
	c.OnItemClick(abc()[0], 0)

	first := <-events
	assert.Equal(t, EventItemChange, first.Type)
	assert.Equal(t, 1, first.Index)
	second := <-events
	assert.Equal(t, EventItemClick, second.Type)

	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.NotPanics(t, cancel)
}

func TestClose(t *testing.T) {
	c, rec, clock := newTestCarousel(t,
		WithItems(abc()), WithAutoPlay(true), WithInterval(time.Second))
	events, _ := c.Subscribe()

	require.Equal(t, Running, c.SchedulerState())
	c.Close()

	assert.Equal(t, Idle, c.SchedulerState())
	assert.Equal(t, 0, clock.Pending())
	_, open := <-events
	assert.False(t, open)

	assert.False(t, c.Next())
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, rec.changeCount())

	assert.NotPanics(t, c.Close)

	late, _ := c.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestSnapshot(t *testing.T) {
	c, _, _ := newTestCarousel(t,
		WithItems(abc()), WithLoop(true), WithAutoPlay(true), WithInterval(1500*time.Millisecond), WithActiveIndex(1))

	snap := c.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, 1, snap.Index)
	assert.True(t, snap.HasNext)
	assert.True(t, snap.HasPrevious)
	assert.True(t, snap.Loop)
	assert.True(t, snap.AutoPlay)
	assert.Equal(t, int64(1500), snap.IntervalMs)
	assert.Equal(t, "running", snap.Scheduler)
	assert.False(t, snap.Paused)

	item, ok := snap.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "b", item.ID)
}

func TestConcurrentNavigation(t *testing.T) {
	c := New(WithItems(abc()), WithLoop(true), WithAutoPlay(true), WithInterval(MinInterval))
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch (i + j) % 4 {
				case 0:
					c.Next()
				case 1:
					c.Previous()
				case 2:
					c.GoToIndex(j % 5)
				default:
					c.SetItems(abc()[:1+j%3])
				}
			}
		}(i)
	}
	wg.Wait()

	snap := c.Snapshot()
	if len(snap.Items) == 0 {
		assert.Equal(t, 0, snap.Index)
	} else {
		assert.Less(t, snap.Index, len(snap.Items))
		assert.GreaterOrEqual(t, snap.Index, 0)
	}
}

func TestConcurrentNavigation_OrderedDelivery(t *testing.T) {
	const workers, steps = 4, 1000
	items := make([]types.Item, workers*steps+1)
	for i := range items {
		items[i] = types.Item{ID: strconv.Itoa(i)}
	}
	c, rec, _ := newTestCarousel(t, WithItems(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < steps; j++ {
				c.Next()
			}
		}()
	}
	wg.Wait()

	indexes := rec.changeIndexes()
	require.Len(t, indexes, workers*steps)
	for i, index := range indexes {
		require.Equal(t, i+1, index, "notification %d delivered out of order", i)
	}
	assert.Equal(t, workers*steps, c.Index())
}

func TestSetLoop_AfterClose(t *testing.T) {
	c, _, _ := newTestCarousel(t, WithItems(abc()))

	c.Close()
	c.SetLoop(true)

	assert.False(t, c.Snapshot().Loop)
}
