package websocket

import (
	"context"
	"fmt"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
)

// Bridge adapts a carousel to the hub: it executes browser commands and
// relays carousel notifications as broadcast messages.
type Bridge struct {
	carousel *carousel.Carousel
}

// NewBridge creates a bridge for c.
func NewBridge(c *carousel.Carousel) *Bridge {
	return &Bridge{carousel: c}
}

// HandleCommand implements CommandHandler. Navigation that does not move
// the carousel is not an error.
func (b *Bridge) HandleCommand(cmd Command) error {
	switch cmd.Action {
	case ActionNext:
		b.carousel.Next()
	case ActionPrevious:
		b.carousel.Previous()
	case ActionGoTo:
		b.carousel.GoToIndex(cmd.Index)
	case ActionClick:
		items := b.carousel.Items()
		if cmd.Index < 0 || cmd.Index >= len(items) {
			return fmt.Errorf("no item at index %d", cmd.Index)
		}
		b.carousel.OnItemClick(items[cmd.Index], cmd.Index)
	case ActionPointerEnter:
		b.carousel.PointerEnter()
	case ActionPointerLeave:
		b.carousel.PointerLeave()
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
	return nil
}

// Snapshot implements CommandHandler.
func (b *Bridge) Snapshot() carousel.Snapshot {
	return b.carousel.Snapshot()
}

// Start relays carousel notifications to hub until ctx is done or the
// carousel is closed. The subscription is in place when Start returns.
func (b *Bridge) Start(ctx context.Context, hub *Hub) {
	events, cancel := b.carousel.Subscribe()
	go b.relay(ctx, hub, events, cancel)
}

func (b *Bridge) relay(ctx context.Context, hub *Hub, events <-chan carousel.Event, cancel func()) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			msgType := MessageItemChange
			if event.Type == carousel.EventItemClick {
				msgType = MessageItemClick
			}
			ev := event
			hub.Broadcast(Message{Type: msgType, Event: &ev, Timestamp: event.Timestamp})
			if event.Type == carousel.EventItemChange {
				hub.BroadcastState()
			}
		}
	}
}
