package carousel

import (
	"time"

	"github.com/conneroisu/fluentcarousel/internal/types"
)

// EventType distinguishes the notifications a carousel emits.
type EventType string

const (
	EventItemChange EventType = "itemChange"
	EventItemClick  EventType = "itemClick"
)

// Source records what caused a notification.
type Source string

const (
	SourceNavigation Source = "navigation"
	SourceAutoPlay   Source = "autoplay"
	SourcePointer    Source = "pointer"
)

// Event is the payload of an item-change or item-click notification.
type Event struct {
	Type      EventType  `json:"type"`
	Item      types.Item `json:"item"`
	Index     int        `json:"index"`
	Source    Source     `json:"source"`
	Timestamp time.Time  `json:"timestamp"`
}

// Listener receives carousel notifications. Callbacks run on the goroutine
// that caused the event, after the carousel's lock has been released, so a
// listener may call back into the carousel.
type Listener interface {
	OnItemChange(Event)
	OnItemClick(Event)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	ItemChange func(Event)
	ItemClick  func(Event)
}

// OnItemChange implements Listener.
func (l ListenerFuncs) OnItemChange(e Event) {
	if l.ItemChange != nil {
		l.ItemChange(e)
	}
}

// OnItemClick implements Listener.
func (l ListenerFuncs) OnItemClick(e Event) {
	if l.ItemClick != nil {
		l.ItemClick(e)
	}
}
