package websocket

import (
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/fluentcarousel/internal/carousel"
)

// Message types sent to the browser.
const (
	MessageItemChange = "itemChange"
	MessageItemClick  = "itemClick"
	MessageState      = "state"
	MessageError      = "error"
)

// Command actions accepted from the browser.
const (
	ActionNext         = "next"
	ActionPrevious     = "previous"
	ActionGoTo         = "goto"
	ActionClick        = "click"
	ActionPointerEnter = "pointerenter"
	ActionPointerLeave = "pointerleave"
)

// Client represents a WebSocket client connection
type Client struct {
	conn *websocket.Conn
	send chan []byte
	// lastActivity is the unix nano time of the last inbound message or pong
	lastActivity atomic.Int64
}

func newClient(conn *websocket.Conn, now time.Time) *Client {
	client := &Client{conn: conn, send: make(chan []byte, 256)}
	client.touch(now)
	return client
}

func (c *Client) touch(now time.Time) {
	c.lastActivity.Store(now.UnixNano())
}

// idleFor reports how long the client has been silent as of now.
func (c *Client) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastActivity.Load()))
}

// Message is sent to every connected browser
type Message struct {
	Type      string             `json:"type"`
	Event     *carousel.Event    `json:"event,omitempty"`
	State     *carousel.Snapshot `json:"state,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Command is a browser interaction forwarded to the carousel
type Command struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// CommandHandler executes commands and reports the resulting state
type CommandHandler interface {
	HandleCommand(cmd Command) error
	Snapshot() carousel.Snapshot
}

// OriginValidator validates WebSocket connection origins
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}
