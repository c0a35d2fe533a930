// Package websocket connects showcase browsers to a carousel over
// WebSocket: carousel notifications are broadcast to every client and
// client interactions are forwarded to the carousel.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/fluentcarousel/internal/logging"
)

// Hub handles WebSocket connection management and broadcasting.
//
// Invariants:
//   - clients map access always protected by clientsMutex
//   - a client's send channel is closed exactly once, when it leaves the map
//   - sends to client channels happen under the read lock, so they never race
//     with that close
type Hub struct {
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn

	originValidator OriginValidator
	handler         CommandHandler
	logger          logging.Logger

	pingInterval time.Duration
	idleTimeout  time.Duration

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	isShutdown   atomic.Bool
}

// Liveness defaults. A client is pinged every DefaultPingInterval and evicted
// once it has sent neither a message nor a pong for DefaultIdleTimeout.
const (
	DefaultPingInterval = 54 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithPingInterval sets how often clients are pinged.
func WithPingInterval(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

// WithIdleTimeout sets how long a silent client is kept.
func WithIdleTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.idleTimeout = d
		}
	}
}

// NewHub creates a hub and starts its management goroutine.
//
// Panics if originValidator or handler is nil.
func NewHub(originValidator OriginValidator, handler CommandHandler, logger logging.Logger, opts ...HubOption) *Hub {
	if originValidator == nil {
		panic("websocket.Hub: originValidator cannot be nil")
	}
	if handler == nil {
		panic("websocket.Hub: handler cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	hub := &Hub{
		clients:         make(map[*websocket.Conn]*Client),
		broadcast:       make(chan []byte, 256),
		register:        make(chan *Client, 32),
		unregister:      make(chan *websocket.Conn, 32),
		originValidator: originValidator,
		handler:         handler,
		logger:          logger.WithComponent("websocket"),
		pingInterval:    DefaultPingInterval,
		idleTimeout:     DefaultIdleTimeout,
		ctx:             ctx,
		cancel:          cancel,
	}
	for _, opt := range opts {
		opt(hub)
	}

	go hub.runHub()

	return hub
}

// HandleWebSocket upgrades the request and registers the client.
//
// Responses:
//   - 403 Forbidden: origin rejected
//   - 503 Service Unavailable: hub shut down
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.isShutdown.Load() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if origin != "" && !h.originValidator.IsAllowedOrigin(origin) {
		h.logger.Warn(r.Context(), nil, "websocket connection rejected", "origin", origin, "remote", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origins are validated above
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	client := newClient(conn, time.Now())

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		_ = conn.Close(websocket.StatusServiceRestart, "Server shutting down")
		return
	default:
		_ = conn.Close(websocket.StatusTryAgainLater, "Server busy")
		return
	}

	go h.handleClient(client)
}

func (h *Hub) runHub() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case conn := <-h.unregister:
			h.unregisterClient(conn)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMutex.Lock()
	h.clients[client.conn] = client
	total := len(h.clients)
	h.clientsMutex.Unlock()

	h.logger.Debug(h.ctx, "websocket client connected", "clients", total)

	// New clients start from the current state
	snap := h.handler.Snapshot()
	if data, err := json.Marshal(Message{Type: MessageState, State: &snap, Timestamp: time.Now()}); err == nil {
		h.sendTo(client, data)
	}
}

func (h *Hub) unregisterClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	client, exists := h.clients[conn]
	if exists {
		delete(h.clients, conn)
		close(client.send)
	}
	total := len(h.clients)
	h.clientsMutex.Unlock()

	if exists {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug(h.ctx, "websocket client disconnected", "clients", total)
	}
}

func (h *Hub) broadcastToClients(message []byte) {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer is full, drop it
			go h.requestUnregister(client.conn)
		}
	}
}

func (h *Hub) sendTo(client *Client, message []byte) {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	if _, ok := h.clients[client.conn]; !ok {
		return
	}
	select {
	case client.send <- message:
	default:
	}
}

func (h *Hub) requestUnregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

func (h *Hub) handleClient(client *Client) {
	defer h.requestUnregister(client.conn)

	go h.writeToClient(client)
	h.readFromClient(client)
}

func (h *Hub) readFromClient(client *Client) {
	for {
		// Liveness is enforced by the writer's idle check, so a browser that
		// only listens is not dropped here.
		_, message, err := client.conn.Read(h.ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && h.ctx.Err() == nil {
				h.logger.Debug(h.ctx, "websocket read ended", "error", err.Error())
			}
			return
		}

		client.touch(time.Now())
		h.processClientMessage(client, message)
	}
}

func (h *Hub) writeToClient(client *Client) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	pingTimeout := min(10*time.Second, h.idleTimeout)

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}

			ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, pingTimeout)
			if err := client.conn.Ping(ctx); err == nil {
				client.touch(time.Now())
			}
			cancel()

			if idle := client.idleFor(time.Now()); idle > h.idleTimeout {
				h.logger.Debug(h.ctx, "evicting idle websocket client", "idle", idle.String())
				// Unblocks the reader, which unregisters the client
				_ = client.conn.CloseNow()
				return
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// processClientMessage forwards a command to the handler. Failures are
// reported to the sender only; successes broadcast the new state.
func (h *Hub) processClientMessage(client *Client, message []byte) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		h.replyError(client, fmt.Errorf("malformed command: %w", err))
		return
	}

	if err := h.handler.HandleCommand(cmd); err != nil {
		h.replyError(client, err)
		return
	}

	h.BroadcastState()
}

func (h *Hub) replyError(client *Client, err error) {
	h.logger.Debug(h.ctx, "websocket command rejected", "error", err.Error())
	data, marshalErr := json.Marshal(Message{Type: MessageError, Error: err.Error(), Timestamp: time.Now()})
	if marshalErr != nil {
		return
	}
	h.sendTo(client, data)
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(message Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error(h.ctx, err, "failed to marshal broadcast message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.ctx.Done():
	default:
		h.logger.Warn(h.ctx, nil, "broadcast channel full, dropping message", "type", message.Type)
	}
}

// BroadcastState sends the handler's current snapshot to all clients.
func (h *Hub) BroadcastState() {
	snap := h.handler.Snapshot()
	h.Broadcast(Message{Type: MessageState, State: &snap})
}

// ConnectedClients returns the number of connected clients
func (h *Hub) ConnectedClients() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// Shutdown closes every client connection and stops the hub. It is safe to
// call more than once.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownOnce.Do(func() {
		h.isShutdown.Store(true)
		h.cancel()

		h.clientsMutex.Lock()
		for conn, client := range h.clients {
			close(client.send)
			_ = conn.Close(websocket.StatusGoingAway, "Server shutdown")
		}
		h.clients = make(map[*websocket.Conn]*Client)
		h.clientsMutex.Unlock()

		h.logger.Info(ctx, "websocket hub shut down")
	})

	return nil
}

// IsShutdown returns whether the hub has been shut down
func (h *Hub) IsShutdown() bool {
	return h.isShutdown.Load()
}
