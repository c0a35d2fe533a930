package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/showcase"
	"github.com/conneroisu/fluentcarousel/internal/version"
	"github.com/conneroisu/fluentcarousel/internal/websocket"
)

// commandResponse is returned by POST /api/command.
type commandResponse struct {
	OK    bool              `json:"ok"`
	Error string            `json:"error,omitempty"`
	State carousel.Snapshot `json:"state"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	templ.Handler(showcase.Page(s.page, s.carousel.Snapshot())).ServeHTTP(w, r)
}

// handleFragment renders only the carousel markup; the page script swaps
// it in after every state broadcast.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	templ.Handler(showcase.Carousel(s.page, s.carousel.Snapshot())).ServeHTTP(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, r, http.StatusOK, s.carousel.Snapshot())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd websocket.Command
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&cmd); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, commandResponse{
			Error: "malformed command: " + err.Error(),
			State: s.carousel.Snapshot(),
		})
		return
	}

	if err := s.bridge.HandleCommand(cmd); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, commandResponse{Error: err.Error(), State: s.carousel.Snapshot()})
		return
	}

	s.hub.BroadcastState()
	s.writeJSON(w, r, http.StatusOK, commandResponse{OK: true, State: s.carousel.Snapshot()})
}

// handleHealth returns the server health status for health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "healthy"
	code := http.StatusOK
	if s.isShutdown.Load() {
		status = "shutting_down"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, r, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"carousel":  map[string]interface{}{"items": s.carousel.Len(), "scheduler": s.carousel.SchedulerState().String()},
			"websocket": map[string]interface{}{"clients": s.hub.ConnectedClients()},
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), err, "failed to encode response", "path", r.URL.Path)
	}
}
