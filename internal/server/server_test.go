package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/config"
	carouselerrors "github.com/conneroisu/fluentcarousel/internal/errors"
	"github.com/conneroisu/fluentcarousel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Carousel: config.CarouselConfig{
			ShowIndicators: true,
			ShowControls:   true,
			Size:           "large",
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           0,
			AllowedOrigins: []string{"https://docs.example.com"},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *carousel.Carousel, *httptest.Server) {
	t.Helper()

	c := carousel.New(carousel.WithItems([]types.Item{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Beta"},
		{ID: "c", Title: "Gamma"},
	}))

	s, err := New(testConfig(), c, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s.bridge.Start(ctx, s.hub)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		_ = s.Shutdown(context.Background())
		ts.Close()
		c.Close()
	})

	return s, c, ts
}

func TestNew_RequiresDependencies(t *testing.T) {
	c := carousel.New()
	defer c.Close()

	_, err := New(nil, c, nil)
	require.Error(t, err)
	assert.True(t, carouselerrors.IsType(err, carouselerrors.ErrorTypeServer))

	_, err = New(testConfig(), nil, nil)
	require.Error(t, err)
}

func TestHandleIndex(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, string(body), "fluent-carousel--large")
	assert.Contains(t, string(body), "Alpha")
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleState(t *testing.T) {
	_, c, ts := newTestServer(t)
	c.GoToIndex(2)

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap carousel.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 2, snap.Index)
	assert.False(t, snap.HasNext)
	assert.Len(t, snap.Items, 3)
}

func postCommand(t *testing.T, url, body string, header http.Header) (*http.Response, commandResponse) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url+"/api/command", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out commandResponse
	if resp.StatusCode != http.StatusForbidden {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHandleCommand(t *testing.T) {
	_, c, ts := newTestServer(t)

	resp, out := postCommand(t, ts.URL, `{"action":"next"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.OK)
	assert.Equal(t, 1, out.State.Index)
	assert.Equal(t, 1, c.Index())

	resp, out = postCommand(t, ts.URL, `{"action":"goto","index":7}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.State.Index)
}

func TestHandleCommand_Errors(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, out := postCommand(t, ts.URL, `{"action":"dance"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out.Error, "unknown action")

	resp, out = postCommand(t, ts.URL, `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out.Error, "malformed command")
}

func TestHandleCommand_ForeignOrigin(t *testing.T) {
	_, c, ts := newTestServer(t)

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	resp, _ := postCommand(t, ts.URL, `{"action":"next"}`, header)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, c.Index())
}

func TestCORS_AllowedOrigin(t *testing.T) {
	_, _, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/command", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://docs.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://docs.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHandleHealth(t *testing.T) {
	s, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	require.NoError(t, s.Shutdown(context.Background()))

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocketReceivesItemChange(t *testing.T) {
	_, c, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// The initial state arrives once the hub has registered the client.
	_, _, err = conn.Read(ctx)
	require.NoError(t, err)

	c.Next()

	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)

		var msg struct {
			Type  string          `json:"type"`
			Event *carousel.Event `json:"event"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == "itemChange" {
			require.NotNil(t, msg.Event)
			assert.Equal(t, "b", msg.Event.Item.ID)
			assert.Equal(t, carousel.SourceNavigation, msg.Event.Source)
			return
		}
	}
}

func TestStart_AfterShutdown(t *testing.T) {
	c := carousel.New()
	defer c.Close()

	s, err := New(testConfig(), c, nil)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))

	err = s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already shut down")
}
