package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devskill-org/skyview/skyplot"
)

func newTestServer(t *testing.T) (*WebServer, *Snapshot) {
	t.Helper()

	renderer, err := NewSkyRenderer(smallConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewSkyRenderer returned error: %v", err)
	}
	snap, err := renderer.Render(DefaultLatitude, DefaultLongitude, observationTime)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	ws := NewWebServer(0, time.Second, testLogger())
	ws.SetSnapshot(snap)
	return ws, snap
}

func TestHealthHandler(t *testing.T) {
	ws := NewWebServer(0, time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without snapshot, got %d", w.Code)
	}

	ws, _ = newTestServer(t)
	w = httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", health.Status)
	}
	if !health.HasSnapshot {
		t.Error("Expected has_snapshot to be true")
	}
	if health.Uptime == "" {
		t.Error("Expected uptime to be set")
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ws, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestPositionHandler(t *testing.T) {
	ws, snap := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/position", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var resp SnapshotResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Type != "sky_snapshot" {
		t.Errorf("Expected type sky_snapshot, got %s", resp.Type)
	}
	if resp.Observer.Latitude != DefaultLatitude || resp.Observer.Longitude != DefaultLongitude {
		t.Errorf("Unexpected observer %+v", resp.Observer)
	}
	if resp.Observer.Time != "2024-03-20T12:00:00Z" {
		t.Errorf("Expected observation time 2024-03-20T12:00:00Z, got %s", resp.Observer.Time)
	}
	if resp.Sun.Name != "Sun" || resp.Moon.Name != "Moon" {
		t.Errorf("Expected Sun and Moon, got %s and %s", resp.Sun.Name, resp.Moon.Name)
	}
	if resp.Sun.Azimuth != snap.State.Sun.Azimuth || resp.Moon.Altitude != snap.State.Moon.Altitude {
		t.Error("Response positions do not match the snapshot")
	}
}

func TestPositionHandler_NoSnapshot(t *testing.T) {
	ws := NewWebServer(0, time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/position", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestSkyHandler(t *testing.T) {
	ws, snap := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		status      int
		contentType string
		prefix      string
	}{
		{"rendered image", "", http.StatusOK, "image/png", "\x89PNG"},
		{"same format", "?format=png", http.StatusOK, "image/png", "\x89PNG"},
		{"svg on demand", "?format=svg", http.StatusOK, "image/svg+xml", ""},
		{"pdf on demand", "?format=pdf", http.StatusOK, "application/pdf", "%PDF"},
		{"unsupported", "?format=gif", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sky"+tt.query, nil)
			w := httptest.NewRecorder()
			ws.Handler().ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, w.Code)
			}
			if tt.contentType != "" && w.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, w.Header().Get("Content-Type"))
			}
			if tt.prefix != "" && !bytes.HasPrefix(w.Body.Bytes(), []byte(tt.prefix)) {
				t.Errorf("Expected body starting with %q", tt.prefix)
			}
		})
	}

	// The cached image is served as rendered
	req := httptest.NewRequest(http.MethodGet, "/api/sky", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)
	if !bytes.Equal(w.Body.Bytes(), snap.Image) {
		t.Error("Expected the cached image bytes")
	}
}

func TestSkyHandler_NoFigure(t *testing.T) {
	ws := NewWebServer(0, time.Second, testLogger())
	ws.SetSnapshot(&Snapshot{Image: []byte("\x89PNG"), Format: skyplot.FormatPNG})

	req := httptest.NewRequest(http.MethodGet, "/api/sky?format=svg", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPageHandler(t *testing.T) {
	ws, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `src="/api/sky"`) || !strings.Contains(body, "/api/ws") {
		t.Error("Expected page to reference the chart and the websocket")
	}

	req = httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	w = httptest.NewRecorder()
	ws.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestWebSocket_SnapshotOnConnect(t *testing.T) {
	ws, snap := newTestServer(t)

	server := httptest.NewServer(ws.Handler())
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var resp SnapshotResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if resp.Type != "sky_snapshot" {
		t.Errorf("Expected type sky_snapshot, got %s", resp.Type)
	}
	if resp.Provider != snap.State.Provider {
		t.Errorf("Expected provider %s, got %s", snap.State.Provider, resp.Provider)
	}
	if resp.Sun.Altitude != snap.State.Sun.Altitude {
		t.Errorf("Expected Sun altitude %v, got %v", snap.State.Sun.Altitude, resp.Sun.Altitude)
	}
}

func TestWebServer_ShowStopsOnCancel(t *testing.T) {
	ws, snap := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ws.Show(ctx, snap)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Show did not return after cancel")
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{61 * time.Second, "1m1s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h3m4s"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%s): expected %s, got %s", tt.d, tt.want, got)
		}
	}
}
