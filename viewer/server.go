package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devskill-org/skyview/ephemeris"
	"github.com/devskill-org/skyview/skyplot"
	"github.com/devskill-org/skyview/utils"
)

// WebServer is the display surface: it serves the rendered chart, the position
// snapshot and a small page showing both
type WebServer struct {
	server          *http.Server
	port            int
	shutdownTimeout time.Duration
	startTime       time.Time
	upgrader        websocket.Upgrader
	clients         sync.Map
	logger          *log.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	// Figure.Encode draws into the shared plots, so on-demand encodes are serialised
	encodeMu sync.Mutex
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version,omitempty"`
	Uptime      string `json:"uptime"`
	HasSnapshot bool   `json:"has_snapshot"`
	Clients     int    `json:"clients"`
}

// ObserverResponse describes the observer of a snapshot
type ObserverResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Time      string  `json:"time"`
}

// SnapshotResponse is the JSON form of a snapshot, sent on /api/position and over the websocket
type SnapshotResponse struct {
	Type       string             `json:"type"`
	Observer   ObserverResponse   `json:"observer"`
	Provider   string             `json:"provider"`
	Sun        ephemeris.Position `json:"sun"`
	Moon       ephemeris.Position `json:"moon"`
	Day        ephemeris.DayInfo  `json:"day"`
	RenderedAt string             `json:"rendered_at"`
}

// NewWebServer creates a viewer listening on port
func NewWebServer(port int, shutdownTimeout time.Duration, logger *log.Logger) *WebServer {
	if logger == nil {
		logger = log.Default()
	}

	ws := &WebServer{
		port:            port,
		shutdownTimeout: shutdownTimeout,
		startTime:       time.Now(),
		logger:          logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local viewer only
			},
		},
	}

	ws.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      ws.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return ws
}

// Handler returns the HTTP routes of the viewer
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", ws.healthHandler)
	mux.HandleFunc("/api/position", ws.positionHandler)
	mux.HandleFunc("/api/sky", ws.skyHandler)
	mux.HandleFunc("/api/ws", ws.wsHandler)
	mux.HandleFunc("/", ws.pageHandler)
	return mux
}

// SetSnapshot replaces the snapshot served by the viewer
func (ws *WebServer) SetSnapshot(snap *Snapshot) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.snapshot = snap
}

func (ws *WebServer) getSnapshot() *Snapshot {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.snapshot
}

// Show implements Display. It serves snap until ctx is cancelled.
func (ws *WebServer) Show(ctx context.Context, snap *Snapshot) error {
	ws.SetSnapshot(snap)

	ln, err := net.Listen("tcp", ws.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start viewer: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := ws.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ws.logger.Printf("Sky chart available at http://localhost:%d/ (press Ctrl+C to close)", ws.port)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("viewer stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ws.shutdownTimeout)
	defer cancel()
	return ws.Stop(shutdownCtx)
}

// Stop closes websocket clients and shuts the server down
func (ws *WebServer) Stop(ctx context.Context) error {
	ws.clients.Range(func(key, value any) bool {
		if conn, ok := key.(*websocket.Conn); ok {
			conn.Close()
		}
		return true
	})

	return ws.server.Shutdown(ctx)
}

// healthHandler handles the /api/health endpoint
func (ws *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     "1.0.0",
		Uptime:      formatUptime(time.Since(ws.startTime)),
		HasSnapshot: ws.getSnapshot() != nil,
		Clients:     ws.clientCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	if !health.HasSnapshot {
		health.Status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(health); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// positionHandler handles the /api/position endpoint
func (ws *WebServer) positionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := ws.getSnapshot()
	if snap == nil {
		http.Error(w, "No sky snapshot available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(buildSnapshotResponse(snap)); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// skyHandler handles the /api/sky endpoint. The rendered image is served as is,
// other formats are encoded on demand.
func (ws *WebServer) skyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := ws.getSnapshot()
	if snap == nil {
		http.Error(w, "No sky snapshot available", http.StatusServiceUnavailable)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == snap.Format {
		w.Header().Set("Content-Type", skyplot.ContentType(snap.Format))
		w.Write(snap.Image)
		return
	}

	if snap.Figure == nil {
		http.Error(w, "Only "+snap.Format+" is available", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	ws.encodeMu.Lock()
	_, err := snap.Figure.Encode(&buf, format)
	ws.encodeMu.Unlock()
	if err != nil {
		var unsupported *skyplot.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ws.logger.Printf("Failed to encode %s figure: %v", format, err)
		http.Error(w, "Failed to render figure", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", skyplot.ContentType(format))
	w.Write(buf.Bytes())
}

// pageHandler serves the viewer page
func (ws *WebServer) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerPage))
}

// wsHandler handles WebSocket connections. The snapshot is sent once on connect;
// the observation time is fixed so there are no further updates.
func (ws *WebServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Printf("WebSocket upgrade error: %v", err)
		return
	}

	ws.clients.Store(conn, true)
	ws.logger.Printf("New WebSocket client connected. Total clients: %d", ws.clientCount())

	defer func() {
		ws.clients.Delete(conn)
		conn.Close()
		ws.logger.Printf("WebSocket client disconnected. Total clients: %d", ws.clientCount())
	}()

	if snap := ws.getSnapshot(); snap != nil {
		if err := conn.WriteJSON(buildSnapshotResponse(snap)); err != nil {
			ws.logger.Printf("Failed to send snapshot: %v", err)
			return
		}
	}

	// Read messages from client (ping/pong, close)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.logger.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (ws *WebServer) clientCount() int {
	count := 0
	ws.clients.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

func buildSnapshotResponse(snap *Snapshot) SnapshotResponse {
	obs := snap.State.Observer
	return SnapshotResponse{
		Type: "sky_snapshot",
		Observer: ObserverResponse{
			Latitude:  obs.Latitude,
			Longitude: obs.Longitude,
			Time:      utils.FormatUTC(obs.Time),
		},
		Provider:   snap.State.Provider,
		Sun:        snap.State.Sun,
		Moon:       snap.State.Moon,
		Day:        snap.Day,
		RenderedAt: utils.FormatUTC(snap.RenderedAt),
	}
}

// formatUptime formats a duration as a string with seconds rounded to integer
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

const viewerPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sun and Moon</title>
<style>
body { font-family: sans-serif; margin: 1.5em; }
img { max-width: 100%; border: 1px solid #ddd; }
table { border-collapse: collapse; margin-top: 1em; }
td, th { padding: 0.3em 1em; border-bottom: 1px solid #eee; text-align: right; }
</style>
</head>
<body>
<img src="/api/sky" alt="Sun and Moon sky chart">
<p id="observer"></p>
<table>
<thead><tr><th>Body</th><th>Azimuth</th><th>Altitude</th></tr></thead>
<tbody id="positions"></tbody>
</table>
<script>
const proto = location.protocol === "https:" ? "wss://" : "ws://";
const socket = new WebSocket(proto + location.host + "/api/ws");
socket.onmessage = (event) => {
  const snap = JSON.parse(event.data);
  document.getElementById("observer").textContent =
    "Observer " + snap.observer.latitude + ", " + snap.observer.longitude +
    " at " + snap.observer.time + " (" + snap.provider + ")";
  const rows = [snap.sun, snap.moon].map((p) =>
    "<tr><td>" + p.body + "</td><td>" + p.azimuth.toFixed(2) + "°</td><td>" +
    p.altitude.toFixed(2) + "°</td></tr>");
  document.getElementById("positions").innerHTML = rows.join("");
};
</script>
</body>
</html>
`
