package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-drift/headless/pkg/events"
)

// Inspector serves an engine's published snapshots over HTTP.
//
// Endpoints (GET only):
//
//	/health            {"status":"ok"}
//	/snapshots         every published snapshot, ordered by id
//	/snapshot?id=ID    the snapshot of one component (404 when unknown)
//	/stats             event counters
//
// Handlers read only the published store, so they never race with Dispatch.
type Inspector struct {
	engine   *Engine
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// StartInspector starts an inspector listening on addr. Use ":0" for an
// ephemeral port and read it back with Addr.
func (e *Engine) StartInspector(addr string) (*Inspector, error) {
	// Bind listener first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("inspector listen: %w", err)
	}

	in := &Inspector{engine: e, listener: listener}
	in.server = &http.Server{Handler: in.Handler()}

	go func() {
		if err := in.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			in.mu.Lock()
			in.server = nil
			in.mu.Unlock()
			fmt.Printf("inspector error: %v\n", err)
		}
	}()
	return in, nil
}

// Handler returns the inspector's routes without starting a server.
func (in *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/snapshots", in.handleSnapshots)
	mux.HandleFunc("/snapshot", in.handleSnapshot)
	mux.HandleFunc("/stats", in.handleStats)
	return mux
}

// NewInspector returns an inspector for e that is not listening. Its
// Handler can be mounted on a host's own server.
func NewInspector(e *Engine) *Inspector {
	return &Inspector{engine: e}
}

// Addr returns the listening address, or nil when not listening.
func (in *Inspector) Addr() net.Addr {
	if in.listener == nil {
		return nil
	}
	return in.listener.Addr()
}

// Port returns the listening TCP port, or 0.
func (in *Inspector) Port() int {
	if tcp, ok := in.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Close gracefully shuts the server down.
func (in *Inspector) Close(ctx context.Context) error {
	in.mu.Lock()
	server := in.server
	in.server = nil
	in.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (in *Inspector) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, in.engine.PublishedAll())
}

func (in *Inspector) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	snap, ok := in.engine.Published(events.ComponentID(id))
	if !ok {
		http.Error(w, fmt.Sprintf("component %q not mounted", id), http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (in *Inspector) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, in.engine.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
