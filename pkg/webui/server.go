// Package webui serves generated run artifacts for preview and streams
// generation progress events over websocket.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alantheprice/siteforge/pkg/events"
	"github.com/alantheprice/siteforge/pkg/logging"
	"github.com/gorilla/websocket"
)

// PreviewServer resolves /api/preview/<run_id>/<filename> against the
// generated output root.
type PreviewServer struct {
	generatedRoot string
	port          int
	bus           *events.EventBus
	server        *http.Server
	upgrader      websocket.Upgrader
	isRunning     bool
	mutex         sync.RWMutex
}

// NewPreviewServer creates a preview server over the generated root. The
// event bus is optional; without one the websocket feed stays silent.
func NewPreviewServer(generatedRoot string, port int, bus *events.EventBus) *PreviewServer {
	if port == 0 {
		port = 54321
	}
	return &PreviewServer{
		generatedRoot: generatedRoot,
		port:          port,
		bus:           bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
			},
		},
	}
}

// Start runs the server until the context is cancelled.
func (ps *PreviewServer) Start(ctx context.Context) error {
	ps.mutex.Lock()
	if ps.isRunning {
		ps.mutex.Unlock()
		return fmt.Errorf("preview server is already running")
	}
	ps.isRunning = true
	ps.mutex.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/preview/", ps.handlePreview)
	mux.HandleFunc("/api/runs", ps.handleRuns)
	mux.HandleFunc("/ws", ps.handleWebSocket)

	ps.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", ps.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ps.server.Shutdown(shutdownCtx)
	}()

	logging.GetLogger().LogProcessStep(fmt.Sprintf("Preview server listening on http://localhost:%d", ps.port))
	if err := ps.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

// handlePreview serves one artifact from a run directory, with the same
// traversal protection as the persistence layer.
func (ps *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/preview/")
	runID, filename, found := strings.Cut(rest, "/")
	if !found || runID == "" || filename == "" {
		http.Error(w, "expected /api/preview/<run_id>/<filename>", http.StatusBadRequest)
		return
	}

	path, err := ps.resolveArtifact(runID, filename)
	if err != nil {
		logging.GetLogger().LogError(err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}

// handleRuns lists the run IDs present under the generated root.
func (ps *PreviewServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(ps.generatedRoot)
	if err != nil && !os.IsNotExist(err) {
		http.Error(w, "could not list runs", http.StatusInternalServerError)
		return
	}

	runs := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// handleWebSocket streams progress events to a connected client.
func (ps *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if ps.bus == nil {
		http.Error(w, "no event feed available", http.StatusNotFound)
		return
	}

	conn, err := ps.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.GetLogger().LogError(fmt.Errorf("websocket upgrade failed: %w", err))
		return
	}
	defer conn.Close()

	subscriber := fmt.Sprintf("ws_%d", time.Now().UnixNano())
	eventCh := ps.bus.Subscribe(subscriber)
	defer ps.bus.Unsubscribe(subscriber)

	for event := range eventCh {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}

// resolveArtifact validates that the requested file stays inside the
// run's directory.
func (ps *PreviewServer) resolveArtifact(runID, filename string) (string, error) {
	if strings.Contains(runID, "..") || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run ID: %s", runID)
	}
	// Windows clients may send backslash separators, so split on both.
	for _, segment := range strings.FieldsFunc(filename, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return "", fmt.Errorf("security violation: parent traversal rejected: %s", filename)
		}
	}

	path := filepath.Join(ps.generatedRoot, runID, filepath.FromSlash(filename))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact not found: %s/%s", runID, filename)
	}
	return path, nil
}
