// Package server exposes scope resolution over HTTP so that tools which cannot
// link the library (build scripts, asset pipelines, browser previews) can ask
// which scope a width falls into and how a path is infixed for it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
)

// DefaultPort is the default port for the resolve server.
const DefaultPort = 9000

// PortRangeStart and PortRangeEnd bound the ports tried when the default is taken.
const (
	PortRangeStart = 9000
	PortRangeEnd   = 9100
)

// ShutdownTimeout bounds how long in-flight requests may take once the server stops.
const ShutdownTimeout = 5 * time.Second

// Server answers resolution queries against a partition that can be swapped at runtime.
type Server struct {
	port   int
	logger *slog.Logger

	mu        sync.RWMutex
	partition *partition.Partition
	separator string
}

// New creates a server for p on port.
func New(p *partition.Partition, separator string, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		port:      port,
		logger:    logger,
		partition: p,
		separator: separator,
	}
}

// SetPartition replaces the partition used for later requests.
func (s *Server) SetPartition(p *partition.Partition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partition = p
}

func (s *Server) snapshot() (*partition.Partition, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partition, s.separator
}

// Port returns the port the server listens on.
func (s *Server) Port() int {
	return s.port
}

// URL returns the full URL of the server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scopes", s.scopesHandler)
	mux.HandleFunc("GET /resolve", s.resolveHandler)
	mux.HandleFunc("GET /infix", s.infixHandler)
	mux.HandleFunc("GET /unfix", s.unfixHandler)
	mux.HandleFunc("GET /__status__", s.statusHandler)
	return noCacheMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("resolve server listening", "url", s.URL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down resolve server")
		return srv.Shutdown(shutdownCtx)
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

type scopeJSON struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   *int   `json:"max"`
}

func toJSON(sc model.Scope) scopeJSON {
	out := scopeJSON{Label: sc.Label, Min: sc.Min}
	if !sc.IsUnbounded() {
		m := sc.Max
		out.Max = &m
	}
	return out
}

func (s *Server) scopesHandler(w http.ResponseWriter, r *http.Request) {
	p, sep := s.snapshot()
	scopes := p.Scopes()
	out := make([]scopeJSON, len(scopes))
	for i, sc := range scopes {
		out[i] = toJSON(sc)
	}
	writeJSON(w, http.StatusOK, map[string]any{"separator": sep, "scopes": out})
}

type resolveJSON struct {
	Index       int               `json:"index"`
	Scope       scopeJSON         `json:"scope"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Ratio       float64           `json:"ratio"`
	Orientation model.Orientation `json:"orientation"`
}

func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	width, err := intParam(r, "width", -1)
	if err != nil || width < 0 {
		writeError(w, http.StatusBadRequest, "width must be a non-negative integer")
		return
	}
	height, err := intParam(r, "height", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "height must be an integer")
		return
	}
	if height <= 0 {
		height = width
	}

	p, _ := s.snapshot()
	i, sc, ok := p.Match(width)
	if !ok {
		writeError(w, http.StatusNotFound, "no scopes defined")
		return
	}
	ratio := model.RatioOf(width, height)
	out := resolveJSON{
		Index:       i,
		Scope:       toJSON(sc),
		Width:       width,
		Height:      height,
		Ratio:       ratio,
		Orientation: model.OrientationOf(ratio),
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) infixHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	width, err := intParam(r, "width", -1)
	if err != nil || width < 0 {
		writeError(w, http.StatusBadRequest, "width must be a non-negative integer")
		return
	}

	p, sep := s.snapshot()
	_, sc, ok := p.Match(width)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"path": partition.Unfix(path, sep, p.Labels())})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"path":  partition.Infix(path, sep, sc.Label, p.Labels()),
		"label": sc.Label,
	})
}

func (s *Server) unfixHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	p, sep := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]string{"path": partition.Unfix(path, sep, p.Labels())})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "running",
		"port":   s.port,
		"scopes": p.Len(),
	})
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// noCacheMiddleware adds headers to prevent caching and allow cross-origin reads.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}
