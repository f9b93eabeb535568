// Package web provides an HTTP server exposing the bookkeeping data and
// reports as a JSON API.
//
// The server reads and writes one data source opened by the loader. CSV and
// ZIP sources are held in memory and written back after every change; with
// watching enabled they are reloaded when the file changes on disk.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/loader"
	"github.com/robinvdvleuten/bookkeeper/logger"
	"github.com/robinvdvleuten/bookkeeper/report"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool

	// Loader opens the data source. Defaults to a loader without options.
	Loader *loader.Loader

	mu      sync.RWMutex
	source  *loader.Result
	service *report.Service
	config  *report.Config

	// inputFile is the file path passed to New(), used only for loading.
	// After loading, source.Path contains the resolved absolute path.
	inputFile string

	log zerolog.Logger

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, dataFile string) *Server {
	return NewWithVersion(port, dataFile, "", "")
}

func NewWithVersion(port int, dataFile, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		inputFile:  dataFile,
		log:        zerolog.Nop(),
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the data source and serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	s.log = logger.FromContext(ctx)

	if s.inputFile == "" {
		timer.End()
		return fmt.Errorf("data file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load %s", filepath.Base(s.inputFile)))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load data: %w", err)
	}
	loadTimer.End()
	defer s.closeSource()

	if s.WatchEnabled && s.currentSource().Watchable() {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux, err := s.setupRouter()
	setupTimer.End()
	timer.End()

	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) setupRouter() (*http.ServeMux, error) {
	if s.currentSource() == nil {
		return nil, fmt.Errorf("no data source loaded")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.requireWritable(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireWritable(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireWritable(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/reports/balance-sheet", s.handleBalanceSheet)
	mux.HandleFunc("GET /api/reports/income-statement", s.handleIncomeStatement)
	mux.HandleFunc("GET /api/reports/period", s.handlePeriodReport)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux, nil
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "Server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// reload loads or reloads the data source from disk and swaps it in.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reload(ctx context.Context) error {
	ldr := s.Loader
	if ldr == nil {
		ldr = loader.New()
	}

	result, err := ldr.Load(ctx, s.inputFile)
	if err != nil {
		return err
	}
	for _, rowErr := range result.RowErrors {
		s.log.Warn().Err(rowErr).Str("path", result.Path).Msg("skipped unreadable row")
	}

	settings, err := result.Store.Settings(ctx)
	if err != nil {
		_ = result.Store.Close()
		return ledger.NewStorageUnavailableError("read settings", err)
	}
	cfg, err := report.ConfigFromSettings(settings)
	if err != nil {
		_ = result.Store.Close()
		return err
	}

	s.mu.Lock()
	old := s.source
	s.source = result
	s.config = cfg
	s.service = report.NewService(result.Store, report.WithConfig(cfg))
	s.mu.Unlock()

	if old != nil {
		_ = old.Store.Close()
	}
	return nil
}

func (s *Server) currentSource() *loader.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *Server) closeSource() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		_ = s.source.Store.Close()
	}
}

// startWatcher starts a file watcher for the data file. It reloads the data
// and broadcasts SSE events when the file changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	path := s.currentSource().Path

	// Watch the directory: atomic saves replace the file, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	go s.runWatcher(ctx, watcher, path)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Error().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the data and notifies clients.
func (s *Server) handleFileChange(ctx context.Context) {
	if err := s.reload(ctx); err != nil {
		s.log.Error().Err(err).Str("path", s.inputFile).Msg("failed to reload data")
		return
	}

	s.log.Info().Str("path", s.inputFile).Msg("data reloaded")
	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Get flusher for streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	// Send initial connection event
	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
