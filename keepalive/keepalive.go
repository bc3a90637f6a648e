// Package keepalive serves a tiny HTTP endpoint so hosting platforms that probe
// a port keep the bot process running.
package keepalive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const greeting = "Hello, I'm your event sign-up manager!"

// Server is the keep-alive HTTP server.
type Server struct {
	server  *http.Server
	started time.Time
	logger  *zap.Logger
}

// New returns a server listening on addr once Run is called.
func New(addr string, logger *zap.Logger) *Server {
	s := &Server{
		started: time.Now(),
		logger:  logger.Named("keepalive"),
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return router
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(greeting)); err != nil {
		s.logger.Warn("Failed to write greeting.", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"started": humanize.Time(s.started),
	})
	if err != nil {
		s.logger.Warn("Failed to write health check response.", zap.Error(err))
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("Listening.", zap.String("addr", s.server.Addr))
		errs <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("Stopped.")
	return nil
}
