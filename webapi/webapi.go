// Package webapi exposes a built, measured temporal graph over a read-only
// HTTP API, plus a small HTML summary page. It never mutates the graph.
package webapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/clock"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/tempnet/tempnet/graph"
	"golang.org/x/xerrors"
)

// Config encapsulates the settings for the web API service.
type Config struct {
	// ListenAddr is the address to listen for incoming requests.
	ListenAddr string

	// Clock measures request latency. A fake clock can be injected in
	// tests; if nil, the wall clock is used.
	Clock clock.Clock

	// Logger for request and lifecycle events. If nil, a null logger is
	// used.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = xerrors.Errorf("listen address has not been specified")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(discard)
	}
	return err
}

// Service serves the HTTP view over a temporal graph.
type Service struct {
	tg     *graph.TemporalGraph
	router *mux.Router
	cfg    Config

	// Attribute values originate from untrusted input files; everything
	// rendered into HTML passes through this policy.
	policy *bluemonday.Policy
}

// New creates a new web API service for the given temporal graph.
func New(tg *graph.TemporalGraph, cfg Config) (*Service, error) {
	if tg == nil {
		return nil, xerrors.Errorf("webapi: temporal graph has not been provided")
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("webapi: config validation failed: %w", err)
	}

	svc := &Service{
		tg:     tg,
		cfg:    cfg,
		policy: bluemonday.StrictPolicy(),
	}

	router := mux.NewRouter()
	router.Use(svc.logRequests)
	router.HandleFunc("/", svc.summaryPage).Methods(http.MethodGet)
	router.HandleFunc("/healthz", svc.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", svc.summary).Methods(http.MethodGet)
	api.HandleFunc("/steps/{step}/edges", svc.stepEdges).Methods(http.MethodGet)
	api.HandleFunc("/nodes", svc.nodes).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{id}", svc.node).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{id}/attributes/{name}", svc.nodeAttribute).Methods(http.MethodGet)
	api.HandleFunc("/stats/edges", svc.edgeStats).Methods(http.MethodGet)
	svc.router = router

	return svc, nil
}

// Name implements the service identity used in log fields.
func (svc *Service) Name() string { return "webapi" }

// ServeHTTP implements http.Handler by delegating to the service's router.
func (svc *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

// Run starts the HTTP listener and blocks until the context is cancelled or
// the server fails.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("listen_addr", svc.cfg.ListenAddr).Info("starting web API server")

	srv := &http.Server{
		Addr:    svc.cfg.ListenAddr,
		Handler: svc.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err != nil {
			return xerrors.Errorf("webapi: %w", err)
		}
		return nil
	}
}

// logRequests logs method, path, status and latency of every request.
func (svc *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := svc.cfg.Clock.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		svc.cfg.Logger.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  recorder.status,
			"latency": svc.cfg.Clock.Now().Sub(started).String(),
		}).Info("handled request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
