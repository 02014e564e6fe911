package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hannahdaviscrypto/mastic/common"
	"github.com/hannahdaviscrypto/mastic/metrics"
	"go.uber.org/atomic"
)

// RouteRegistrar is implemented by services that add routes to the server.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// ReadinessChecker is implemented by registrars that can stop accepting
// traffic on their own, e.g. a verification server after finalization.
// /readyz reports 503 while any checker returns an error.
type ReadinessChecker interface {
	Ready() error
}

// HTTPServerConfig contains all configuration parameters for the HTTP server.
type HTTPServerConfig struct {
	// ListenAddr is the address and port the HTTP server will listen on.
	ListenAddr string

	// MetricsAddr is the address and port for the metrics server.
	// If empty, metrics server will not be started.
	MetricsAddr string

	// EnablePprof enables the pprof debugging API when true.
	EnablePprof bool

	// Log is the structured logger for server operations.
	Log *slog.Logger

	// DrainDuration is the time to wait after marking server not ready
	// before shutting down, allowing load balancers to detect the change.
	DrainDuration time.Duration

	// GracefulShutdownDuration is the maximum time to wait for in-flight
	// requests to complete during shutdown.
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BaseServer runs the API and metrics listeners of one verification server.
type BaseServer struct {
	cfg      *HTTPServerConfig
	log      *slog.Logger
	drained  atomic.Bool
	checkers []ReadinessChecker

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
}

// New creates a BaseServer serving the routes of every registrar.
func New(cfg *HTTPServerConfig, routeRegistrars ...RouteRegistrar) (*BaseServer, error) {
	metricsSrv, err := metrics.New(common.PackageName, cfg.MetricsAddr)
	if err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	srv := &BaseServer{
		cfg:        cfg,
		log:        log.With("service", common.PackageName, "version", common.Version),
		metricsSrv: metricsSrv,
	}
	for _, registrar := range routeRegistrars {
		if checker, ok := registrar.(ReadinessChecker); ok {
			srv.checkers = append(srv.checkers, checker)
		}
	}

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.createRouter(routeRegistrars),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv, nil
}

// Handler returns the root HTTP handler.
func (srv *BaseServer) Handler() http.Handler {
	return srv.srv.Handler
}

// IsReady reports whether the server accepts traffic: it is not drained and
// no registered service refuses it.
func (srv *BaseServer) IsReady() bool {
	return srv.notReadyReason() == ""
}

func (srv *BaseServer) notReadyReason() string {
	if srv.drained.Load() {
		return "not ready"
	}
	for _, checker := range srv.checkers {
		if err := checker.Ready(); err != nil {
			return err.Error()
		}
	}
	return ""
}

func (srv *BaseServer) createRouter(routeRegistrars []RouteRegistrar) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)

	mux.Group(func(r chi.Router) {
		r.Use(srv.httpLogger)
		for _, registrar := range routeRegistrars {
			registrar.RegisterRoutes(r)
		}
		r.Get("/drain", srv.handleDrain)
		r.Get("/undrain", srv.handleUndrain)
	})

	mux.Get("/livez", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}

	return mux
}

func (srv *BaseServer) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (srv *BaseServer) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "alive")
}

func (srv *BaseServer) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if reason := srv.notReadyReason(); reason != "" {
		writeStatus(w, http.StatusServiceUnavailable, reason)
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func (srv *BaseServer) handleDrain(w http.ResponseWriter, r *http.Request) {
	if srv.drained.Swap(true) {
		writeStatus(w, http.StatusOK, "already draining")
		return
	}
	srv.log.Info("Server marked as not ready")
	writeStatus(w, http.StatusOK, "draining")
}

func (srv *BaseServer) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if !srv.drained.Swap(false) {
		writeStatus(w, http.StatusOK, "already ready")
		return
	}
	srv.log.Info("Server marked as ready")
	writeStatus(w, http.StatusOK, "ready")
}

func (srv *BaseServer) serve(name, addr string, listen func() error) {
	go func() {
		srv.log.Info("Starting "+name, "listenAddress", addr)
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error(name+" failed", "err", err)
		}
	}()
}

func (srv *BaseServer) stop(name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		srv.log.Error("Graceful "+name+" shutdown failed", "err", err)
		return
	}
	srv.log.Info(name + " gracefully stopped")
}

// RunInBackground starts the HTTP and metrics listeners.
func (srv *BaseServer) RunInBackground() {
	if srv.cfg.MetricsAddr != "" {
		srv.serve("metrics server", srv.cfg.MetricsAddr, srv.metricsSrv.ListenAndServe)
	}
	srv.serve("HTTP server", srv.cfg.ListenAddr, srv.srv.ListenAndServe)
}

// Shutdown marks the server not ready, waits out the drain period unless the
// server was already drained, and then stops both listeners.
func (srv *BaseServer) Shutdown() {
	if !srv.drained.Swap(true) && srv.cfg.DrainDuration > 0 {
		srv.log.Info("Draining before shutdown", "duration", srv.cfg.DrainDuration)
		time.Sleep(srv.cfg.DrainDuration)
	}

	srv.stop("HTTP server", srv.srv.Shutdown)
	if srv.cfg.MetricsAddr != "" {
		srv.stop("metrics server", srv.metricsSrv.Shutdown)
	}
}
