package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	log "github.com/freundallein/blogs/backend/chassis/logging"

	"github.com/freundallein/blogs/backend/catalog"
	"github.com/freundallein/blogs/backend/chassis/metrics"
)

// Config ...
type Config struct {
	Catalog *catalog.Catalog
	Metrics *metrics.Collector

	Addr        string
	MetricsAddr string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewRouter wires the blog endpoints. collector may be nil.
func NewRouter(cat *catalog.Catalog, collector *metrics.Collector) *mux.Router {
	h := NewHandlers(cat)
	router := mux.NewRouter()
	router.Use(RequestID, AccessLog(collector), Recovery)
	// top-ten goes first so it is not taken for an id.
	router.HandleFunc("/blogs/top-ten", h.TopTen).Methods(http.MethodGet)
	router.HandleFunc("/blogs/{id}", h.GetBlog).Methods(http.MethodGet)
	router.HandleFunc("/blogs", h.ListBlogs).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	// mux skips Use middleware for unmatched requests.
	router.NotFoundHandler = Chain(http.HandlerFunc(NotFound), collector)
	router.MethodNotAllowedHandler = Chain(http.HandlerFunc(MethodNotAllowed), collector)
	return router
}

// Run binds the api (and metrics, if configured) listeners and serves until ctx is done.
// Listener errors are returned before any goroutine is started.
func Run(ctx context.Context, cfg *Config, group *sync.WaitGroup) (net.Addr, error) {
	apiListener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	var metricsListener net.Listener
	if cfg.MetricsAddr != "" && cfg.Metrics != nil {
		metricsListener, err = net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			apiListener.Close()
			return nil, err
		}
	}
	if cfg.Metrics != nil {
		cfg.Metrics.CatalogSize.Set(float64(cfg.Catalog.Count()))
	}

	srv := &http.Server{
		Handler:      NewRouter(cfg.Catalog, cfg.Metrics),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	group.Add(1)
	go serve(ctx, "api", srv, apiListener, cfg.ShutdownTimeout, group)

	if metricsListener != nil {
		router := mux.NewRouter()
		router.Handle("/metrics", cfg.Metrics.Handler())
		metricsSrv := &http.Server{Handler: router}
		group.Add(1)
		go serve(ctx, "metrics", metricsSrv, metricsListener, cfg.ShutdownTimeout, group)
	}
	log.WithFields(log.Fields{
		"event": "start_service",
		"addr":  apiListener.Addr().String(),
	}).Info("serving ", cfg.Catalog.Count(), " blogs")
	return apiListener.Addr(), nil
}

func serve(ctx context.Context, name string, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, group *sync.WaitGroup) {
	defer group.Done()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithFields(log.Fields{
				"event":  "serve_failed",
				"server": name,
			}).Error(err)
		}
	}()
	select {
	case <-ctx.Done():
	case <-done:
		return
	}
	log.WithFields(log.Fields{
		"event":  "ctx_canceled",
		"server": name,
	}).Info("shutting down")
	shutdownCtx := context.Background()
	if shutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, shutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithFields(log.Fields{
			"event":  "shutdown_failed",
			"server": name,
		}).Error(err)
	}
	<-done
}
