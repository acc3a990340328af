// Package server wires configuration, providers, and middleware into the
// agentfs HTTP service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/config"
	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/logging"
	"github.com/agentfs/agentfs/internal/mention"
	"github.com/agentfs/agentfs/internal/middleware"
	"github.com/agentfs/agentfs/internal/monitoring"
	"github.com/agentfs/agentfs/internal/providers/filesystem"
	"github.com/agentfs/agentfs/internal/service"
	"github.com/agentfs/agentfs/internal/shared/paths"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	router   *gin.Engine
	registry *service.Registry
	hub      *events.Hub
	metrics  *monitoring.Metrics
	httpSrv  *http.Server
}

// New creates a server instance from configuration.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()
	hub := events.NewHub(logger, 256)
	hub.OnDrop(metrics.EventsDropped.Inc)

	// Leave the interface nil when no scopes are configured so mention
	// tokens fail with capability_missing rather than not_found.
	var mentions paths.MentionResolver
	if len(cfg.Paths.Mentions) > 0 {
		mentions = mention.New(cfg.Paths.WorkingDir, cfg.Paths.Mentions)
	}

	fsProvider := filesystem.NewProvider(filesystem.Options{
		WorkingDir:        cfg.Paths.WorkingDir,
		ReadPaths:         cfg.Paths.ReadPaths(),
		UnrestrictedReads: cfg.Paths.UnrestrictedReads,
		WritePaths:        cfg.Paths.WritePaths(),
		DeniedWritePaths:  cfg.Paths.DeniedWrite,
		Mentions:          mentions,
		Emitter:           events.Multi(hub, &artifactMetrics{metrics: metrics}),
		Logger:            logger,
	})

	registry := service.NewRegistry()
	if err := registry.Register(fsProvider); err != nil {
		logger.Fatal("failed to register filesystem provider", zap.Error(err))
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger.Named("server"),
		registry: registry,
		hub:      hub,
		metrics:  metrics,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.RequestID("X-Request-ID"))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", s.root)
	router.GET("/health", s.health)
	router.GET("/services", s.listServices)
	router.POST("/services/discover", s.discoverServices)
	router.POST("/services/execute", s.executeService)
	router.GET("/events/stream", hub.HandleStream)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.router = router
	return s
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.logger.Info("starting server", zap.String("addr", addr))

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	s.hub.Close()
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// artifactMetrics mirrors artifact events into Prometheus counters.
type artifactMetrics struct {
	metrics *monitoring.Metrics
}

func (a *artifactMetrics) Emit(kind events.Kind, path string, bytes int) {
	a.metrics.RecordArtifact(string(kind), bytes)
}
