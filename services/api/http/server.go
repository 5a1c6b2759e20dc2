package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/views"
	"github.com/02loveslollipop/guardian-views/services/api/config"
	"github.com/02loveslollipop/guardian-views/services/api/db"
)

// ConfigSource reads and edits per-table view configurations.
type ConfigSource interface {
	FetchConfig(ctx context.Context) (map[string]models.ViewConfig, error)
	UpdateConfig(ctx context.Context, table string, vc models.ViewConfig) error
	AddNewTable(ctx context.Context, table string) error
	RemoveTable(ctx context.Context, table string) error
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg       config.Config
	warehouse db.Warehouse
	configs   ConfigSource
	settings  views.Settings
	validate  *validator.Validate
	engine    *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, warehouse db.Warehouse, configs ConfigSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(recoveryMiddleware())
	engine.Use(requestLoggerMiddleware())
	engine.Use(metricsMiddleware())
	engine.Use(corsMiddleware())

	if cfg.RateLimitRPS > 0 {
		engine.Use(rateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	server := &Server{
		cfg:       cfg,
		warehouse: warehouse,
		configs:   configs,
		settings:  views.Settings{AllowedFileExtensions: cfg.AllowedFileExtensions()},
		validate:  validator.New(),
		engine:    engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down REST API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")

	cfgGroup := api.Group("/config")
	if s.cfg.BearerToken != "" {
		cfgGroup.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}
	{
		cfgGroup.GET("", s.handleGetConfig)
		cfgGroup.POST("/new_table/:table", s.handleNewTable)
		cfgGroup.POST("/update_config/:table", s.handleUpdateConfig)
		cfgGroup.POST("/delete_table/:table", s.handleDeleteTable)
	}

	tables := api.Group("/:table")
	{
		tables.GET("/data", s.handleData)
		tables.GET("/map", s.handleMap)
		tables.GET("/gallery", s.handleGallery)
		tables.GET("/alerts", s.handleAlerts)
	}
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
}
