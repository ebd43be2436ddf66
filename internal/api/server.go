// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atlas-oracle/internal/common/config"
	"atlas-oracle/internal/common/logger"
	"atlas-oracle/internal/common/observability"
	"atlas-oracle/internal/oracle"
	selectoraclecard "atlas-oracle/internal/workers/oracle/select-oracle-card"
)

// Oracle produces a reading for one survey.
type Oracle interface {
	Execute(ctx context.Context, input *selectoraclecard.Input) (*selectoraclecard.Output, error)
}

// ReadyFunc reports whether dependencies are usable; nil means always ready.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	Config        config.ServerConfig
	Oracle        Oracle
	Catalog       *oracle.Catalog
	Observability *observability.Observability
	Logger        logger.Logger
	Ready         ReadyFunc
}

// Server serves the oracle API plus health and metrics endpoints.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	oracle     Oracle
	catalog    *oracle.Catalog
	obs        *observability.Observability
	logger     logger.Logger
	ready      ReadyFunc
}

func NewServer(opts Options) (*Server, error) {
	if opts.Oracle == nil {
		return nil, errors.New("api: oracle is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = oracle.DefaultCatalog()
	}
	if opts.Observability == nil {
		opts.Observability = &observability.Observability{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	if !opts.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		oracle:  opts.Oracle,
		catalog: opts.Catalog,
		obs:     opts.Observability,
		logger:  opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
		ready:   opts.Ready,
	}
	engine.Use(s.requestMetrics())

	if opts.Config.EnableCORS {
		engine.Use(cors.New(corsConfig(opts.Config.AllowedOrigins)))
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Config.Address(),
		Handler:      engine,
		ReadTimeout:  config.GetDuration(opts.Config.ReadTimeout),
		WriteTimeout: config.GetDuration(opts.Config.WriteTimeout),
	}
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.POST("/oracle", s.handleDraw)
		api.GET("/oracle/cards", s.handleCards)
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"addr": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down", nil)
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
