// Package http provides the JSON API for families, planning periods and
// meal events.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/planning"
)

// Server provides HTTP endpoints for mealplan.
type Server struct {
	echo     *echo.Echo
	manager  *planning.Manager
	gatherer prometheus.Gatherer
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server. A nil gatherer serves the default
// Prometheus registry on /metrics.
func NewServer(manager *planning.Manager, gatherer prometheus.Gatherer, cfg *Config) (*Server, error) {
	if manager == nil {
		return nil, fmt.Errorf("planning manager is required")
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if cfg == nil {
		cfg = &Config{
			Host: constants.DefaultAPIHost,
			Port: constants.DefaultAPIPort,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	})

	s := &Server{
		echo:     e,
		manager:  manager,
		gatherer: gatherer,
		config:   cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/families", s.handleCreateFamily)
	v1.GET("/families/:familyID", s.handleGetFamily)
	v1.GET("/families/:familyID/plannings", s.handleListPlannings)
	v1.POST("/families/:familyID/plannings", s.handleCreatePlanning)
	v1.GET("/families/:familyID/plannings/resolve", s.handleResolvePlanning)
	v1.GET("/families/:familyID/events", s.handleListEvents)
	v1.POST("/families/:familyID/events", s.handleCreateEvent)
	v1.GET("/plannings/:id", s.handleGetPlanning)
	v1.PATCH("/plannings/:id", s.handleUpdatePlanning)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
