// Package server wires the gin engine, routes and middleware.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/toni6/taskproc/configs"
	"github.com/toni6/taskproc/delivery/rest"
	"github.com/toni6/taskproc/delivery/rest/middleware"
	"github.com/toni6/taskproc/delivery/websocket"
	"github.com/toni6/taskproc/infrastructure/logger"
)

// Server wraps the gin engine and its http.Server.
type Server struct {
	engine     *gin.Engine
	config     configs.ServerConfig
	httpServer *http.Server
	log        *zap.Logger
}

// New creates an HTTP server serving the REST API and the websocket
// event stream. hub may be nil to disable the stream.
func New(cfg configs.ServerConfig, h *rest.Handler, hub *websocket.Hub) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS())

	s := &Server{
		engine: engine,
		config: cfg,
		log:    logger.Named("server"),
	}
	s.registerRoutes(h, hub)
	return s
}

func (s *Server) registerRoutes(h *rest.Handler, hub *websocket.Hub) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/source", h.LoadSource)
		v1.POST("/source/reload", h.ReloadSource)
		v1.DELETE("/source", h.Clear)

		v1.GET("/view", h.GetView)
		v1.POST("/view/filter", h.ApplyFilter)
		v1.POST("/view/sort", h.ApplySort)
		v1.POST("/view/tag", h.FilterByTag)
		v1.POST("/view/reset", h.ResetView)
		v1.GET("/view/stats", h.GetStats)
		v1.GET("/view/history", h.GetHistory)

		v1.GET("/tasks/:id", h.GetTask)
	}

	if hub != nil {
		s.engine.GET("/ws", hub.HandleWebSocket)
	}
}

// Handler exposes the routed engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address(),
		Handler: s.engine,
	}
	s.log.Info("starting http server", zap.String("addr", s.config.Address()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
