// Package server runs the operational HTTP sidecar next to the bot:
// health and Prometheus metrics, nothing user-facing.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/immortal-music/mlbbtopup/internal/api"
	"github.com/immortal-music/mlbbtopup/internal/session"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
}

func New(client *mongo.Client, sessions *session.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(5, 10))

	router.GET("/health", Health(client, sessions))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{router: router}
}

func Health(client *mongo.Client, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := api.HealthResponse{Status: "ok", Mongo: "up", Redis: "up"}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			resp.Status = "degraded"
			resp.Mongo = "down"
		}
		if err := sessions.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Redis = "down"
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
