// Package api exposes the simulation lab over HTTP: solve requests,
// the model and parameter-set catalogs, and run presets.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Server wires the HTTP routes. Solve responses are cached briefly so
// dashboards polling the same scenario do not re-integrate it.
type Server struct {
	engine *gin.Engine
	log    *logrus.Logger
	cache  *cache.Cache
}

func NewServer(log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine: gin.New(),
		log:    log,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api/v1")
	{
		api.GET("/version", s.getVersion)
		api.GET("/models", s.listModels)
		api.GET("/parameter-sets", s.listParameterSets)
		api.GET("/parameter-sets/:name", s.getParameterSet)
		api.GET("/presets", s.listPresets)
		api.POST("/solve", s.solve)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request")
	}
}

// Handler returns the CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(s.engine)
}

// Listen serves until the listener fails.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("api listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
