// Package httpapi exposes the engine operations over HTTP. The layer is
// deliberately thin: request parsing and response shaping only, all
// semantics live in pkg/engine.
package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/strata/internal/metrics"
	"github.com/mesh-intelligence/strata/pkg/engine"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// Config holds the HTTP layer settings.
type Config struct {
	Addr        string // listen address, e.g. ":8080"
	PublicURL   string // server URL advertised in the OpenAPI document
	OpenAPIFile string // path to the OpenAPI definition YAML
}

// Server wires the engine operations to routes.
type Server struct {
	engine   *engine.Engine
	cupboard types.Cupboard
	config   Config
	log      zerolog.Logger
	router   *gin.Engine
}

// New builds the server and registers all routes.
func New(eng *engine.Engine, cupboard types.Cupboard, cfg Config, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:   eng,
		cupboard: cupboard,
		config:   cfg,
		log:      log,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery(), s.observe())

	api := s.router.Group("/api")
	api.GET("/asset", s.loadAsset)
	api.POST("/asset", s.saveAsset)
	api.POST("/find", s.find)
	api.GET("/template", s.getTemplate)
	api.GET("/schema", s.getSchema)
	api.GET("/types_for_parent", s.typesForParent)
	api.GET("/openapi.json", s.openAPIDefinition)
	api.GET("/live", s.live)
	api.POST("/rebuild", s.rebuildCaches)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.config.Addr).Msg("serving http api")
	return s.router.Run(s.config.Addr)
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
