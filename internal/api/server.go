// Package api exposes the calculation engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpgo/actuarial-calculator/internal/cache"
	"github.com/rpgo/actuarial-calculator/internal/calculation"
	"github.com/rpgo/actuarial-calculator/internal/config"
	"github.com/rpgo/actuarial-calculator/internal/log"
)

// Options configures a Server. A nil Cache disables result caching and a nil
// Limiter disables rate limiting.
type Options struct {
	Engine  *calculation.CalculationEngine
	Cache   cache.Cache
	Limiter *ClientLimiter
	Logger  *log.Logger
}

// Server routes HTTP requests to the calculation engine
type Server struct {
	engine  *calculation.CalculationEngine
	parser  *config.InputParser
	cache   cache.Cache
	limiter *ClientLimiter
	logger  *log.Logger
	router  *gin.Engine
	now     func() time.Time
}

// NewServer builds the router and registers every route
func NewServer(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = calculation.NewCalculationEngine()
	}
	if opts.Logger == nil {
		opts.Logger, _ = log.New(log.Config{Level: "error", Component: log.ComponentHTTP})
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:  opts.Engine,
		parser:  config.NewInputParser(),
		cache:   opts.Cache,
		limiter: opts.Limiter,
		logger:  opts.Logger,
		router:  gin.New(),
		now:     time.Now,
	}
	s.router.Use(gin.Recovery(), RequestLogger(s.logger))
	s.RegisterRoutes(s.router)
	return s
}

// Handler returns the HTTP handler for use with http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// RegisterRoutes binds the handlers to the router
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", s.Health)

	api := router.Group("/api/v1")
	if s.limiter != nil {
		api.Use(RateLimit(s.limiter, s.logger.WithComponent(log.ComponentRateLimit)))
	}
	{
		api.GET("/sensitivity/targets", s.ListTargets)
		api.POST("/tvm", s.TVM)
		api.POST("/annuity", s.Annuity)
		api.POST("/bond", s.Bond)
		api.POST("/bond/yield", s.BondYield)
		api.POST("/loan", s.Loan)
		api.POST("/retirement", s.Retirement)
		api.POST("/sensitivity", s.Sensitivity)
		api.POST("/batch", s.Batch)
	}
}
