package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/surveypool/search-api/internal/handler"
	"github.com/surveypool/search-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// CallbackHandler additionally exposes routes the payment processor calls
// back on; those stay outside the authenticated group.
type CallbackHandler interface {
	Handler
	RegisterCallbackRoutes(*gin.RouterGroup)
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	authH     Handler
	catalogH  Handler
	checkoutH CallbackHandler
	searchH   Handler
	statsH    Handler
	h         *handler.Handler
	metrics   *routerMetrics
}

type Config struct {
	RateLimiter middleware.RateLimiterConfig
	CORS        middleware.CORSConfig
	Registry    *prometheus.Registry
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	catalogH Handler,
	checkoutH CallbackHandler,
	searchH Handler,
	statsH Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		authH:     authH,
		catalogH:  catalogH,
		checkoutH: checkoutH,
		searchH:   searchH,
		statsH:    statsH,
		h:         h,
		metrics:   newRouterMetrics(config.Registry),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimiter)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	// Public surface: login, the catalog, and the processor callbacks.
	r.authH.RegisterRoutes(api)

	catalog := api.Group("")
	catalog.Use(middleware.Cache(middleware.CatalogCacheConfig()))
	r.catalogH.RegisterRoutes(catalog)

	r.checkoutH.RegisterCallbackRoutes(api)

	// Everything else requires a bearer token; role checks are attached
	// per route by the handlers.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.checkoutH.RegisterRoutes(protected)
	r.searchH.RegisterRoutes(protected)
	r.statsH.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func newRouterMetrics(reg prometheus.Registerer) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP error responses",
			},
			[]string{"method", "path"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
