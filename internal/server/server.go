package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Custard69/BurnoutZero/internal/auth"
	"github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/ratelimit"
	"github.com/Custard69/BurnoutZero/internal/types"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Scoring is the pipeline surface the handlers invoke.
type Scoring interface {
	Process(ctx context.Context, req types.CheckinRequest) (*types.CheckinRecord, error)
	ProcessPredict(ctx context.Context, req types.PredictRequest) (*types.CheckinRecord, error)
}

// HistoryReader serves the history endpoint.
type HistoryReader interface {
	RecentCheckins(ctx context.Context, userID string, limit int64) ([]types.CheckinRecord, error)
}

// EventReader serves the mirrored calendar event endpoint.
type EventReader interface {
	CalendarEvents(ctx context.Context, userID string) ([]types.CalendarEvent, error)
}

// Pinger reports persistence health for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router needs.
type Deps struct {
	Pipeline Scoring
	History  HistoryReader
	Events   EventReader
	Auth     *auth.Service
	Limiter  *ratelimit.RateLimiter
	Store    Pinger
	Redis    *ratelimit.RedisClient
}

// New builds the gin engine with all routes and middleware wired.
func New(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(requestLogger())
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(securityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}))

	h := &handlers{deps: deps}

	r.GET("/health", h.health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if deps.Limiter != nil {
		api.Use(deps.Limiter.IPRateLimitMiddleware())
	}
	if deps.Auth != nil {
		api.Use(deps.Auth.OptionalAuth())
	}

	api.POST("/checkin", h.checkin)
	api.GET("/checkins", h.checkins)
	api.POST("/predict", h.predict)
	api.GET("/calendar/events", h.calendarEvents)
	api.POST("/session/token", h.sessionToken)

	return r
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("HTTP Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"status_code", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
