package router

import (
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/config"
	"github.com/fitri99main/winny-pos-sub002/internal/handler"
	"github.com/fitri99main/winny-pos-sub002/internal/middleware"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"
	"github.com/fitri99main/winny-pos-sub002/internal/service"
	"github.com/fitri99main/winny-pos-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	sessionRepo := repository.NewSessionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	threshold, err := decimal.NewFromString(cfg.VarianceAlertThreshold)
	if err != nil {
		threshold = decimal.NewFromInt(50000)
	}
	sessionSvc := service.NewSessionService(sessionRepo, dispatcher, threshold)
	historySvc := service.NewHistoryService(sessionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	sessionsH := handler.NewSessionsHandler(sessionSvc, historySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		sessions := v1.Group("/sessions")
		{
			// Lifecycle — any authenticated role
			sessions.POST("/open", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Open)
			sessions.POST("/:id/sales", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.RecordSale)
			sessions.POST("/:id/close", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Close)
			sessions.GET("/:id", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Get)

			// History view and destructive actions — supervisor and up
			sessions.GET("", middleware.RequireRole("supervisor", "admin"), sessionsH.History)
			sessions.GET("/export", middleware.RequireRole("supervisor", "admin"), sessionsH.Export)
			sessions.DELETE("/:id", middleware.RequireRole("supervisor", "admin"), sessionsH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
