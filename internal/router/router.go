// Package router wires the HTTP routes of the Bliq API.
package router

import (
	"net/http"
	"time"

	"bliq/internal/handlers"
	"bliq/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bliq/internal/docs" // swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Ledger   *handlers.LedgerHandler
	Category *handlers.CategoryHandler
	Advice   *handlers.AdviceHandler
	Activity *handlers.ActivityHandler
}

// Options configures the router.
type Options struct {
	CORSAllowOrigins []string
	MetricsAPIKey    string
	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// New builds the gin engine with middleware and all routes attached.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(cors.New(corsConfig(opts.CORSAllowOrigins)))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/metrics", middleware.MetricsAuthMiddleware(opts.MetricsAPIKey), gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/activity", h.Activity.ListActivity)

	protected.GET("/ledger", h.Ledger.GetLedger)
	protected.GET("/ledger/summary", h.Ledger.GetYearSummary)

	months := protected.Group("/months/:month")
	months.GET("", h.Ledger.GetMonth)
	months.POST("/carry-over/toggle", h.Ledger.ToggleCarryOver)
	months.POST("/advice", h.Advice.GetAdvice)
	months.POST("/transactions", h.Ledger.CreateTransaction)
	months.PUT("/transactions/:id", h.Ledger.UpdateTransaction)
	months.DELETE("/transactions/:id", h.Ledger.DeleteTransaction)
	months.POST("/transactions/:id/confirm", h.Ledger.ConfirmTransaction)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.ListCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
