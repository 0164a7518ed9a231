package routes

import (
	"net/http"

	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/adapter/telemetry"
	"todoapi/internal/core/port"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"
	"todoapi/pkg/middlewares"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
	Tokens      port.TokenIssuer
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, log *logger.Logger, cfg *config.AppConfig, limiter *middleware.RateLimiter) *gin.Engine {
	if gin.Mode() == "" || cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(otelgin.Middleware("todoapi"))
	router.Use(middleware.RequestID())
	router.Use(middlewares.RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if metrics != nil {
		router.Use(telemetry.RequestMetrics(metrics))
	}

	if !cfg.RateLimitEnabled {
		limiter = nil
	}

	registerRoutes(router, handlers, limiter)

	return router
}

// SetupRouterForTests skips telemetry, logging and rate limiting so
// handler tests exercise only the routing contract.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers, nil)

	return router
}

// registerRoutes attaches the limiter per group: before the handlers on the
// public routes (IP-keyed) and after BearerAuth on the todo routes, so the
// limiter sees the authenticated user id and keys the window by it.
func registerRoutes(router *gin.Engine, handlers HandlersConfig, limiter *middleware.RateLimiter) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.AuthHandler != nil {
		public := api.Group("")

		if limiter != nil {
			public.Use(limiter.Middleware())
		}

		public.POST("/register", handlers.AuthHandler.Register)
		public.POST("/login", handlers.AuthHandler.Login)
	}

	if handlers.TodoHandler != nil {
		protected := api.Group("/todos")
		protected.Use(middleware.BearerAuth(handlers.Tokens))

		if limiter != nil {
			protected.Use(limiter.Middleware())
		}

		{
			protected.GET("", handlers.TodoHandler.GetAllTodos)
			protected.POST("", handlers.TodoHandler.CreateTodo)
			protected.GET("/:id", handlers.TodoHandler.GetTodo)
			protected.PUT("/:id", handlers.TodoHandler.UpdateTodo)
			protected.DELETE("/:id", handlers.TodoHandler.DeleteTodo)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
