package api

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dhima/event-trigger-service/internal/api/handlers"
	"github.com/dhima/event-trigger-service/internal/api/middleware"
	"github.com/dhima/event-trigger-service/internal/logging"
)

// Dependencies are the services the HTTP layer dispatches to.
type Dependencies struct {
	Gate     middleware.TokenResolver
	Auth     handlers.Authenticator
	Users    handlers.UserManager
	Events   handlers.EventManager
	Triggers handlers.Triggerer
	Logs     handlers.LogReader
	Stats    handlers.StatsProvider
	// DB is optional; when nil /health skips the database probe.
	DB handlers.Pinger
}

// NewRouter builds the gin engine with global middleware and all routes.
func NewRouter(logger logging.Logger, deps Dependencies, corsOrigins []string) *gin.Engine {
	router := gin.New()
	zapLogger := logger.Zap()

	// Recovery first so panics in later middleware are caught.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, logger, deps)
	return router
}

func registerRoutes(router *gin.Engine, logger logging.Logger, deps Dependencies) {
	router.GET("/health", handlers.NewHealthHandler(logger, deps.DB).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(logger, deps.Stats).Metrics)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireUser := middleware.Authenticate(deps.Gate, logger)

	authHandler := handlers.NewAuthHandler(logger, deps.Auth)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireUser, authHandler.Me)
	}

	userHandler := handlers.NewUserHandler(logger, deps.Users)
	users := router.Group("/users", requireUser)
	{
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	eventHandler := handlers.NewEventHandler(logger, deps.Events)
	triggerHandler := handlers.NewTriggerHandler(logger, deps.Triggers)
	events := router.Group("/events", requireUser)
	{
		events.POST("/create", eventHandler.CreateEvent)
		events.GET("/all", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.PUT("/:id", eventHandler.UpdateEvent)
		events.DELETE("/:id", eventHandler.DeleteEvent)
		events.POST("/trigger/:id", triggerHandler.TriggerEvent)
	}

	logHandler := handlers.NewLogHandler(logger, deps.Logs)
	logs := router.Group("/logs", requireUser)
	{
		logs.GET("/", logHandler.ListLogs)
		logs.GET("/filter/by/:event_id", logHandler.ListEventLogs)
	}
}
