package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/signalsender/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Alerts     *AlertHandler
	Recipients *RecipientHandler
	Devices    *DeviceHandler
	WS         *WSHandler
	Health     *HealthHandler
}

// RouterOptions tunes the router
type RouterOptions struct {
	CORSOrigins []string
	// SwaggerFile is the path of swagger.json on disk; empty disables the docs
	SwaggerFile string
}

// NewRouter builds the gin engine with all routes mounted
func NewRouter(h Handlers, opts RouterOptions, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	if opts.SwaggerFile != "" {
		// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
		router.StaticFile("/docs/swagger.json", opts.SwaggerFile)
		url := ginSwagger.URL("/docs/swagger.json")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))
	}

	if h.Health != nil {
		router.GET("/health", h.Health.Check)
	}

	// ==================== API Routes ====================
	api := router.Group("/api")
	{
		// Recipients
		api.POST("/register-email", h.Recipients.Register)
		api.GET("/email", h.Recipients.GetActive)
		api.GET("/recipients", h.Recipients.History)

		// Alerts
		api.POST("/door-alert", h.Alerts.Receive)
		api.GET("/logs", h.Alerts.ListLogs)

		// Device commands
		if h.Devices != nil {
			api.POST("/devices/:deviceId/command", h.Devices.SetCommand)
			api.GET("/devices/:deviceId/command", h.Devices.Poll)
			api.GET("/devices/:deviceId/command/peek", h.Devices.Peek)
		}
	}

	// Hardware-friendly endpoints (no /api prefix)
	router.POST("/door-alert", h.Alerts.Receive)
	if h.Devices != nil {
		router.GET("/devices/:deviceId/command", h.Devices.Poll)
	}

	if h.WS != nil {
		router.GET("/ws", h.WS.HandleWebSocket)
	}

	return router
}
