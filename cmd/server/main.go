package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quocanhngo/signalsender/internal/command"
	"github.com/quocanhngo/signalsender/internal/config"
	"github.com/quocanhngo/signalsender/internal/database"
	"github.com/quocanhngo/signalsender/internal/handler"
	"github.com/quocanhngo/signalsender/internal/logger"
	"github.com/quocanhngo/signalsender/internal/repository"
	"github.com/quocanhngo/signalsender/internal/service"
	"github.com/quocanhngo/signalsender/internal/ws"
	"github.com/quocanhngo/signalsender/pkg/mailer"
)

// @title           Signal Sender API
// @version         1.0
// @description     Door sensor alert ingestion: signal logging, email notification and device commands.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, "signal-sender")
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("❌ Invalid configuration", zap.Error(err))
	}
	if !cfg.EnvFileLoaded {
		zl.Debug("No .env file found, using environment only")
	}
	zl.Info("🚀 Starting Signal Sender", zap.String("env", cfg.App.Env))
	production := cfg.App.Env == "production"

	// ==================== Database ====================
	db, err := database.Open(cfg.DB, production)
	if err != nil {
		zl.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("❌ Failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	zl.Info("✅ Connected to database", zap.String("driver", cfg.DB.Driver))

	// ==================== Run Migrations ====================
	if err := database.Migrate(db, cfg.DB, zl); err != nil {
		zl.Fatal("❌ Failed to migrate database", zap.Error(err))
	}
	zl.Info("✅ Database migrated successfully")

	// ==================== Redis (optional) ====================
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zl.Fatal("❌ Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		zl.Info("✅ Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		zl.Info("Redis not configured, device commands and live feed stay in-process")
	}

	// ==================== Email (SMTP) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
		Timeout:  cfg.Ingest.NotifyTimeout,
	}, zl)

	// ==================== Initialize Layers ====================
	// Repositories
	recipientRepo := repository.NewRecipientRepository(db)
	alertLogRepo := repository.NewAlertLogRepository(db)

	// Device commands
	var store command.Store = command.NewMemoryStore(cfg.Commands.TTL)
	if rdb != nil {
		store = command.NewRedisStore(rdb, cfg.Commands.TTL)
	}
	commandChannel := command.NewChannel(store, zl)

	// WebSocket Hub (Redis Pub/Sub when available)
	hub := ws.NewHub(rdb, zl)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Services
	recipientService := service.NewRecipientService(recipientRepo)
	alertService := service.NewAlertService(alertLogRepo, recipientRepo, mailClient, service.AlertOptions{
		StoreTimeout:  cfg.Ingest.StoreTimeout,
		NotifyTimeout: cfg.Ingest.NotifyTimeout,
		DisplayZone:   cfg.Ingest.DisplayZone,
		BuzzerDevice:  cfg.Ingest.BuzzerDevice,
	}, zl).
		WithEvents(hub).
		WithCommands(commandChannel)

	// ==================== Gin Router ====================
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.Handlers{
		Alerts:     handler.NewAlertHandler(alertService),
		Recipients: handler.NewRecipientHandler(recipientService),
		Devices:    handler.NewDeviceHandler(commandChannel),
		WS:         handler.NewWSHandler(hub, handler.OriginChecker(cfg.CORS.Origins), zl),
		Health:     handler.NewHealthHandler("signal-sender", sqlDB.PingContext, mailClient.Live),
	}, handler.RouterOptions{
		CORSOrigins: cfg.CORS.Origins,
		SwaggerFile: "./docs/swagger.json",
	}, zl)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ Server failed", zap.Error(err))
		}
	}()

	zl.Info("🌐 Signal Sender running", zap.String("addr", "http://0.0.0.0:"+cfg.App.Port))
	zl.Info("📋 API docs", zap.String("url", "http://0.0.0.0:"+cfg.App.Port+"/swagger/index.html"))
	zl.Info("🔌 Live feed", zap.String("url", "ws://0.0.0.0:"+cfg.App.Port+"/ws"))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	hubCancel()
	zl.Info("✅ Server exited gracefully")
}
