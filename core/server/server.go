package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bandmate-api/core/cache"
	"bandmate-api/core/config"
	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/core/mailer"
	"bandmate-api/core/middleware"
	"bandmate-api/core/storage"
	"bandmate-api/modules/absence"
	"bandmate-api/modules/auth"
	"bandmate-api/modules/band"
	"bandmate-api/modules/notification"
	"bandmate-api/modules/schedule"
	"bandmate-api/modules/setlist"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires up every dependency and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	mail := mailer.New(cfg.Redis)
	defer mail.Close()

	var store storage.StorageInterface
	if s3Store, err := storage.New(cfg.Storage); err != nil {
		logger.Warn("Storage disabled", "reason", err)
	} else {
		store = s3Store
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware(redisCache)

	// Module wiring. Order matters only where services cross module borders:
	// schedule consumes band membership, the user directory and notifications.
	_, userRepo := auth.Init(e, db, redisCache, mw)
	notifSvc := notification.Init(e, db, mw)
	bandSvc := band.Init(e, db, mw, notifSvc)
	schedule.Init(e, db, mw, bandSvc, notifSvc, mail, userRepo)
	absence.Init(e, db, mw, bandSvc)
	setlist.Init(e, db, mw, bandSvc, store)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Mailer worker drains the email queue in-process.
	worker, mux := mailer.NewWorker(cfg.Redis)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Mailer worker stopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", "error", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
