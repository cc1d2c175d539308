package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/Jake-Garneau/weather-backend/internal/api/http"
	"github.com/Jake-Garneau/weather-backend/internal/config"
	"github.com/Jake-Garneau/weather-backend/internal/logger"
	"github.com/Jake-Garneau/weather-backend/internal/observability"
	"github.com/Jake-Garneau/weather-backend/internal/scheduler"
	"github.com/Jake-Garneau/weather-backend/internal/store"
	"github.com/Jake-Garneau/weather-backend/internal/weather"
	"github.com/Jake-Garneau/weather-backend/internal/weather/providers"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	weatherStore := store.New(db)
	if err := weatherStore.Migrate(); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOneCallProvider(httpClient, cfg.OpenWeatherAPIKey)

	metrics := observability.NewMetrics()
	service := weather.NewService(provider, weatherStore, metrics, log, clockwork.NewRealClock())

	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-backend",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, cfg.Locations)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
