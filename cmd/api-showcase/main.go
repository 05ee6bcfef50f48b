package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/api-showcase/internal/api/http"
	"github.com/i474232898/api-showcase/internal/config"
	"github.com/i474232898/api-showcase/internal/currency"
	"github.com/i474232898/api-showcase/internal/geocoding"
	"github.com/i474232898/api-showcase/internal/github"
	"github.com/i474232898/api-showcase/internal/history"
	"github.com/i474232898/api-showcase/internal/images"
	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/scheduler"
	"github.com/i474232898/api-showcase/internal/upstream"
	"github.com/i474232898/api-showcase/internal/weather"
)

func main() {
	envErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		logger.Log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Component("main")

	if envErr != nil {
		log.Info().Err(envErr).Msg("no .env file loaded")
	}

	// Shared HTTP client for outbound API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	if cfg.OpenWeatherAPIKey == "" {
		log.Warn().Msg(config.OpenWeatherAPIKeyEnv + " is not set; weather lookups will fail until it is")
	}

	store := history.NewMemoryStore(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)

	services := httpapi.Services{
		Weather: weather.NewService(
			upstream.NewClient("openweathermap", httpClient),
			cfg.OpenWeatherBaseURL,
			weather.EnvCredential(config.OpenWeatherAPIKeyEnv),
		),
		Currency:  currency.NewService(upstream.NewClient("exchangerate", httpClient), cfg.ExchangeRateBaseURL),
		Geocoding: geocoding.NewService(upstream.NewClient("geocoding", httpClient), cfg.GeocodingBaseURL, cfg.GoogleMapsAPIKey),
		GitHub:    github.NewService(upstream.NewClient("github", httpClient), cfg.GitHubBaseURL),
		Images:    images.NewService(upstream.NewClient("unsplash", httpClient), cfg.UnsplashBaseURL, cfg.UnsplashAccessKey),
		History:   store,
	}

	sched := scheduler.New(store, cfg.HistoryPruneInterval)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "api-showcase",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "api-showcase",
		})
	})

	httpapi.RegisterRoutes(app, services)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
