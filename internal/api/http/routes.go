package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jake-Garneau/weather-backend/internal/store"
	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

// WeatherService is the slice of the orchestrator the HTTP layer needs.
type WeatherService interface {
	LatestCurrent(ctx context.Context, name string) (weather.CurrentReport, error)
	Run(ctx context.Context, locs []weather.Location) []weather.Outcome
}

// ingestOutcome is the per-location result reported by the trigger endpoint.
type ingestOutcome struct {
	Location string `json:"location"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, locations []weather.Location) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		report, err := service.LatestCurrent(c.Context(), city)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(report)
	})

	v1.Post("/ingest/run", func(c *fiber.Ctx) error {
		results := make([]ingestOutcome, 0, len(locations))
		failed := 0
		for _, o := range service.Run(c.Context(), locations) {
			r := ingestOutcome{Location: o.Location.Key(), Status: "ok"}
			if o.Err != nil {
				r.Status = "failed"
				r.Error = o.Err.Error()
				failed++
			}
			results = append(results, r)
		}

		code := fiber.StatusOK
		if failed > 0 {
			code = fiber.StatusBadGateway
		}
		return c.Status(code).JSON(fiber.Map{
			"failed":   failed,
			"outcomes": results,
		})
	})
}
