package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	apiRequestLimit  = 120
	apiRequestWindow = time.Minute
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:          apiRequestLimit,
		Expiration:   apiRequestWindow,
		KeyGenerator: requestLimiterKey,
		LimitReached: func(c *fiber.Ctx) error {
			return apiError(c, fiber.StatusTooManyRequests, "too many requests")
		},
	}))

	session := api.Group("/session")
	session.Post("", handler.StartSession)
	session.Delete("", handler.EndSession)

	api.Post("/insights/preview", handler.PreviewInsight)

	checkIns := api.Group("/checkins", handler.SessionRequired)
	checkIns.Get("", handler.ListCheckIns)
	checkIns.Post("", handler.CreateCheckIn)
	checkIns.Get("/summary", handler.CheckInSummary)
	checkIns.Get("/trends", handler.CheckInTrends)

	api.Post("/reports", handler.SessionRequired, handler.AnalyzeReport)

	wearables := api.Group("/wearables", handler.SessionRequired)
	wearables.Get("", handler.ListWearables)
	wearables.Post("/:id/connect", handler.ConnectWearable)
	wearables.Delete("/:id", handler.DisconnectWearable)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
