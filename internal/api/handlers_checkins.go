package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/services"
)

type checkInRequest struct {
	Mood   int    `json:"mood" form:"mood"`
	Energy int    `json:"energy" form:"energy"`
	Sleep  string `json:"sleep" form:"sleep"`
	Date   string `json:"date" form:"date"`
}

func (request checkInRequest) input() services.CheckInInput {
	return services.CheckInInput{
		Mood:   request.Mood,
		Energy: request.Energy,
		Sleep:  request.Sleep,
		Date:   request.Date,
	}
}

func (handler *Handler) CreateCheckIn(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	request := checkInRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result, err := handler.checkIns.Submit(c.UserContext(), profileID, request.input())
	if err != nil {
		return checkInValidationError(c, err)
	}

	response := fiber.Map{
		"entry":     buildHistoryEntryView(c, result.Entry),
		"insight":   buildInsightView(c, result.Insight),
		"labels":    buildCheckInLabels(c, result.Entry.CheckIn()),
		"persisted": result.Persisted,
	}
	status := fiber.StatusCreated
	if !result.Persisted {
		response["warning"] = translate(c, "checkin.not_saved")
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(response)
}

// PreviewInsight classifies without writing anything.
func (handler *Handler) PreviewInsight(c *fiber.Ctx) error {
	request := checkInRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	checkIn, err := services.NormalizeCheckInInput(request.input(), handler.now(), handler.location)
	if err != nil {
		return checkInValidationError(c, err)
	}
	return c.JSON(fiber.Map{
		"insight": buildInsightView(c, services.ClassifyCheckIn(checkIn)),
		"labels":  buildCheckInLabels(c, checkIn),
	})
}

func (handler *Handler) ListCheckIns(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries := make([]historyEntryView, 0)
	for entry := range handler.checkIns.StoreFor(profileID).List(c.UserContext()) {
		entries = append(entries, buildHistoryEntryView(c, entry))
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) CheckInSummary(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(handler.checkIns.Summary(c.UserContext(), profileID))
}

func (handler *Handler) CheckInTrends(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"points": handler.checkIns.Trend(c.UserContext(), profileID)})
}

func checkInValidationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidMood),
		errors.Is(err, services.ErrInvalidEnergy),
		errors.Is(err, services.ErrInvalidSleep),
		errors.Is(err, services.ErrInvalidCheckInDate),
		errors.Is(err, services.ErrFutureCheckInDate):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "storage unavailable")
	}
}
