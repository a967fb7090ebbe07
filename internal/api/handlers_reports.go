package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/services"
)

func (handler *Handler) AnalyzeReport(c *fiber.Ctx) error {
	if !handler.reports.Enabled() {
		return apiError(c, fiber.StatusServiceUnavailable, "report analysis unavailable")
	}

	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.reportLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many requests")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file required")
	}

	file := services.ReportFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if err := services.ValidateReportFile(file); err != nil {
		return reportError(c, err)
	}

	body, err := header.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file required")
	}
	defer body.Close()
	file.Body = body

	handler.reportLimiter.record(limiterKey, now)
	analysis, err := handler.reports.Analyze(c.UserContext(), file)
	if err != nil {
		handler.log.Warn("report analysis failed", "error", err)
		return reportError(c, err)
	}

	if !analysis.Limited {
		analysis.Title = translateOr(currentMessages(c), "report.complete.title", analysis.Title)
		analysis.Description = translateOr(currentMessages(c), "report.complete.description", analysis.Description)
	} else {
		descriptionKey := "report.limited.description"
		if analysis.Extracted {
			descriptionKey = "report.limited_generation.description"
		}
		analysis.Title = translateOr(currentMessages(c), "report.limited.title", analysis.Title)
		analysis.Description = translateOr(currentMessages(c), descriptionKey, analysis.Description)
	}
	return c.JSON(analysis)
}

func reportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidReportType), errors.Is(err, services.ErrEmptyReport):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrReportTooLarge):
		return apiError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrReportUploadFailed):
		return apiError(c, fiber.StatusBadGateway, "file upload failed")
	case errors.Is(err, services.ErrReportAnalysisOffline):
		return apiError(c, fiber.StatusServiceUnavailable, "report analysis unavailable")
	default:
		return apiError(c, fiber.StatusInternalServerError, "report analysis failed")
	}
}
