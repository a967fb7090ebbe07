package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// SetLanguage stores the language preference and echoes what was applied.
func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	handler.setLanguageCookie(c, language)
	return c.JSON(fiber.Map{
		"language":  language,
		"supported": handler.i18n.SupportedLanguages(),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}

// ErrorHandler renders errors raised by fiber itself, such as an oversized
// body, in the same JSON shape as handler errors.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	if currentMessages(c) == nil {
		handler.resolveLanguage(c)
	}

	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		handler.log.Error("unhandled request error", "path", c.Path(), "error", err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	switch fiberErr.Code {
	case fiber.StatusRequestEntityTooLarge:
		return apiError(c, fiberErr.Code, "file too large")
	case fiber.StatusNotFound:
		return apiError(c, fiberErr.Code, "not found")
	}
	return apiError(c, fiberErr.Code, strings.ToLower(fiberErr.Message))
}
