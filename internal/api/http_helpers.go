package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/i18n"
)

// apiError writes {"error": message}. When the current catalog has a
// translation for the message, it is added as "message".
func apiError(c *fiber.Ctx, status int, message string) error {
	payload := fiber.Map{"error": message}
	key := errorTranslationKey(message)
	if localized := i18n.TranslateMessage(currentMessages(c), key); localized != key {
		payload["message"] = localized
	}
	return c.Status(status).JSON(payload)
}

func errorTranslationKey(message string) string {
	slug := strings.ToLower(strings.TrimSpace(message))
	slug = strings.ReplaceAll(slug, " ", "_")
	return "error." + slug
}

func translate(c *fiber.Ctx, key string) string {
	return i18n.TranslateMessage(currentMessages(c), key)
}
