package api

import "github.com/gofiber/fiber/v2"

const (
	sessionCookieName  = "lunara_session"
	languageCookieName = "lunara_lang"
	contextProfileKey  = "current_profile"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
)

func currentProfileID(c *fiber.Ctx) (string, bool) {
	profileID, ok := c.Locals(contextProfileKey).(string)
	return profileID, ok && profileID != ""
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, _ := c.Locals(contextMessagesKey).(map[string]string)
	return messages
}
