package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// LanguageMiddleware resolves the response language from ?lang=, the
// language cookie, then Accept-Language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.resolveLanguage(c)
	if c.Cookies(languageCookieName) != language {
		handler.setLanguageCookie(c, language)
	}
	return c.Next()
}

// resolveLanguage stores the request language and its catalog in locals.
func (handler *Handler) resolveLanguage(c *fiber.Ctx) string {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}
	if queryLanguage := c.Query("lang"); queryLanguage != "" && handler.i18n.IsSupported(queryLanguage) {
		language = handler.i18n.NormalizeLanguage(queryLanguage)
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return language
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().AddDate(1, 0, 0),
	})
}
