package api

import (
	"github.com/gofiber/fiber/v2"
)

// LanguageMiddleware picks the message language from the language cookie,
// then Accept-Language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if cookieLanguage := c.Cookies(languageCookieName); cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	c.Locals(contextLanguageKey, language)
	return c.Next()
}
