package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-admin/internal/guard"
)

// CookieName returns the session cookie name for the transport security in use.
func CookieName(secure bool) string {
	if secure {
		return guard.SecureSessionCookie
	}
	return guard.SessionCookie
}

// SetSessionCookie issues the session token to the browser.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName(secure),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookies expires both session cookie variants.
func ClearSessionCookies(c *fiber.Ctx) {
	for _, secure := range []bool{false, true} {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName(secure),
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// TokenFromRequest returns the session token carried by the request, if any.
func TokenFromRequest(c *fiber.Ctx) string {
	return guard.SessionToken(func(name string) string { return c.Cookies(name) })
}
