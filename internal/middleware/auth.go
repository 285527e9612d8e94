package middleware

import (
	"microblog/internal/models"
	"microblog/internal/observability"
	"microblog/internal/token"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// AuthRequired returns a middleware that enforces a valid session cookie on
// protected routes. On success the resolved user ID is stored in
// c.Locals("userID") for downstream handlers. The response body never reveals
// whether the cookie was missing, malformed or expired.
func AuthRequired(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			observability.AuthFailures.WithLabelValues("missing_cookie").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		userID, err := issuer.Verify(tokenString)
		if err != nil {
			observability.AuthFailures.WithLabelValues("invalid_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		// Store user ID in context
		c.Locals("userID", userID)

		return c.Next()
	}
}

// UserID extracts the authenticated user ID placed in the request context by
// AuthRequired. The second return is false when the gate did not run.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
