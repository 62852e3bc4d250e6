package middleware

import (
	"errors"
	"strings"

	"loantrack/internal/core/domain"
	"loantrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authenticator resolves an access token into the caller's identity
type Authenticator interface {
	Authenticate(accessToken string) (*domain.Identity, error)
}

// AuthMiddleware requires a valid access token and stores the caller's
// identity in the request locals. Role checks are left to the services.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		identity, err := auth.Authenticate(accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(identityKey, identity)
		c.Locals("userID", identity.UserID)
		c.Locals("role", string(identity.Role))

		return c.Next()
	}
}

// extractToken reads the access token from the cookie, then the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// CurrentIdentity returns the identity set by AuthMiddleware, or nil
func CurrentIdentity(c *fiber.Ctx) *domain.Identity {
	id, _ := c.Locals(identityKey).(*domain.Identity)
	return id
}
