package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const (
	localUser     = "user"
	localUserID   = "user_id"
	localUserRole = "user_role"
)

// AuthRequired resolves the session token to an active user or fails with 401/403.
func AuthRequired(service ports.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFrom(c, cookieName)
		if token == "" {
			return domain.Unauthorized("Not authorized to access this route")
		}

		user, err := service.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		setUser(c, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and carries on otherwise.
func OptionalAuth(service ports.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := TokenFrom(c, cookieName); token != "" {
			if user, err := service.Authenticate(c.UserContext(), token); err == nil {
				setUser(c, user)
			}
		}
		return c.Next()
	}
}

// TokenFrom reads a bearer token from the Authorization header, then from the cookie.
func TokenFrom(c *fiber.Ctx, cookieName string) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	return c.Cookies(cookieName)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(localUser).(*domain.User)
	return user
}

func setUser(c *fiber.Ctx, user *domain.User) {
	c.Locals(localUser, user)
	c.Locals(localUserID, user.ID)
	c.Locals(localUserRole, user.Role)
}
