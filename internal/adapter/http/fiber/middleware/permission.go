package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// RequirePermission must run after AuthRequired.
func RequirePermission(rbac ports.RBACService, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.Unauthorized("Not authorized to access this route")
		}
		if !rbac.CheckPermission(c.UserContext(), user.Role, resource, action) {
			return domain.Forbidden("You do not have permission to perform this action")
		}
		return c.Next()
	}
}
