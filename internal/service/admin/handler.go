package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// Handler handles user administration requests
type Handler struct {
	service ports.AdminService
}

func NewHandler(service ports.AdminService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the handlers on a router already guarded by
// authentication and the user:manage permission.
func (h *Handler) RegisterRoutes(users fiber.Router) {
	users.Get("/", h.GetUsers)
	users.Get("/admins", h.GetAdmins)
	users.Put("/admin/:id", h.UpdateAdmin)
	users.Put("/admin/:id/password", h.ChangeAdminPassword)
	users.Patch("/:id/status", h.UpdateUserStatus)
	users.Patch("/:id/role", h.UpdateUserRole)
}

// GetUsers handles GET /api/users
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	filter := ports.UserFilter{Search: c.Query("search")}
	if role := c.Query("role"); role != "" {
		filter.Roles = []domain.Role{domain.Role(role)}
	}

	list, err := h.service.GetUsers(c.UserContext(), filter, page(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

// GetAdmins handles GET /api/users/admins
func (h *Handler) GetAdmins(c *fiber.Ctx) error {
	list, err := h.service.GetAdmins(c.UserContext(), c.Query("search"), page(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

// UpdateAdmin handles PUT /api/users/admin/:id
func (h *Handler) UpdateAdmin(c *fiber.Ctx) error {
	var update domain.AdminUpdate
	if err := c.BodyParser(&update); err != nil {
		return domain.BadRequest("Invalid request body")
	}

	user, err := h.service.UpdateAdmin(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin updated successfully",
		"data":    user,
	})
}

// ChangeAdminPassword handles PUT /api/users/admin/:id/password
func (h *Handler) ChangeAdminPassword(c *fiber.Ctx) error {
	var input domain.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return domain.BadRequest("Invalid request body")
	}

	if err := h.service.ChangeAdminPassword(c.UserContext(), c.Params("id"), input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin password changed successfully",
	})
}

// UpdateUserStatus handles PATCH /api/users/:id/status
func (h *Handler) UpdateUserStatus(c *fiber.Ctx) error {
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return domain.BadRequest("Invalid request body")
	}
	if req.IsActive == nil {
		return domain.ValidationFailed(map[string]string{"isActive": "isActive is required"})
	}

	user, err := h.service.UpdateUserStatus(c.UserContext(), callerRole(c), c.Params("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User status updated successfully",
		"data":    user,
	})
}

// UpdateUserRole handles PATCH /api/users/:id/role
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	var req struct {
		Role domain.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return domain.BadRequest("Invalid request body")
	}

	user, err := h.service.UpdateUserRole(c.UserContext(), callerRole(c), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User role updated successfully",
		"data":    user,
	})
}

func page(c *fiber.Ctx) domain.PageQuery {
	return domain.PageQuery{
		Page:  c.QueryInt("page", domain.DefaultPage),
		Limit: c.QueryInt("limit", domain.DefaultLimit),
	}
}

func callerRole(c *fiber.Ctx) domain.Role {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Role
	}
	return domain.RoleGuest
}
