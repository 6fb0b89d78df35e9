package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service ports.AuthService
	cookie  CookieConfig
	log     *zap.Logger
}

func NewAuthHandler(service ports.AuthService, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		log:     log,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := h.service.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "User registered successfully", result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := h.service.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return respond(c, fiber.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := middleware.TokenFrom(c, h.cookie.Name); token != "" {
		_ = h.service.Logout(c.UserContext(), token)
	}
	c.ClearCookie(h.cookie.Name)
	return respond(c, fiber.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input domain.ForgotPasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := h.service.ForgotPassword(c.UserContext(), input.Email); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password reset email sent", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input domain.ResetPasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := h.service.ResetPassword(c.UserContext(), c.Params("token"), input); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input domain.ChangePasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	user := middleware.CurrentUser(c)
	if err := h.service.ChangePassword(c.UserContext(), user.ID, input); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var update domain.ProfileUpdate
	if err := parseBody(c, &update); err != nil {
		return err
	}
	user, err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, update)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": user})
}
