package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type ContactHandler struct {
	service ports.ContactService
	log     *zap.Logger
}

func NewContactHandler(service ports.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

// Create is public; the contact is bound to the caller when OptionalAuth found one.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var input domain.ContactInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var userID string
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	contact, err := h.service.CreateContact(c.UserContext(), input, userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Message sent successfully", contact)
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	list, err := h.service.GetContacts(c.UserContext(), domain.ContactFilter{
		Status: domain.ContactStatus(c.Query("status")),
		Type:   domain.ContactType(c.Query("type")),
		Search: c.Query("search"),
	}, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", list)
}

func (h *ContactHandler) UpdateStatus(c *fiber.Ctx) error {
	var update domain.ContactStatusUpdate
	if err := parseBody(c, &update); err != nil {
		return err
	}
	if update.AssignedTo == nil {
		if user := middleware.CurrentUser(c); user != nil {
			update.AssignedTo = &user.ID
		}
	}

	contact, err := h.service.UpdateContactStatus(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Contact status updated successfully", contact)
}
