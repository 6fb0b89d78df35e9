package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type EventHandler struct {
	service ports.EventService
	log     *zap.Logger
}

func NewEventHandler(service ports.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{service: service, log: log}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	start, err := parseDate("startDate", c.Query("startDate"))
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", c.Query("endDate"))
	if err != nil {
		return err
	}

	list, err := h.service.GetEvents(c.UserContext(), domain.EventFilter{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		StartDate: start,
		EndDate:   end,
	}, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", list)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	event, err := h.service.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", event)
}

// Create accepts multipart (metadata fields plus "images") or a JSON body.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var input domain.EventInput
	if isMultipart(c) {
		var err error
		if input, err = eventInputFromForm(c); err != nil {
			return err
		}
	} else if err := parseBody(c, &input); err != nil {
		return err
	}

	event, err := h.service.CreateEvent(c.UserContext(), input, middleware.Uploads(c), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	h.log.Info("Event created", zap.String("event_id", event.ID), zap.Int("images", len(event.Images)))
	return respond(c, fiber.StatusCreated, "Event created successfully", event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	var patch domain.EventPatch
	if isMultipart(c) {
		var err error
		if patch, err = eventPatchFromForm(c); err != nil {
			return err
		}
	} else if err := parseBody(c, &patch); err != nil {
		return err
	}

	event, err := h.service.UpdateEvent(c.UserContext(), c.Params("id"), patch, middleware.Uploads(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Event updated successfully", event)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Event deleted successfully", nil)
}

func eventInputFromForm(c *fiber.Ctx) (domain.EventInput, error) {
	input := domain.EventInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		Category:    c.FormValue("category"),
	}
	start, err := parseDate("startDate", c.FormValue("startDate"))
	if err != nil {
		return input, err
	}
	end, err := parseDate("endDate", c.FormValue("endDate"))
	if err != nil {
		return input, err
	}
	if start != nil {
		input.StartDate = *start
	}
	if end != nil {
		input.EndDate = *end
	}
	return input, nil
}

// eventPatchFromForm only sets fields present in the form.
func eventPatchFromForm(c *fiber.Ctx) (domain.EventPatch, error) {
	var patch domain.EventPatch
	optional := func(key string) *string {
		if v := c.FormValue(key); v != "" {
			return &v
		}
		return nil
	}
	patch.Title = optional("title")
	patch.Description = optional("description")
	patch.Location = optional("location")
	patch.Category = optional("category")

	var err error
	if patch.StartDate, err = parseDate("startDate", c.FormValue("startDate")); err != nil {
		return patch, err
	}
	if patch.EndDate, err = parseDate("endDate", c.FormValue("endDate")); err != nil {
		return patch, err
	}
	if v := c.FormValue("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return patch, domain.ValidationFailed(map[string]string{"isActive": "isActive must be a boolean"})
		}
		patch.IsActive = &active
	}
	return patch, nil
}
