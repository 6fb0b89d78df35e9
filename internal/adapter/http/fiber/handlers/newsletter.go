package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type NewsletterHandler struct {
	service ports.NewsletterService
	log     *zap.Logger
}

func NewNewsletterHandler(service ports.NewsletterService, log *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{service: service, log: log}
}

type toggleRequest struct {
	Subscribed *bool `json:"subscribed"`
}

type scheduleRequest struct {
	ScheduledDate string `json:"scheduledDate"`
}

type sendRequest struct {
	NewsletterID string `json:"newsletterId"`
}

func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var input domain.SubscribeInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	row, err := h.service.Subscribe(c.UserContext(), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Successfully subscribed to newsletter", row)
}

func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
	var input domain.UnsubscribeInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := h.service.Unsubscribe(c.UserContext(), input); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Successfully unsubscribed from newsletter", nil)
}

func (h *NewsletterHandler) ToggleSubscription(c *fiber.Ctx) error {
	var req toggleRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	user, err := h.service.ToggleSubscription(c.UserContext(), middleware.CurrentUser(c).ID, req.Subscribed)
	if err != nil {
		return err
	}

	message := "Successfully unsubscribed from newsletter"
	if user.NewsletterSubscribed {
		message = "Successfully subscribed to newsletter"
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{"user": user})
}

func (h *NewsletterHandler) Create(c *fiber.Ctx) error {
	var input domain.NewsletterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	n, err := h.service.Create(c.UserContext(), input, middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Newsletter draft created successfully", n)
}

func (h *NewsletterHandler) List(c *fiber.Ctx) error {
	list, err := h.service.Query(c.UserContext(), domain.NewsletterFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tags:     splitList(c.Query("tags")),
		Status:   domain.NewsletterStatus(c.Query("status")),
	}, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Newsletters retrieved successfully", list)
}

func (h *NewsletterHandler) Schedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate("scheduledDate", req.ScheduledDate)
	if err != nil {
		return err
	}
	if date == nil {
		return domain.ValidationFailed(map[string]string{"scheduledDate": "scheduledDate is required"})
	}

	n, err := h.service.Schedule(c.UserContext(), c.Params("id"), *date)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Newsletter scheduled successfully", n)
}

func (h *NewsletterHandler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.NewsletterID == "" {
		return domain.ValidationFailed(map[string]string{"newsletterId": "newsletterId is required"})
	}

	report, err := h.service.Send(c.UserContext(), req.NewsletterID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Newsletter sent successfully to %d subscribers", report.Delivered), report)
}
