package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
)

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandler renders every error as {success:false, message, errors?}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := errorStatus(err)
		body := errorBody{Message: "Internal Server Error"}

		var fe *fiber.Error
		if appErr, ok := domain.AsAppError(err); ok {
			body.Message = appErr.Message
			body.Errors = appErr.Fields
		} else if errors.As(err, &fe) {
			body.Message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Internal Server Error",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(body)
	}
}

func errorStatus(err error) int {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr.Code
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
