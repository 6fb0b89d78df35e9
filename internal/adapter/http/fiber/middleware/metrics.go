package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
)

// Metrics records request count and latency per matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; derive the status it will write.
			status = errorStatus(err)
		}
		route := c.Route().Path
		method := c.Method()
		telemetry.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}
