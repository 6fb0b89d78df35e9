package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/ateleslie-api/pkg/config"
)

// NewCORS allows the configured origins, or the SPA origin when none are set.
func NewCORS(cfg config.CORSConfig, clientURL string) fiber.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 && clientURL != "" {
		origins = []string{clientURL}
	}
	allowOrigins := strings.Join(origins, ",")
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	methods := "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	if len(cfg.AllowedMethods) > 0 {
		methods = strings.Join(cfg.AllowedMethods, ",")
	}
	headers := "Origin,Content-Type,Accept,Authorization"
	if len(cfg.AllowedHeaders) > 0 {
		headers = strings.Join(cfg.AllowedHeaders, ",")
	}

	maxAge := 86400
	if cfg.MaxAge > 0 {
		maxAge = cfg.MaxAge
	}

	// fiber rejects credentials with a wildcard origin.
	credentials := cfg.Credentials && allowOrigins != "*"

	return fibercors.New(fibercors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    strings.Join(cfg.ExposeHeaders, ","),
		AllowCredentials: credentials,
		MaxAge:           maxAge,
	})
}
