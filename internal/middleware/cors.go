package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var (
	corsMethods = []string{
		fiber.MethodGet,
		fiber.MethodPost,
		fiber.MethodPut,
		fiber.MethodDelete,
		fiber.MethodOptions,
		fiber.MethodHead,
	}
	corsHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		RequestIDHeader,
	}
	corsExposed = []string{
		RequestIDHeader,
		"Content-Disposition",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
	}
)

// CORSConfig builds the cross-origin policy. With no origins every origin is
// allowed without credentials; an explicit list enables credentials.
func CORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  strings.Join(corsMethods, ","),
		AllowHeaders:  strings.Join(corsHeaders, ","),
		ExposeHeaders: strings.Join(corsExposed, ","),
		MaxAge:        86400,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = strings.Join(origins, ",")
		cfg.AllowCredentials = true
	}
	return cfg
}

// CORS returns the cross-origin middleware for the given origins
func CORS(origins []string) fiber.Handler {
	return cors.New(CORSConfig(origins))
}
