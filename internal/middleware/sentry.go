package middleware

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"github.com/vermy/vermy/internal/config"
)

const sentryHubKey = "sentryHub"

// InitSentry initializes the Sentry SDK. It is a no-op unless reporting is
// enabled and a DSN is set.
func InitSentry(cfg config.SentryConfig) error {
	if !cfg.Enabled || cfg.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		SampleRate:       cfg.SampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// FlushSentry flushes any buffered events to Sentry
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Sentry gives every request its own hub scoped to the request. Without it
// CaptureError and Recover fall back to the global hub.
func Sentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hub := sentry.CurrentHub().Clone()
		scope := hub.Scope()
		scope.SetTag("request_id", GetRequestID(c))
		scope.SetContext("Request", map[string]interface{}{
			"url":          c.OriginalURL(),
			"method":       c.Method(),
			"query_string": string(c.Request().URI().QueryString()),
			"remote_addr":  c.IP(),
		})
		c.Locals(sentryHubKey, hub)
		return c.Next()
	}
}

func hubFor(c *fiber.Ctx) *sentry.Hub {
	if hub, ok := c.Locals(sentryHubKey).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureError reports an error to Sentry from a Fiber context
func CaptureError(c *fiber.Ctx, err error) {
	hub := hubFor(c)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", routeLabel(c))
		if userID, ok := GetUserID(c); ok {
			scope.SetUser(sentry.User{ID: userID.String(), Email: GetUserEmail(c)})
		}
		hub.CaptureException(err)
	})
}
