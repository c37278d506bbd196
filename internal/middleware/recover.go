package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recover turns a panic into a 500 with the usual error envelope. When
// reporting is on, the panic is sent to Sentry before the response is
// written.
func Recover(logger *zap.Logger, report bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			panicErr, ok := r.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", r)
			}
			requestID := GetRequestID(c)

			logger.Error("panic recovered",
				zap.Error(panicErr),
				zap.String("method", c.Method()),
				zap.String("route", routeLabel(c)),
				zap.String("request_id", requestID),
				zap.ByteString("stack", debug.Stack()),
			)

			if report {
				hub := hubFor(c)
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetLevel(sentry.LevelFatal)
					scope.SetTag("route", routeLabel(c))
					hub.RecoverWithContext(c.UserContext(), r)
				})
				hub.Flush(2 * time.Second)
			}

			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Internal Server Error",
				"message": "An unexpected error occurred",
				"details": fiber.Map{"requestId": requestID},
			})
		}()

		return c.Next()
	}
}
