package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/middleware"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// errorResponse creates a standardized JSON error response.
func errorResponse(c *fiber.Ctx, statusCode int, message string) error {
	errorName := "Error"
	switch statusCode {
	case fiber.StatusBadRequest:
		errorName = "Bad Request"
	case fiber.StatusUnauthorized:
		errorName = "Unauthorized"
	case fiber.StatusForbidden:
		errorName = "Forbidden"
	case fiber.StatusNotFound:
		errorName = "Not Found"
	case fiber.StatusMethodNotAllowed:
		errorName = "Method Not Allowed"
	case fiber.StatusConflict:
		errorName = "Conflict"
	case fiber.StatusRequestEntityTooLarge:
		errorName = "Request Entity Too Large"
	case fiber.StatusServiceUnavailable:
		errorName = "Service Unavailable"
	case fiber.StatusInternalServerError:
		errorName = "Internal Server Error"
	}

	return c.Status(statusCode).JSON(ErrorResponse{
		Error:   errorName,
		Message: message,
	})
}

// handleError writes err as a JSON envelope. Application errors keep their
// status and message; anything else is logged and reported as a 500 without
// leaking internals.
func handleError(c *fiber.Ctx, err error) error {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.StatusCode >= fiber.StatusInternalServerError && appErr.Code != apperrors.CodeUnavailable {
			reportServerError(c, err)
			return c.Status(appErr.StatusCode).JSON(ErrorResponse{
				Error:   appErr.Title(),
				Message: "An unexpected error occurred",
			})
		}
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error:   appErr.Title(),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	reportServerError(c, err)
	return errorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred")
}

func reportServerError(c *fiber.Ctx, err error) {
	logger.FromContext(c.UserContext()).Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	middleware.CaptureError(c, err)
}

// ErrorHandler is the fiber application error handler. It renders errors
// that escape handlers (routing misses, body limits, panics turned into
// errors) in the same envelope as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return errorResponse(c, fe.Code, fe.Message)
	}
	return handleError(c, err)
}

// parseID parses the :id route parameter.
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid id")
	}
	return id, nil
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return apperrors.BadRequest("request body is required")
	}
	if err := c.BodyParser(dst); err != nil {
		return apperrors.BadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// parseListOptions extracts search, includeDeleted, limit and offset.
func parseListOptions(c *fiber.Ctx) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		Search: strings.TrimSpace(c.Query("search")),
	}

	var err error
	if opts.IncludeDeleted, err = parseQueryBool(c, "includeDeleted"); err != nil {
		return opts, err
	}
	if opts.Limit, err = parseQueryInt(c, "limit", domain.DefaultListLimit); err != nil {
		return opts, err
	}
	if opts.Offset, err = parseQueryInt(c, "offset", 0); err != nil {
		return opts, err
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return opts, apperrors.BadRequest("limit and offset must not be negative")
	}

	return opts.Normalized(), nil
}

// parseQueryInt parses an integer query parameter with a default value.
func parseQueryInt(c *fiber.Ctx, key string, defaultValue int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, apperrors.BadRequest("query parameter " + key + " must be an integer")
	}
	return intVal, nil
}

// parseQueryBool parses a boolean query parameter; absent means false.
func parseQueryBool(c *fiber.Ctx, key string) (bool, error) {
	val := c.Query(key)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, apperrors.BadRequest("query parameter " + key + " must be a boolean")
	}
	return b, nil
}

// parseQueryOptionalBool parses a tri-state boolean query parameter.
func parseQueryOptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	if c.Query(key) == "" {
		return nil, nil
	}
	b, err := parseQueryBool(c, key)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// parseQueryUUID parses a UUID query parameter.
// Returns nil if the parameter is empty.
func parseQueryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return nil, apperrors.BadRequest("query parameter " + key + " must be a UUID")
	}
	return &id, nil
}

// parseQueryDate accepts RFC 3339 timestamps and plain dates.
func parseQueryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.BadRequest("query parameter " + key + " must be a date (YYYY-MM-DD or RFC 3339)")
}
