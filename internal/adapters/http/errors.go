package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status      int               `json:"status"`
	Code        string            `json:"code"`                 // bad_request, not_found, conflict, internal_error, ...
	ErrorCode   string            `json:"error_code,omitempty"` // stable domain code, e.g. R001
	Message     string            `json:"message"`
	RequestID   string            `json:"request_id,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code, errorCode, message string, fields map[string]string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:      status,
		Code:        code,
		ErrorCode:   errorCode,
		Message:     message,
		RequestID:   reqID,
		FieldErrors: fields,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", "C002", msg, nil)
}

// errValidation returns a 400 error listing invalid fields.
func errValidation(c *fiber.Ctx, fields map[string]string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", "C003", "request validation failed", fields)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", "C001", msg, nil)
}

// errFromDomain maps service errors to responses. Unknown errors are logged
// and reported as 500 without leaking details.
func errFromDomain(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return newError(c, fiber.StatusNotFound, "not_found", code, err.Error(), nil)
	case errors.Is(err, domain.ErrDuplicate):
		return newError(c, fiber.StatusConflict, "conflict", code, err.Error(), nil)
	case code != "":
		return newError(c, fiber.StatusBadRequest, "bad_request", code, err.Error(), nil)
	}

	logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}
