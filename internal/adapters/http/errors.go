package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, bad_gateway, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "bad_gateway", msg)
}

// errServiceUnavailable returns a 503 error.
func errServiceUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "service_unavailable", msg)
}

// errFromScrape maps a scrape failure onto a status code.
func errFromScrape(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrOriginNotConfigured), errors.Is(err, domain.ErrLookupFailure):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrMalformedPayload):
		return errBadGateway(c, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return errServiceUnavailable(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
