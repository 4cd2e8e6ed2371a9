package api

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v3"

	"startpage/internal/resolver"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated is jsonSuccess with 201.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonInvalid reports validation failures per field. Other errors become a
// plain 400.
func jsonInvalid(c fiber.Ctx, err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	details := make(map[string]string, len(fields))
	for k, v := range fields {
		details[k] = v.Error()
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status": "error",
		"error":  "validation failed",
		"fields": details,
	})
}

// resolveError maps resolver errors to a response.
func resolveError(c fiber.Ctx, err error) error {
	var cycle *resolver.AliasCycleError
	if errors.As(err, &cycle) {
		return c.Status(fiber.StatusLoopDetected).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
			"chain":  cycle.Chain,
		})
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to resolve query")
}

// keyParam returns the unescaped :key route parameter.
func keyParam(c fiber.Ctx) string {
	raw := c.Params("key")
	if k, err := url.PathUnescape(raw); err == nil {
		return k
	}
	return raw
}

// flag reads a boolean query parameter.
func flag(c fiber.Ctx, name string) bool {
	switch c.Query(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}
