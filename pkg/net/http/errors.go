package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/quantora/ledger/pkg"
)

// problemContentType is the RFC 7807 media type used for every error
// body.
const problemContentType = "application/problem+json"

// Problem is an RFC 7807 problem document. Code carries the stable
// business error code alongside the generic fields.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func problem(c *fiber.Ctx, status int, code, title, detail string) error {
	c.Set(fiber.HeaderContentType, problemContentType)

	return c.Status(status).JSON(Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
		Code:   code,
	})
}

// WithError maps a business or infrastructure error onto the wire.
func WithError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case pkg.EntityNotFoundError:
		return problem(c, fiber.StatusNotFound, e.Code, e.Title, e.Message)
	case pkg.ValidationError:
		return problem(c, fiber.StatusBadRequest, e.Code, e.Title, e.Message)
	case pkg.EntityConflictError:
		return problem(c, fiber.StatusConflict, e.Code, e.Title, e.Message)
	case pkg.UnprocessableOperationError:
		return problem(c, fiber.StatusConflict, e.Code, e.Title, e.Message)
	case pkg.InternalServerError:
		return problem(c, fiber.StatusInternalServerError, e.Code, e.Title, e.Message)
	default:
		return problem(c, fiber.StatusInternalServerError, "", "Internal Server Error",
			"An unexpected error occurred. Try again later.")
	}
}

// HandleFiberError is the app-level error handler wired into fiber.
func HandleFiberError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return problem(c, fiberErr.Code, "", fiberErr.Message, fiberErr.Message)
	}

	return WithError(c, err)
}
