package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// Pagination carries page/limit listing parameters.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit query parameters, applying
// defaults and caps.
func ParsePagination(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}

	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// ParseUUIDPathParameters validates the named path parameters as UUIDs
// and stores the parsed values in locals under the same names.
func ParseUUIDPathParameters(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			id, err := uuid.Parse(c.Params(name))
			if err != nil {
				return WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidArgument, name))
			}

			c.Locals(name, id)
		}

		return c.Next()
	}
}
