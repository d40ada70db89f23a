package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
	dateLayout   = "2006-01-02"
)

// fail writes an error response. Known service errors carry their message;
// anything else is logged and reported as a generic 500.
func fail(c *fiber.Ctx, err error) error {
	status, kind := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
		return detail(c, status, "Internal server error")
	}
	// The status already carries the kind; the detail keeps only the context.
	return detail(c, status, strings.TrimPrefix(err.Error(), kind.Error()+": "))
}

// statusFor maps err to an HTTP status and the service error kind it wraps.
func statusFor(err error) (int, error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.err
		}
	}
	return fiber.StatusInternalServerError, err
}

var errorKinds = []struct {
	err    error
	status int
}{
	{service.ErrNotFound, fiber.StatusNotFound},
	{service.ErrInsufficientStock, fiber.StatusBadRequest},
	{service.ErrValidation, fiber.StatusUnprocessableEntity},
	{service.ErrEmailExists, fiber.StatusBadRequest},
	{service.ErrConflict, fiber.StatusConflict},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func badBody(c *fiber.Ctx) error {
	return detail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
}

// paramUUID parses a path parameter. Ids that are not UUIDs cannot exist.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// page reads skip/limit. Limit defaults to 100 and is capped at 1000.
func page(c *fiber.Ctx) (skip, limit int, err error) {
	skip, err = queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		return 0, 0, errors.New("skip must be a non-negative integer")
	}
	limit, err = queryInt(c, "limit", defaultLimit)
	if err != nil || limit <= 0 {
		return 0, 0, errors.New("limit must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// queryDate parses an optional YYYY-MM-DD query parameter in UTC.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
