package server

import (
	"errors"
	"net/http"

	"dms-storage/core/storage"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a storage error to an HTTP status code.
func StatusFor(err error) int {
	var (
		exists   *storage.BucketAlreadyExistsError
		nonEmpty *storage.NonEmptyBucketError
		cfgErr   *storage.ConfigError
		respErr  *storage.ResponseError
		userErr  *storage.UserError
		connErr  *storage.ConnectError
	)

	switch {
	case errors.As(err, &exists), errors.As(err, &nonEmpty):
		return fiber.StatusConflict
	case errors.As(err, &cfgErr):
		return fiber.StatusInternalServerError
	case errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound:
		return fiber.StatusNotFound
	case errors.As(err, &userErr), errors.As(err, &connErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a JSON body with the status StatusFor picks.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
