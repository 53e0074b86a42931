package server_test

import (
	"errors"
	"fmt"
	"testing"

	"dms-storage/core/server"
	"dms-storage/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"AlreadyExists", &storage.BucketAlreadyExistsError{Bucket: "b"}, fiber.StatusConflict},
		{"NonEmpty", &storage.NonEmptyBucketError{Bucket: "b"}, fiber.StatusConflict},
		{"Config", &storage.ConfigError{Message: "no credentials", Err: storage.ErrMissingCredentials}, fiber.StatusInternalServerError},
		{"User", &storage.UserError{Message: "AccessDenied: denied"}, fiber.StatusBadGateway},
		{"Connect", &storage.ConnectError{Endpoint: "https://s3", Err: errors.New("refused")}, fiber.StatusBadGateway},
		{"NoSuchKey", &storage.ResponseError{Code: "NoSuchKey", StatusCode: 404}, fiber.StatusNotFound},
		{"Wrapped", fmt.Errorf("create: %w", &storage.BucketAlreadyExistsError{Bucket: "b"}), fiber.StatusConflict},
		{"Other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.StatusFor(tt.err))
		})
	}
}
