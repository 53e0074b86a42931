package objects

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	"dms-storage/core/logger"
	"dms-storage/core/server"
	"dms-storage/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for objects.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DeleteRequest is the body of a bulk delete.
type DeleteRequest struct {
	Keys []string `json:"keys"`
}

// RegisterRoutes registers the object routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets/:bucket")
	group.Get("/keys", h.HandleKeys)
	group.Put("/objects/*", h.HandleUpload)
	group.Get("/objects/*", h.HandleDownload)
	group.Post("/delete", h.HandleDelete)
}

// HandleKeys lists every key in the bucket.
func (h *Handler) HandleKeys(c *fiber.Ctx) error {
	bucket := c.Params("bucket")

	keys, err := h.service.Keys(c.Context(), bucket)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Key listing failed", zap.String("bucket", bucket), zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(fiber.Map{"bucket": bucket, "keys": keys, "count": len(keys)})
}

// HandleUpload stores the request body under the key in the path.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Upload(c.Context(), bucket, key, bytes.NewReader(c.Body())); err != nil {
		l.Error("Upload failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.Error(c, err)
	}
	l.Info("Object uploaded", zap.String("bucket", bucket), zap.String("key", key), zap.Int("size", len(c.Body())))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDownload returns the bytes of the key in the path.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	key, err := objectKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.service.Download(c.Context(), bucket, key, &buf); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Download failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return server.Error(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(buf.Bytes())
}

// objectKey returns the decoded key from the wildcard path segment. Route
// params are left escaped by fiber, so "a%20b.pdf" names the key "a b.pdf".
func objectKey(c *fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return "", fmt.Errorf("invalid object key: %w", err)
	}
	if key == "" {
		return "", errors.New("object key is required")
	}
	return key, nil
}

// HandleDelete deletes the keys listed in the body. When a chunk fails the
// response reports how many keys were deleted before it.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	l := logger.WithRayID(h.service.logger, c)

	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.service.Delete(c.Context(), bucket, req.Keys)
	if err == nil {
		return c.JSON(fiber.Map{"bucket": bucket, "deleted": len(req.Keys)})
	}

	l.Error("Bulk delete failed", zap.String("bucket", bucket), zap.Error(err))
	var chunkErr *storage.DeleteChunkError
	if !errors.As(err, &chunkErr) {
		return server.Error(c, err)
	}
	return c.Status(server.StatusFor(err)).JSON(fiber.Map{
		"error":   err.Error(),
		"bucket":  bucket,
		"deleted": chunkErr.Offset,
		"chunk":   chunkErr.Chunk,
	})
}
