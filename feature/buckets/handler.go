package buckets

import (
	"dms-storage/core/logger"
	"dms-storage/core/server"
	"dms-storage/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for buckets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bucket routes. /buckets/name is registered
// before /buckets/:bucket and shadows a bucket called "name".
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/name", h.HandleName)
	group.Get("/:bucket", h.HandleState)
	group.Post("/:bucket", h.HandleCreate)
	group.Delete("/:bucket", h.HandleDelete)
}

// HandleName returns the bucket name derived from the storage query parameter.
func (h *Handler) HandleName(c *fiber.Ctx) error {
	name := c.Query("storage")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "storage query parameter is required"})
	}
	return c.JSON(fiber.Map{"bucket": h.service.Name(name, c.Query("prefix"))})
}

// HandleState reports whether the bucket exists. A missing bucket is a 200.
func (h *Handler) HandleState(c *fiber.Ctx) error {
	bucket := c.Params("bucket")

	state, err := h.service.State(c.Context(), bucket)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Bucket probe failed", zap.String("bucket", bucket), zap.Error(err))
		return server.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"bucket": bucket,
		"state":  state.String(),
		"exists": state == storage.BucketExists,
	})
}

// HandleCreate creates the bucket.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Creating bucket", zap.String("bucket", bucket))

	info, err := h.service.Create(c.Context(), bucket)
	if err != nil {
		l.Warn("Bucket creation failed", zap.String("bucket", bucket), zap.Error(err))
		return server.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// HandleDelete deletes the bucket when it is empty.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Deleting bucket", zap.String("bucket", bucket))

	if err := h.service.Delete(c.Context(), bucket); err != nil {
		l.Warn("Bucket deletion failed", zap.String("bucket", bucket), zap.Error(err))
		return server.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
