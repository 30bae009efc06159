package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/api/dto"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/form"
	"github.com/spec-kit/catalog-admin/internal/imagehost"
	"github.com/spec-kit/catalog-admin/internal/observability"
	"github.com/spec-kit/catalog-admin/internal/service"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

// ProductsHandler manages the admin product API.
type ProductsHandler struct {
	service *service.ProductService
	images  imagehost.Handle
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService, images imagehost.Handle, metrics *observability.Metrics, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{service: productService, images: images, metrics: metrics, logger: logger}
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return c.JSON(dto.ProductListResponse{Products: items})
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	product, err := h.service.Create(c.UserContext(), actorID(c), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ProductEnvelope{Product: dto.NewProductResponse(product)})
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductEnvelope{Product: dto.NewProductResponse(product)})
}

// Update PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	product, err := h.service.Update(c.UserContext(), actorID(c), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductEnvelope{Product: dto.NewProductResponse(product)})
}

// Delete DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Product deleted successfully"})
}

// Stats GET /api/products/stats.
func (h *ProductsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Upload POST /api/products/upload. Expects a multipart "file" field.
func (h *ProductsHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		h.metrics.RecordUpload("rejected")
		return apperrors.NewValidationError("No file provided", nil)
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		h.metrics.RecordUpload("rejected")
		return apperrors.NewValidationError("File must be an image", nil)
	}
	if fh.Size > form.MaxImageSize {
		h.metrics.RecordUpload("rejected")
		return apperrors.NewValidationError("File size must be less than 5MB", nil)
	}

	host, err := h.images.Host()
	if err != nil {
		h.metrics.RecordUpload("unconfigured")
		return apperrors.NewServiceUnavailable("Image hosting is not configured", map[string]any{"reason": err.Error()})
	}

	file, err := fh.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	img, err := host.Upload(c.UserContext(), file)
	if err != nil {
		h.metrics.RecordUpload("failed")
		h.logger.Error("image upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		return apperrors.NewUpstreamError("Failed to upload image", err, map[string]any{"reason": err.Error()})
	}
	h.metrics.RecordUpload("ok")
	return c.JSON(dto.UploadResponse{URL: img.URL, PublicID: img.PublicID})
}

func actorID(c *fiber.Ctx) string {
	if sess, ok := auth.SessionFromContext(c); ok {
		return sess.UserID
	}
	return ""
}
