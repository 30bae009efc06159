package dto

import (
	"time"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

// ProductRequest payload for create and full-replace update.
type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Stock         int     `json:"stock"`
	ImageURL      string  `json:"imageUrl"`
	ImagePublicID string  `json:"imagePublicId,omitempty"`
}

// ToInput converts the payload to the domain input.
func (r ProductRequest) ToInput() domain.ProductInput {
	return domain.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Stock:         r.Stock,
		ImageURL:      r.ImageURL,
		ImagePublicID: r.ImagePublicID,
	}
}

// NewProductRequest builds a payload from a domain input.
func NewProductRequest(in domain.ProductInput) ProductRequest {
	return ProductRequest{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Category:      in.Category,
		Stock:         in.Stock,
		ImageURL:      in.ImageURL,
		ImagePublicID: in.ImagePublicID,
	}
}

// ProductResponse is the wire form of a stored product.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"imageUrl"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	Sales         int       `json:"sales"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		ImagePublicID: p.ImagePublicID,
		Sales:         p.Sales,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToDomain converts the response back into a domain product.
func (r ProductResponse) ToDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Stock:         r.Stock,
		ImageURL:      r.ImageURL,
		ImagePublicID: r.ImagePublicID,
		Sales:         r.Sales,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ProductEnvelope wraps a single product.
type ProductEnvelope struct {
	Product ProductResponse `json:"product"`
}

// ProductListResponse wraps the catalog listing.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// UploadResponse is returned by a successful image upload.
type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
