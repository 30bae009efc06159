package domain

import "time"

// Product is a catalog entry managed from the dashboard.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	Category      string
	Stock         int
	ImageURL      string
	ImagePublicID string
	Sales         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductInput carries the writable product fields. Sales is server-managed and absent here.
type ProductInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description" validate:"required,max=1000"`
	Price         float64 `json:"price" validate:"gt=0,lte=1000000"`
	Category      string  `json:"category" validate:"required"`
	Stock         int     `json:"stock" validate:"gte=0,lte=1000000"`
	ImageURL      string  `json:"imageUrl" validate:"required,url"`
	ImagePublicID string  `json:"imagePublicId,omitempty"`
}

// InputFromProduct extracts the writable fields of p.
func InputFromProduct(p *Product) ProductInput {
	return ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		ImagePublicID: p.ImagePublicID,
	}
}

// Apply replaces the writable fields of p with in. An empty ImagePublicID keeps the stored
// id as long as the image itself did not change.
func (p *Product) Apply(in ProductInput) {
	publicID := in.ImagePublicID
	if publicID == "" && in.ImageURL == p.ImageURL {
		publicID = p.ImagePublicID
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.Stock = in.Stock
	p.ImageURL = in.ImageURL
	p.ImagePublicID = publicID
}
