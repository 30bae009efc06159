package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

func validProduct() domain.ProductInput {
	return domain.ProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
		Category:    "Tools",
		Stock:       5,
		ImageURL:    "https://res.cloudinary.com/x/y.jpg",
	}
}

func TestValidateProductBoundaries(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(in *domain.ProductInput)
		field   string
		message string
	}{
		{"zero price", func(in *domain.ProductInput) { in.Price = 0 }, "price", "Price must be positive"},
		{"negative price", func(in *domain.ProductInput) { in.Price = -1 }, "price", "Price must be positive"},
		{"price above max", func(in *domain.ProductInput) { in.Price = 1000000.01 }, "price", "Price is too high"},
		{"negative stock", func(in *domain.ProductInput) { in.Stock = -1 }, "stock", "Stock cannot be negative"},
		{"stock above max", func(in *domain.ProductInput) { in.Stock = 1000001 }, "stock", "Stock is too high"},
		{"empty name", func(in *domain.ProductInput) { in.Name = "" }, "name", "Product name is required"},
		{"long name", func(in *domain.ProductInput) { in.Name = strings.Repeat("a", 201) }, "name", "Product name is too long"},
		{"long description", func(in *domain.ProductInput) { in.Description = strings.Repeat("d", 1001) }, "description", "Description is too long"},
		{"empty category", func(in *domain.ProductInput) { in.Category = "" }, "category", "Category is required"},
		{"empty image", func(in *domain.ProductInput) { in.ImageURL = "" }, "imageUrl", "Image URL is required"},
		{"bad image url", func(in *domain.ProductInput) { in.ImageURL = "not a url" }, "imageUrl", "Invalid image URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProduct()
			tt.mutate(&in)

			err := v.ValidateProduct(in)
			require.Error(t, err)
			fieldErrs, ok := err.(FieldErrors)
			require.True(t, ok)
			assert.Equal(t, tt.message, fieldErrs[tt.field])
			assert.Len(t, fieldErrs, 1)
		})
	}
}

func TestValidateProductAcceptsLimits(t *testing.T) {
	v := New()

	in := validProduct()
	in.Price = 1000000
	in.Stock = 1000000
	assert.NoError(t, v.ValidateProduct(in))

	in.Stock = 0
	in.Name = strings.Repeat("a", 200)
	in.Description = strings.Repeat("d", 1000)
	assert.NoError(t, v.ValidateProduct(in))
}

func TestValidateProductFieldsIgnoresOtherFields(t *testing.T) {
	v := New()

	in := domain.ProductInput{Name: "Widget", Description: "A widget"}
	assert.NoError(t, v.ValidateProductFields(in, "name", "description"))

	err := v.ValidateProductFields(in, "price", "category", "stock")
	require.Error(t, err)
	fieldErrs := err.(FieldErrors)
	assert.Contains(t, fieldErrs, "price")
	assert.Contains(t, fieldErrs, "category")
	assert.NotContains(t, fieldErrs, "stock")
	assert.NotContains(t, fieldErrs, "name")
}

func TestValidateProductFieldsUnknownField(t *testing.T) {
	err := New().ValidateProductFields(validProduct(), "sales")
	require.Error(t, err)
	_, isFieldErrs := err.(FieldErrors)
	assert.False(t, isFieldErrs)
}

func TestValidateLoginAndOnboard(t *testing.T) {
	v := New()

	err := v.ValidateLogin(LoginInput{Email: "nope", Password: "123"})
	require.Error(t, err)
	fieldErrs := err.(FieldErrors)
	assert.Equal(t, "Invalid email address", fieldErrs["email"])
	assert.Equal(t, "Password must be at least 6 characters", fieldErrs["password"])

	assert.NoError(t, v.ValidateLogin(LoginInput{Email: "admin@example.com", Password: "secret1"}))

	err = v.ValidateOnboard(AdminOnboardInput{Name: strings.Repeat("n", 101), Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Name is too long", err.(FieldErrors)["name"])
}

func TestFieldErrorsDetails(t *testing.T) {
	errs := FieldErrors{"price": "Price must be positive", "name": "Product name is required"}

	assert.Equal(t, "validation failed: name: Product name is required, price: Price must be positive", errs.Error())
	assert.Equal(t, map[string]any{"price": "Price must be positive", "name": "Product name is required"}, errs.Details())
}
