// Package validation holds the field rules shared by the product API and the product form.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

// FieldErrors maps a json field name to its user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Details converts the errors into a response details map.
func (e FieldErrors) Details() map[string]any {
	details := make(map[string]any, len(e))
	for field, msg := range e {
		details[field] = msg
	}
	return details
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminOnboardInput is the payload for creating another admin account.
type AdminOnboardInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// messages is keyed by "<Struct>.<jsonField>.<tag>".
var messages = map[string]string{
	"ProductInput.name.required":        "Product name is required",
	"ProductInput.name.max":             "Product name is too long",
	"ProductInput.description.required": "Description is required",
	"ProductInput.description.max":      "Description is too long",
	"ProductInput.price.gt":             "Price must be positive",
	"ProductInput.price.lte":            "Price is too high",
	"ProductInput.category.required":    "Category is required",
	"ProductInput.stock.gte":            "Stock cannot be negative",
	"ProductInput.stock.lte":            "Stock is too high",
	"ProductInput.imageUrl.required":    "Image URL is required",
	"ProductInput.imageUrl.url":         "Invalid image URL",

	"LoginInput.email.required":    "Invalid email address",
	"LoginInput.email.email":       "Invalid email address",
	"LoginInput.password.required": "Password must be at least 6 characters",
	"LoginInput.password.min":      "Password must be at least 6 characters",

	"AdminOnboardInput.name.required":     "Name is required",
	"AdminOnboardInput.name.max":          "Name is too long",
	"AdminOnboardInput.email.required":    "Invalid email address",
	"AdminOnboardInput.email.email":       "Invalid email address",
	"AdminOnboardInput.password.required": "Password must be at least 6 characters",
	"AdminOnboardInput.password.min":      "Password must be at least 6 characters",
}

// productFields maps json names to the Go field names StructPartial expects.
var productFields = map[string]string{
	"name":        "Name",
	"description": "Description",
	"price":       "Price",
	"category":    "Category",
	"stock":       "Stock",
	"imageUrl":    "ImageURL",
}

// Validator wraps a configured validator instance. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator reporting json field names.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateProduct checks every writable product field.
func (v *Validator) ValidateProduct(in domain.ProductInput) error {
	return v.convert(v.validate.Struct(in))
}

// ValidateProductFields checks only the named json fields of in.
func (v *Validator) ValidateProductFields(in domain.ProductInput, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		name, ok := productFields[field]
		if !ok {
			return fmt.Errorf("validation: unknown product field %q", field)
		}
		names = append(names, name)
	}
	return v.convert(v.validate.StructPartial(in, names...))
}

// ValidateLogin checks a sign-in payload.
func (v *Validator) ValidateLogin(in LoginInput) error {
	return v.convert(v.validate.Struct(in))
}

// ValidateOnboard checks an admin onboarding payload.
func (v *Validator) ValidateOnboard(in AdminOnboardInput) error {
	return v.convert(v.validate.Struct(in))
}

func (v *Validator) convert(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	key := fe.Namespace() + "." + fe.Tag()
	if msg, ok := messages[key]; ok {
		return msg
	}
	return fmt.Sprintf("field %s is not valid", fe.Field())
}
