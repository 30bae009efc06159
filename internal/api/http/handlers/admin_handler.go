package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-admin/internal/api/dto"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/validation"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

// AdminHandler manages admin accounts.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// Onboard handles POST /api/admin/onboard.
func (h *AdminHandler) Onboard(c *fiber.Ctx) error {
	var req dto.AdminOnboardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	user, err := h.auth.OnboardAdmin(c.UserContext(), validation.AdminOnboardInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.AdminOnboardResponse{
		Message: "Admin created successfully",
		User:    dto.OnboardedUser{ID: user.ID, Email: user.Email},
	})
}
