package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/api/dto"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/guard"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/validation"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

const defaultLanding = "/dashboard"

// AuthHandler exposes sign-in, sign-out and session endpoints.
type AuthHandler struct {
	auth          *service.AuthService
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookies: secureCookies, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}

	res, err := h.auth.Login(c.UserContext(), validation.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, res.Token, res.ExpiresAt, h.secureCookies)

	callback := req.CallbackURL
	if callback == "" {
		callback = c.Query("callbackUrl")
	}
	return c.JSON(dto.LoginResponse{
		User:       dto.NewSessionUser(res.User),
		Expires:    res.ExpiresAt,
		RedirectTo: guard.SafeCallback(callback, defaultLanding),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), auth.TokenFromRequest(c)); err != nil {
		h.logger.Warn("session delete failed", zap.Error(err))
	}
	auth.ClearSessionCookies(c)
	return c.JSON(dto.MessageResponse{Message: "Signed out"})
}

// Session handles GET /api/auth/session. Resolution failures read as signed out.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return c.JSON(dto.SessionResponse{})
	}
	sess, err := h.auth.ResolveSession(c.UserContext(), token)
	if err != nil {
		h.logger.Warn("session resolution failed", zap.Error(err))
		return c.JSON(dto.SessionResponse{})
	}
	if sess == nil {
		return c.JSON(dto.SessionResponse{})
	}
	return c.JSON(dto.SessionResponse{
		User:    &dto.SessionUser{ID: sess.UserID, Name: sess.Name, Email: sess.Email, Role: sess.Role},
		Expires: &sess.ExpiresAt,
	})
}
