package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/guard"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

const sessionKey = "auth_session"

// SessionResolver turns a session token into the authoritative session.
// It returns (nil, nil) when the token names no valid session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Session, error)
}

// SessionGuard adapts the guard tiers to Fiber handlers.
type SessionGuard struct {
	resolver SessionResolver
	logger   *zap.Logger
}

// NewSessionGuard constructs the middleware set.
func NewSessionGuard(resolver SessionResolver, logger *zap.Logger) *SessionGuard {
	return &SessionGuard{resolver: resolver, logger: logger}
}

// Edge is the cookie-presence tier. It is safe to mount globally.
func (g *SessionGuard) Edge() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := guard.Edge(c.Path(), func(name string) string { return c.Cookies(name) })
		if decision.Outcome == guard.RedirectToLogin {
			return c.Redirect(decision.Location, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequirePage enforces the admin role for rendered pages by redirecting to the login page.
func (g *SessionGuard) RequirePage() fiber.Handler {
	return g.require(guard.SurfacePage)
}

// RequireAPI enforces the admin role for API handlers with a 401 response.
func (g *SessionGuard) RequireAPI() fiber.Handler {
	return g.require(guard.SurfaceAPI)
}

func (g *SessionGuard) require(surface guard.Surface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := g.resolve(c)
		decision := guard.Authorize(sess, err, surface)
		switch decision.Outcome {
		case guard.Allow:
			c.Locals(sessionKey, sess)
			return c.Next()
		case guard.RedirectToLogin:
			return c.Redirect(decision.Location, fiber.StatusFound)
		default:
			return apperrors.NewUnauthorized("Unauthorized")
		}
	}
}

func (g *SessionGuard) resolve(c *fiber.Ctx) (*domain.Session, error) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, nil
	}
	sess, err := g.resolver.ResolveSession(c.UserContext(), token)
	if err != nil {
		g.logger.Warn("session resolution failed", zap.String("path", c.Path()), zap.Error(err))
		return nil, err
	}
	return sess, nil
}

// SessionFromContext retrieves the session stored by RequirePage or RequireAPI.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*domain.Session)
	return sess, ok && sess != nil
}
