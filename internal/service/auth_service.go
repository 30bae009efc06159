package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/config"
	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/repository"
	"github.com/spec-kit/catalog-admin/internal/session"
	"github.com/spec-kit/catalog-admin/internal/validation"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

const uniqueViolation = "23505"

// LoginResult is returned by a successful sign-in.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates sign-in, session resolution and admin onboarding.
type AuthService struct {
	users      repository.UserRepository
	sessions   session.Store
	tokenMgr   *auth.TokenManager
	validator  *validation.Validator
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore session.Store
	Validator    *validation.Validator
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		validator:  v,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies credentials and opens a session for any known user.
// Whether that user may reach the dashboard is decided by the guard.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	if err := s.validator.ValidateLogin(in); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		auth.SpendCompare(in.Password)
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("stored password hash unusable", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	id, err := session.GenerateID()
	if err != nil {
		return nil, err
	}
	now := s.now()
	token, exp, err := s.tokenMgr.GenerateToken(id, user.ID, now)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session.Record{ID: id, UserID: user.ID, CreatedAt: now, ExpiresAt: exp}); err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Logout ends the session named by token. Unknown or invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// ResolveSession returns the authoritative session for token, or (nil, nil) when the token
// names no live session. The role is always read from the user record.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, nil
	}

	rec, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != claims.Subject || rec.Expired(s.now()) {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, rec.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:        rec.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// OnboardAdmin creates another admin account.
func (s *AuthService) OnboardAdmin(ctx context.Context, in validation.AdminOnboardInput) (*domain.User, error) {
	if err := s.validator.ValidateOnboard(in); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return s.createUser(ctx, in.Name, in.Email, in.Password, domain.RoleAdmin)
}

// SeedOutcome reports what SeedAdmin did.
type SeedOutcome string

const (
	SeedCreated  SeedOutcome = "created"
	SeedExisting SeedOutcome = "existing"
	SeedReset    SeedOutcome = "reset"
)

// SeedAdmin creates the first admin unless an account with that email already exists.
// With resetPassword an existing account gets the new password and the admin role.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string, resetPassword bool) (*domain.User, SeedOutcome, error) {
	if err := s.validator.ValidateOnboard(validation.AdminOnboardInput{Name: name, Email: email, Password: password}); err != nil {
		return nil, "", validationError(err)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && !resetPassword:
		return existing, SeedExisting, nil
	case err == nil:
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, "", err
		}
		existing.PasswordHash = hash
		existing.Role = domain.RoleAdmin
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, "", err
		}
		s.logger.Info("admin credentials reset", zap.String("user_id", existing.ID))
		return existing, SeedReset, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, "", err
	}

	user, err := s.createUser(ctx, name, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return user, SeedCreated, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, emailTaken()
		}
		return nil, err
	}
	return user, nil
}

func emailTaken() error {
	return apperrors.NewDomainError("EMAIL_TAKEN", "User with this email already exists", http.StatusBadRequest, nil)
}

func validationError(err error) error {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("Validation error", fieldErrs.Details())
	}
	return err
}
