// Package services contains the business logic of the identity server:
// bootstrap, session lifecycle and API key management. Handlers stay thin
// and map the sentinel errors returned here onto HTTP statuses.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/auth"
	"github.com/postforge/identity/internal/server/config"
	"github.com/postforge/identity/internal/server/models"
	"github.com/postforge/identity/internal/server/repositories/sessions"
	"github.com/postforge/identity/internal/server/repositories/users"
)

const minPasswordLength = 6

// AuthService owns bootstrap and session lifecycle.
type AuthService struct {
	users           users.Repository
	sessions        sessions.Repository
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewAuthService(userRepo users.Repository, sessionRepo sessions.Repository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:           userRepo,
		sessions:        sessionRepo,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// Configured reports whether the installation has completed first-run
// bootstrap, i.e. whether the owner account exists.
func (s *AuthService) Configured(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, common.ErrInternal
	}
	return n > 0, nil
}

// Setup creates the sole owner account and opens its first session.
// It fails with common.ErrAlreadyConfigured once an owner exists;
// the check plus insert make setup a single-shot operation.
func (s *AuthService) Setup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if err := validateSetup(name, email, password); err != nil {
		return nil, "", err
	}

	configured, err := s.Configured(ctx)
	if err != nil {
		return nil, "", err
	}
	if configured {
		return nil, "", common.ErrAlreadyConfigured
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Avatar:       defaultAvatar(name),
		Plan:         "premium",
		PasswordHash: hash,
	}
	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	configured, err := s.Configured(ctx)
	if err != nil {
		return nil, "", err
	}
	if !configured {
		return nil, "", common.ErrNotConfigured
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", &common.AuthError{Reason: "invalid email or password"}
		}
		return nil, "", common.ErrInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", &common.AuthError{Reason: "invalid email or password"}
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. The token must parse,
// be unexpired, and its session record must still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, string, error) {
	userID, sessionID, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, "", common.ErrUnauthorized
	}

	if _, err := s.sessions.Find(ctx, sessionID); err != nil {
		return nil, "", common.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", common.ErrUnauthorized
	}
	return user, sessionID, nil
}

// GetUser loads a user by ID, for callers that authenticated through an
// API key rather than a session token.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// Logout deletes the server-side session record, invalidating the token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return common.ErrInternal
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.sessions.Create(ctx, sessionID, userID, s.sessionValidity); err != nil {
		return "", common.ErrInternal
	}

	token, err := auth.GenerateToken(userID, sessionID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

func validateSetup(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	return nil
}

func defaultAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=6366f1&color=fff"
}
