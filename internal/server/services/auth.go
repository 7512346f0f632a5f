// Package services holds the application logic between the HTTP boundary
// and the stores: account/session management and owner-scoped todos.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 4
	maxEmailLength    = 254
)

// TokenIssuer is the part of auth.TokenCodec the service relies on.
type TokenIssuer interface {
	Issue(subjectID, purpose string) (string, error)
	Verify(token string) (*auth.TokenClaims, error)
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users    users.Repository
	todos    todos.Repository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	logger   logging.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(u users.Repository, t todos.Repository, hasher auth.PasswordHasher, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		users:    u,
		todos:    t,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("module", "auth"),
		now:      time.Now,
	}
}

// NormalizeEmail trims and lower-cases an identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) validateCredentials(email, password string) error {
	if len(email) > maxEmailLength || s.validate.Var(email, "required,email") != nil {
		return common.NewValidationError("email", "is not a valid email")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(password) > auth.MaxPasswordBytes {
		return common.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes))
	}
	return nil
}

// Signup creates an account and logs it in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueAndAttach(ctx, user, auth.PurposeAuth)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "User signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and opens a new session. A missing account and
// a wrong password both yield common.ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug(ctx, "Login rejected", "user_id", user.ID)
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.issueAndAttach(ctx, user, auth.PurposeAuth)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// dummy returns a hash to compare against when the account does not exist,
// so that both rejection paths do the same amount of work.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("todokeeper-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// issueAndAttach signs a token for user and registers it as a session. The
// two steps are not atomic; a token whose session write failed is unusable.
func (s *AuthService) issueAndAttach(ctx context.Context, user *models.User, purpose string) (string, error) {
	token, err := s.tokens.Issue(user.ID, purpose)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}

	session := models.Session{Purpose: purpose, Token: token, CreatedAt: s.now().UTC()}
	if err := s.users.AddSession(ctx, user.ID, session); err != nil {
		return "", err
	}
	user.Sessions = append(user.Sessions, session)
	return token, nil
}

// Authenticate resolves a token to its user. The token must verify, its
// subject must exist and the literal token must still be in that user's
// allow-list. Every such failure is common.ErrorUnauthorized; store
// outages pass through.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil || claims.Purpose != auth.PurposeAuth {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if !user.HasSession(auth.PurposeAuth, token) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Logout revokes one token. Revoking an unknown or empty token succeeds and
// leaves every session in place.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	if token == "" {
		return nil
	}
	return s.users.RemoveSession(ctx, userID, models.SessionFilter{Token: token})
}

// LogoutAll revokes every session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.users.RemoveSession(ctx, userID, models.SessionFilter{}); err != nil {
		return err
	}
	s.logger.Info(ctx, "All sessions revoked", "user_id", userID)
	return nil
}

// DeleteAccount removes the user's todos, then the user with its sessions.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	n, err := s.todos.DeleteByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "Account deleted", "user_id", userID, "todos", n)
	return nil
}
