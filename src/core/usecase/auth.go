package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"piadas/src/core/domain"
	"piadas/src/core/ports"
)

// AuthService handles registration and credential login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    *slog.Logger

	// dummyHash is compared against when the username is unknown.
	dummyHash string
}

// staticDummyHash is a well-formed cost-10 bcrypt hash, used when the
// hasher cannot produce one at startup.
const staticDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log *slog.Logger) *AuthService {
	dummy, err := hasher.Hash("fallback-password")
	if err != nil || dummy == "" {
		log.Warn("failed to build fallback hash, using static hash", "error", err)
		dummy = staticDummyHash
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}
}

// LoginResult carries the issued token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", domain.MinPasswordLength))
	}
	if len(password) > domain.MaxPasswordBytes {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", domain.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a bearer token.
// Unknown usernames and wrong passwords return the same unauthorized error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, err
		}
		// keep timing equal to the wrong-password path
		s.hasher.Verify(s.dummyHash, password)
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(token string) (int64, error) {
	if token == "" {
		return 0, domain.ErrInvalidToken
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
