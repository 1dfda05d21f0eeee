package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"piadas/src/core/domain"
	"piadas/src/core/ports"
)

var _ ports.TokenService = (*TokenManager)(nil)

// Claims defines JWT claims
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. Tokens are self-contained;
// nothing is stored server side and there is no revocation.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = domain.DefaultTokenTTL
	}
	m := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue signs a token for userID valid for the configured TTL.
func (m *TokenManager) Issue(userID int64) (string, domain.TokenClaims, error) {
	now := m.now()
	cl := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, toDomainClaims(cl), nil
}

// Verify checks signature, algorithm and expiry. A token is rejected from
// the instant exp is reached; there is no leeway. Every failure is reported
// as domain.ErrInvalidToken.
func (m *TokenManager) Verify(token string) (domain.TokenClaims, error) {
	var cl Claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.TokenClaims{}, errors.Join(domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || cl.UserID <= 0 {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	return toDomainClaims(cl), nil
}

func toDomainClaims(cl Claims) domain.TokenClaims {
	out := domain.TokenClaims{ID: cl.ID, UserID: cl.UserID}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		out.ExpiresAt = cl.ExpiresAt.Time
	}
	return out
}
