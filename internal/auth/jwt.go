// Package auth is the identity provider: it issues and verifies the signed
// bearer tokens that carry a user's id and email, hashes passwords, and
// keeps the revocation list consulted on every verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrRevokedToken = errors.New("token has been revoked")
)

// MinSecretLength is the shortest HMAC secret NewJWTManager accepts.
const MinSecretLength = 32

// Claims are the JWT claims: the user's id and email plus the registered
// claims (expiry, issued-at, token id).
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 tokens.
type JWTManager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

// NewJWTManager builds a manager. revoker may be NopRevoker when no
// revocation store is configured.
func NewJWTManager(secret string, ttl time.Duration, revoker Revoker) (*JWTManager, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth.NewJWTManager: secret must be at least %d bytes", MinSecretLength)
	}
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, revoker: revoker, now: time.Now}, nil
}

// Issue signs a token for user.
func (m *JWTManager) Issue(user domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.JWTManager.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks its signature, expiry and revocation,
// and returns the claim it carries.
func (m *JWTManager) Verify(ctx context.Context, token string) (domain.Claim, error) {
	if token == "" {
		return domain.Claim{}, ErrMissingToken
	}

	key := func(*jwt.Token) (any, error) { return m.secret, nil }
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Claim{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("%w: bad user id", ErrInvalidToken)
	}

	revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("auth.JWTManager.Verify: %w", err)
	}
	if revoked {
		return domain.Claim{}, ErrRevokedToken
	}

	return domain.Claim{
		UserID:    id,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke puts the claim's token on the revocation list until it would have
// expired anyway.
func (m *JWTManager) Revoke(ctx context.Context, c domain.Claim) error {
	ttl := c.ExpiresAt.Sub(m.now())
	if c.TokenID == "" || ttl <= 0 {
		return nil
	}
	if err := m.revoker.Revoke(ctx, c.TokenID, ttl); err != nil {
		return fmt.Errorf("auth.JWTManager.Revoke: %w", err)
	}
	return nil
}
