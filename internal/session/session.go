// Package session issues the host platform's session tokens for resolved accounts.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ErrSecretRequired is returned when the issuer is constructed without a signing secret.
var ErrSecretRequired = errors.New("session signing secret is required")

// Issuer mints a session credential for a local account.
type Issuer interface {
	IssueSession(ctx context.Context, accountID string) (string, error)
}

// Claims are the claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTIssuer implements Issuer with HS256-signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer returns a JWTIssuer with the given signing secret and session TTL.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// IssueSession returns a signed session token whose subject is the account ID.
func (j *JWTIssuer) IssueSession(_ context.Context, accountID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("error in SignedString call: %w", err)
	}
	return signed, nil
}

// TTL returns the configured session lifetime.
func (j *JWTIssuer) TTL() time.Duration {
	return j.ttl
}

// Parse verifies the given session token and returns its claims.
func (j *JWTIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("error in jwt.ParseWithClaims call: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}

	return claims, nil
}
