// Package token mints and verifies the signed session tokens that carry a
// user identity between requests.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuerName   = "microblog-api"
	audienceName = "microblog-client"

	// DefaultTTL is the session lifetime applied to every issued token.
	DefaultTTL = 24 * time.Hour
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, wrong signing method, malformed structure, wrong issuer or
// audience, or expiry. Callers get no detail beyond this.
var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer mints and verifies session tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with the given secret. A non-positive
// ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed session token for the given user ID.
func (i *Issuer) Issue(userID uint) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"iss": issuerName,                             // Issuer
		"aud": audienceName,                           // Audience
		"exp": now.Add(i.ttl).Unix(),                  // Expiration
		"iat": now.Unix(),                             // Issued at
		"nbf": now.Unix(),                             // Not before
		"jti": generateJTI(),                          // JWT ID (unique identifier)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify checks signature, expiry, issuer and audience, and returns the
// embedded user ID. It fails closed: any defect yields ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (uint, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	if iss, issOk := claims["iss"].(string); !issOk || iss != issuerName {
		return 0, ErrInvalidToken
	}
	if aud, audOk := claims["aud"].(string); !audOk || aud != audienceName {
		return 0, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}

	return uint(userID), nil
}

// generateJTI creates a unique JWT ID so no two sessions share a token.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
