package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the claims carried by both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType tells access and refresh tokens apart.
	TokenType TokenType `json:"tokenType"`

	// FingerprintHash is the SHA3-256 hex digest of the fingerprint cookie
	// the token was issued alongside. Empty when binding is disabled.
	FingerprintHash string `json:"userFingerprintHash,omitempty"`
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now at whole-second resolution.
// A token is still valid at exactly its exp second and expired one second
// later. exp is mandatory.
func (c *Claims) ValidateExpiry(now time.Time) error {
	now = now.Truncate(time.Second)

	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateType checks the token type claim is one of the known variants.
func (c *Claims) ValidateType() error {
	if !c.TokenType.Valid() {
		return ErrInvalidClaim
	}
	return nil
}
