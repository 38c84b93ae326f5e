package jwtx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum HMAC secret size in bytes.
const MinSecretLength = 64

var signingMethod = jwt.SigningMethodHS512

// EngineConfig configures an Engine.
type EngineConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Fingerprints controls fingerprint binding during verification.
	Fingerprints cryptox.Fingerprinter

	// Clock defaults to SystemClock.
	Clock Clock
}

// Validate reports every problem with the configuration at once.
func (c EngineConfig) Validate() error {
	var errs []error
	if len(c.Secret) < MinSecretLength {
		errs = append(errs, ErrWeakSecret)
	}
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, ErrMissingIssuer)
	}
	for name, d := range map[string]time.Duration{"access": c.AccessTTL, "refresh": c.RefreshTTL} {
		if d <= 0 || d%time.Second != 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%s", ErrInvalidDuration, name, d))
		}
	}
	return errors.Join(errs...)
}

// Token is an issued, signed token together with the values it was built
// from.
type Token struct {
	Value           string
	Subject         string
	Type            TokenType
	IssuedAt        time.Time
	ExpiresAt       time.Time
	FingerprintHash string
}

// Engine issues and verifies HS512 signed tokens. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	secret       []byte
	issuer       string
	accessTTL    time.Duration
	refreshTTL   time.Duration
	fingerprints cryptox.Fingerprinter
	clock        Clock
	parser       *jwt.Parser
}

// NewEngine validates cfg and builds an Engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Engine{
		secret:       secret,
		issuer:       cfg.Issuer,
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
		fingerprints: cfg.Fingerprints,
		clock:        clock,
		// Time based claims are checked by Check against the injected clock.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Duration returns the configured lifetime for typ.
func (e *Engine) Duration(typ TokenType) (time.Duration, error) {
	switch typ {
	case Access:
		return e.accessTTL, nil
	case Refresh:
		return e.refreshTTL, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownTokenType, uint8(typ))
	}
}

// Issue signs a new token of type typ for subject. fingerprintHash is
// embedded when non-empty.
func (e *Engine) Issue(subject, fingerprintHash string, typ TokenType) (Token, error) {
	ttl, err := e.Duration(typ)
	if err != nil {
		return Token{}, err
	}

	now := e.clock.Now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		TokenType:       typ,
		FingerprintHash: fingerprintHash,
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(e.secret)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign %s token: %w", typ, err)
	}

	return Token{
		Value:           signed,
		Subject:         subject,
		Type:            typ,
		IssuedAt:        now,
		ExpiresAt:       exp,
		FingerprintHash: fingerprintHash,
	}, nil
}

// Check runs every verification step and returns the first failure:
// presence, signature, issuer, expiry, token type and, when binding is
// enabled, the fingerprint.
func (e *Engine) Check(token, fingerprint string) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	claims, err := e.parse(token)
	if err != nil {
		return err
	}
	if err := claims.ValidateIssuer(e.issuer); err != nil {
		return err
	}
	if err := claims.ValidateExpiry(e.clock.Now()); err != nil {
		return err
	}
	if err := claims.ValidateType(); err != nil {
		return err
	}

	if !e.fingerprints.Enabled {
		return nil
	}
	if strings.TrimSpace(fingerprint) == "" || strings.TrimSpace(claims.FingerprintHash) == "" {
		return ErrFingerprintMissing
	}

	presented, err := e.fingerprints.Hash(fingerprint)
	if err != nil {
		return err
	}
	if !cryptox.ConstantTimeEqual(presented, claims.FingerprintHash) {
		return ErrFingerprintMismatch
	}
	return nil
}

// Verify reports whether token is valid and bound to fingerprint. It never
// says why a token was rejected; the cause is logged instead.
func (e *Engine) Verify(ctx context.Context, token, fingerprint string) bool {
	err := e.Check(token, fingerprint)
	if err == nil {
		return true
	}

	log := slogx.FromContext(ctx)
	if errors.Is(err, ErrMissingToken) {
		log.Debug("no token presented")
	} else {
		log.Warn("token verification failed", "err", err)
	}
	return false
}

// SubjectOf returns the subject of a token whose signature is valid. Time
// based claims are not checked, callers are expected to have verified the
// token first.
func (e *Engine) SubjectOf(token string) (string, error) {
	claims, err := e.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (e *Engine) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := e.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return e.secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
