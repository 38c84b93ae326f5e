package cookiex

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
)

const (
	// HostPrefix is prepended to token cookie names when Config.PrefixEnabled
	// is set. Browsers only accept such cookies when Secure, Path=/ and no
	// Domain.
	HostPrefix = "__Host-"

	// FingerprintCookieName is the fixed name of the fingerprint cookie.
	FingerprintCookieName = "__Secure-Fpg"
)

// Config holds the cookie attributes applied to token cookies.
type Config struct {
	AccessCookieName  string
	RefreshCookieName string

	WithFingerprint bool
	PrefixEnabled   bool

	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
	Domain   string
}

// TokenIssuer mints signed tokens. *jwtx.Engine implements it.
type TokenIssuer interface {
	Issue(subject, fingerprintHash string, typ jwtx.TokenType) (jwtx.Token, error)
}

// Names are the cookie names as they appear on requests.
type Names struct {
	Access      string
	Refresh     string
	Fingerprint string
}

// Manager renders the cookies that carry tokens and fingerprints.
type Manager struct {
	tokens       TokenIssuer
	fingerprints cryptox.Fingerprinter
	cfg          Config
}

func NewManager(tokens TokenIssuer, cfg Config) *Manager {
	return &Manager{
		tokens:       tokens,
		fingerprints: cryptox.Fingerprinter{Enabled: cfg.WithFingerprint},
		cfg:          cfg,
	}
}

// Names returns the request side cookie names.
func (m *Manager) Names() Names {
	access, _ := m.cookieName(jwtx.Access)
	refresh, _ := m.cookieName(jwtx.Refresh)
	return Names{
		Access:      access,
		Refresh:     refresh,
		Fingerprint: FingerprintCookieName,
	}
}

// Issue mints an access and a refresh token for subject, both bound to a
// fresh fingerprint, and returns their cookies in that order followed by the
// fingerprint cookie when binding is enabled.
func (m *Manager) Issue(subject string) ([]Directive, error) {
	fingerprint, err := m.fingerprints.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := m.fingerprints.Hash(fingerprint)
	if err != nil {
		return nil, err
	}

	directives := make([]Directive, 0, 3)
	for _, typ := range []jwtx.TokenType{jwtx.Access, jwtx.Refresh} {
		tok, err := m.tokens.Issue(subject, hash, typ)
		if err != nil {
			return nil, fmt.Errorf("cookiex: issue %s token: %w", typ, err)
		}
		d, err := m.tokenCookie(tok)
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}

	if m.fingerprints.Enabled {
		d := fingerprintCookie()
		d.Value = fingerprint
		d.MaxAge = SessionMaxAge
		directives = append(directives, d)
	}
	return directives, nil
}

// Delete returns directives that expire the access, refresh and fingerprint
// cookies.
func (m *Manager) Delete() []Directive {
	names := m.Names()
	return []Directive{
		m.expired(names.Access),
		m.expired(names.Refresh),
		fingerprintCookie(),
	}
}

// fingerprintCookie carries fixed attributes regardless of configuration.
// Its MaxAge is 0 so the bare directive is a deletion.
func fingerprintCookie() Directive {
	return Directive{
		Name:     FingerprintCookieName,
		HTTPOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

func (m *Manager) tokenCookie(tok jwtx.Token) (Directive, error) {
	name, err := m.cookieName(tok.Type)
	if err != nil {
		return Directive{}, err
	}

	d := m.withAttributes(name)
	d.Value = tok.Value
	d.MaxAge = int(tok.ExpiresAt.Sub(tok.IssuedAt) / time.Second)
	return d, nil
}

func (m *Manager) expired(name string) Directive {
	d := m.withAttributes(name)
	d.MaxAge = 0
	return d
}

func (m *Manager) withAttributes(name string) Directive {
	return Directive{
		Name:     name,
		HTTPOnly: m.cfg.HTTPOnly,
		Secure:   m.cfg.Secure,
		SameSite: m.cfg.SameSite,
		Path:     m.cfg.Path,
		Domain:   m.cfg.Domain,
	}
}

func (m *Manager) cookieName(typ jwtx.TokenType) (string, error) {
	var name string
	switch typ {
	case jwtx.Access:
		name = m.cfg.AccessCookieName
	case jwtx.Refresh:
		name = m.cfg.RefreshCookieName
	default:
		return "", fmt.Errorf("cookiex: %w: %d", jwtx.ErrUnknownTokenType, uint8(typ))
	}

	if m.cfg.PrefixEnabled {
		name = HostPrefix + name
	}
	return name, nil
}
