package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
)

var (
	ErrMissingSecret     = errors.New("config: AUTH_SECRET is required")
	ErrInvalidCookieName = errors.New("config: cookie names must be distinct and non-blank")
	ErrInvalidSameSite   = errors.New("config: AUTH_COOKIE_SAME_SITE must be Strict, Lax or None")
	ErrHostPrefix        = errors.New("config: __Host- prefix needs Secure, Path=/ and no Domain")
	ErrInvalidValue      = errors.New("config: malformed value")
)

type Config struct {
	Secret     string        // Required: HMAC secret, at least 64 bytes
	Issuer     string        // Required: issuer claim for tokens
	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)

	AccessCookieName  string // default: access_token
	RefreshCookieName string // default: refresh_token
	WithFingerprint   bool   // Bind tokens to a fingerprint cookie (default: true)
	PrefixEnabled     bool   // Prefix token cookies with __Host- (default: true)
	CookieHTTPOnly    bool
	CookieSecure      bool
	CookieSameSite    string // Strict, Lax, None (default: Strict)
	CookiePath        string
	CookieDomain      string

	DatabaseFile      string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile        string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	BootstrapUsername string // Optional: admin created when no user exists
	BootstrapPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	env := &envReader{}
	cfg := Config{
		Secret:     os.Getenv("AUTH_SECRET"),
		Issuer:     os.Getenv("AUTH_ISSUER"),
		AccessTTL:  env.getDuration("AUTH_ACCESS_TOKEN_EXPIRATION", 15*time.Minute),
		RefreshTTL: env.getDuration("AUTH_REFRESH_TOKEN_EXPIRATION", 7*24*time.Hour),

		AccessCookieName:  getEnvOrDefault("AUTH_ACCESS_TOKEN_COOKIE_NAME", "access_token"),
		RefreshCookieName: getEnvOrDefault("AUTH_REFRESH_TOKEN_COOKIE_NAME", "refresh_token"),
		WithFingerprint:   env.getBool("AUTH_COOKIE_WITH_FINGERPRINT", true),
		PrefixEnabled:     env.getBool("AUTH_COOKIE_PREFIX_ENABLED", true),
		CookieHTTPOnly:    env.getBool("AUTH_COOKIE_HTTP_ONLY", true),
		CookieSecure:      env.getBool("AUTH_COOKIE_SECURE", true),
		CookieSameSite:    getEnvOrDefault("AUTH_COOKIE_SAME_SITE", "Strict"),
		CookiePath:        getEnvOrDefault("AUTH_COOKIE_PATH", "/"),
		CookieDomain:      os.Getenv("AUTH_COOKIE_DOMAIN"),

		DatabaseFile:      getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:        getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		BootstrapUsername: os.Getenv("AUTH_BOOTSTRAP_USERNAME"),
		BootstrapPassword: os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                env.getInt("PORT", 8080),
		ShutdownGracePeriod: env.getDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Secret == "" {
		errs = append(errs, ErrMissingSecret)
	}
	// Secret length, issuer and durations are owned by the engine.
	if err := c.Engine(jwtx.SystemClock{}).Validate(); err != nil {
		errs = append(errs, err)
	}

	access := strings.TrimSpace(c.AccessCookieName)
	refresh := strings.TrimSpace(c.RefreshCookieName)
	if access == "" || refresh == "" || access == refresh {
		errs = append(errs, ErrInvalidCookieName)
	}

	if _, err := parseSameSite(c.CookieSameSite); err != nil {
		errs = append(errs, err)
	}

	if c.PrefixEnabled && (!c.CookieSecure || c.CookiePath != "/" || c.CookieDomain != "") {
		errs = append(errs, ErrHostPrefix)
	}

	return errors.Join(errs...)
}

// Engine projects the token settings into a jwtx.EngineConfig.
func (c Config) Engine(clock jwtx.Clock) jwtx.EngineConfig {
	return jwtx.EngineConfig{
		Secret:       []byte(c.Secret),
		Issuer:       c.Issuer,
		AccessTTL:    c.AccessTTL,
		RefreshTTL:   c.RefreshTTL,
		Fingerprints: cryptox.Fingerprinter{Enabled: c.WithFingerprint},
		Clock:        clock,
	}
}

// Cookies projects the cookie settings into a cookiex.Config. Call it on a
// validated Config.
func (c Config) Cookies() cookiex.Config {
	sameSite, _ := parseSameSite(c.CookieSameSite)
	return cookiex.Config{
		AccessCookieName:  strings.TrimSpace(c.AccessCookieName),
		RefreshCookieName: strings.TrimSpace(c.RefreshCookieName),
		WithFingerprint:   c.WithFingerprint,
		PrefixEnabled:     c.PrefixEnabled,
		HTTPOnly:          c.CookieHTTPOnly,
		Secure:            c.CookieSecure,
		SameSite:          sameSite,
		Path:              c.CookiePath,
		Domain:            c.CookieDomain,
	}
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("%w: %q", ErrInvalidSameSite, v)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader reads typed variables and remembers the ones it could not parse.
type envReader struct {
	errs []error
}

func (e *envReader) invalid(key, value string) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value))
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

func (e *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.invalid(key, value)
		return defaultValue
	}
	return intValue
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		e.invalid(key, value)
		return defaultValue
	}
	return b
}

func (e *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	e.invalid(key, value)
	return defaultValue
}
