package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/slogx"
	"golang.org/x/time/rate"
)

const ErrorCodeRateLimited = "rate_limit_exceeded"

// RateLimitConfig is a token bucket refilling RequestsPerWindow tokens every
// Window, holding at most Burst.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles, overridable with RATELIMIT_{STRICT,MODERATE,PUBLIC}_{REQUESTS,WINDOW_SEC,BURST}.
var (
	// StrictLimit guards credential checks.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit guards authenticated endpoints.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 60, Window: time.Minute, Burst: 20}

	// PublicLimit guards anonymous read endpoints.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_<prefix>_REQUESTS,
// RATELIMIT_<prefix>_WINDOW_SEC and RATELIMIT_<prefix>_BURST on def.
// Missing, malformed and non-positive values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor groups requests into rate limit buckets. An empty key skips
// limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys on the client address, honouring X-Forwarded-For and
// X-Real-IP.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IdentityKeyExtractor keys on the authenticated username.
func IdentityKeyExtractor(r *http.Request) string {
	if id, ok := IdentityFromContext(r.Context()); ok {
		return id.Username
	}
	return ""
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// FormFieldKeyExtractor keys on a query or form field.
func FormFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return r.FormValue(field)
	}
}

const sweepInterval = 5 * time.Minute

// buckets holds one limiter per key. Idle limiters are dropped on a sweep.
type buckets struct {
	limit rate.Limit
	burst int

	limiters sync.Map // string -> *rate.Limiter

	mu        sync.Mutex
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		limit:     rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (b *buckets) get(key string) *rate.Limiter {
	if l, ok := b.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := b.limiters.LoadOrStore(key, rate.NewLimiter(b.limit, b.burst))
	b.sweep()
	return l.(*rate.Limiter)
}

// sweep removes limiters whose bucket has refilled completely.
func (b *buckets) sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.lastSweep) < sweepInterval {
		return
	}
	b.lastSweep = time.Now()

	b.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(b.burst) {
			b.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware limits requests per key. Rejected requests get 429 with
// Retry-After and the configured limit in X-RateLimit-* headers.
func RateLimitMiddleware(cfg RateLimitConfig, key KeyExtractor) Middleware {
	b := newBuckets(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			k := key(r)
			if k == "" {
				log.Warn("rate limit: no key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := b.get(k)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			log.Warn("rate limit exceeded", "key", k, "path", r.URL.Path, "retry_after", retryAfter)
			WriteError(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "too many requests, try again later")
		})
	}
}

// RateLimitByIP limits by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByIdentity limits by username and client address. Anonymous
// requests are keyed on the address alone.
func RateLimitByIdentity(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IdentityKeyExtractor, IPKeyExtractor))
}

// RateLimitByIPAndFormField limits by client address plus a form field, such
// as the username of a login attempt.
func RateLimitByIPAndFormField(cfg RateLimitConfig, field string) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IPKeyExtractor, FormFieldKeyExtractor(field)))
}
