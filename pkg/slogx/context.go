package slogx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type (
	loggerKey struct{}
	stateKey  struct{}
)

// requestState is shared between HTTPMiddleware and the handlers below it so
// values learned late in the chain reach the access log line.
type requestState struct {
	user atomic.Value // string
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request scoped logger, falling back to the default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	l, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithUser tags the context logger with the authenticated username and
// records it for the request's access log line.
func WithUser(ctx context.Context, username string) context.Context {
	if st, ok := ctx.Value(stateKey{}).(*requestState); ok {
		st.user.Store(username)
	}
	return WithContext(ctx, FromContext(ctx).With("user", username))
}

func withState(ctx context.Context) (context.Context, *requestState) {
	st := &requestState{}
	return context.WithValue(ctx, stateKey{}, st), st
}

func (s *requestState) username() string {
	u, _ := s.user.Load().(string)
	return u
}
