package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/store"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("service: bootstrap needs both username and password")

type BootstrapService struct {
	Store store.Store
}

// IsBootstrapped reports whether any user exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// EnsureAdmin creates an admin user when the user table is empty. It is a
// no-op once any user exists or when no credentials are configured.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	if username == "" && password == "" {
		return false, nil
	}
	if username == "" || password == "" {
		return false, ErrBootstrapIncomplete
	}

	var created domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}

		created, err = createUser(ctx, tx, username, password, domain.RoleAdmin)
		return err
	})
	if err != nil {
		l.Error("bootstrap admin", slog.Any("error", err))
		return false, err
	}

	if created.ID == "" {
		l.Debug("bootstrap skipped, users exist")
		return false, nil
	}
	l.Info("bootstrapped admin user", slog.String("user_id", created.ID), slog.String("username", created.Username))
	return true, nil
}
