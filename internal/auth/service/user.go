package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/store"
	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/idx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	ErrInvalidUsername    = errors.New("service: invalid username")
	ErrWeakPassword       = errors.New("service: password too short")
	ErrUserExists         = errors.New("service: user already exists")
)

// MinPasswordLength applies to passwords set through CreateUser.
const MinPasswordLength = 8

// CredentialStore looks up the stored credentials for a login name.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (domain.Credentials, error)
}

type UserService struct {
	Store store.Store
}

var _ CredentialStore = (*UserService)(nil)

// FindByUsername returns the credentials stored for username, or
// store.ErrNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (domain.Credentials, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{UserID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash}, nil
}

// LoadIdentity returns the user with the authorities of their role.
func (s *UserService) LoadIdentity(ctx context.Context, username string) (domain.Identity, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Identity{}, err
	}
	role, err := s.Store.Roles().GetRoleByID(ctx, u.RoleID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load role %s: %w", u.RoleID, err)
	}

	return domain.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        role.Name,
		Authorities: role.Scopes,
	}, nil
}

// Authenticate checks a username and password pair. Unknown users and wrong
// passwords both yield ErrInvalidCredentials after the same argon2 work.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(username) == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}

	creds, err := s.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = cryptox.VerifyPassword(password, dummyHash())
		l.Info("login for unknown user", "username", username)
		return domain.Identity{}, ErrInvalidCredentials
	case err != nil:
		return domain.Identity{}, fmt.Errorf("find credentials: %w", err)
	}

	if err := cryptox.VerifyPassword(password, creds.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", "username", username, "err", err)
		}
		l.Info("login with wrong password", "username", username)
		return domain.Identity{}, ErrInvalidCredentials
	}

	return s.LoadIdentity(ctx, creds.Username)
}

// CreateUser adds a user with the named role.
func (s *UserService) CreateUser(ctx context.Context, username, password, roleName string) (domain.User, error) {
	return createUser(ctx, s.Store, username, password, roleName)
}

func createUser(ctx context.Context, st store.Store, username, password, roleName string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, " \t\r\n") {
		return domain.User{}, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	role, err := st.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		return domain.User{}, fmt.Errorf("role %q: %w", roleName, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := st.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}
	return u, nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash is verified against when the user does not exist so both login
// failures cost the same.
func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = cryptox.HashPassword("crumb-timing-equaliser")
	})
	return dummy
}
