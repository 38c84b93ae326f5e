package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers. Repos
// are exposed as methods so a Tx can hand out the same repos bound to the
// transaction, and nested transactions are impossible to start by accident.
type Store interface {
	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. ErrAlreadyExists when the username is
	// taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its name (for bootstrap)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	ListAll(ctx context.Context) ([]domain.Role, error)
}
