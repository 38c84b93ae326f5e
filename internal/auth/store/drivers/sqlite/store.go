package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/store"
	"github.com/aussiebroadwan/crumb/internal/auth/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db    *sql.DB
	q     *gen.Queries
	dsn   string
	now   func() time.Time
	roles *roleCache
}

// NewStore opens the database at dsn. ":memory:" databases are pinned to a
// single connection so every query sees the same schema, file databases get
// foreign keys and a busy timeout on every pooled connection.
func NewStore(dsn string) (*Store, error) {
	memory := dsn == ":memory:"
	if !memory && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:    db,
		q:     gen.New(db),
		dsn:   dsn,
		now:   func() time.Time { return time.Now().UTC() },
		roles: &roleCache{},
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.now, s.roles), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users { return &usersRepo{q: s.q, now: s.now} }
func (s *Store) Roles() store.Roles { return &rolesRepo{q: s.q, cache: s.roles} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// mapAffected turns an update or delete that touched nothing into
// store.ErrNotFound.
func mapAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		RoleID:       row.RoleID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func mapRole(row gen.Role) domain.Role {
	return domain.Role{
		ID:        row.ID,
		Name:      row.Name,
		Scopes:    httpx.ParseSpaceDelimitedFields(row.Scopes),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
