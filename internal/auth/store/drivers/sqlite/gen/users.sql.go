package gen

import (
	"context"
	"time"
)

const userColumns = `id, username, password_hash, role_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const createUser = `
INSERT INTO users (id, username, password_hash, role_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateUserParams struct {
	ID           string
	Username     string
	PasswordHash string
	RoleID       string
	CreatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser,
		arg.ID,
		arg.Username,
		arg.PasswordHash,
		arg.RoleID,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return err
}

const updateUserPasswordHash = `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

type UpdateUserPasswordHashParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           string
}

// UpdateUserPasswordHash reports the number of rows changed.
func (q *Queries) UpdateUserPasswordHash(ctx context.Context, arg UpdateUserPasswordHashParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserPasswordHash, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteUser = `DELETE FROM users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}
