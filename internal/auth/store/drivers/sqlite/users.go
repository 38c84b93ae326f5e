package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		CreatedAt:    created,
	})
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return mapAffected(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    r.now(),
		ID:           userID,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return mapAffected(r.q.DeleteUser(ctx, userID))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
