package sqlite

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/store/drivers/sqlite/gen"
)

// roleCache keeps roles by ID. Roles only change through migrations, and the
// cookie filter resolves a role on every authenticated request.
type roleCache struct {
	byID sync.Map // string -> domain.Role
}

func (c *roleCache) get(id string) (domain.Role, bool) {
	if c == nil {
		return domain.Role{}, false
	}
	v, ok := c.byID.Load(id)
	if !ok {
		return domain.Role{}, false
	}
	return v.(domain.Role), true
}

func (c *roleCache) put(r domain.Role) domain.Role {
	if c != nil {
		c.byID.Store(r.ID, r)
	}
	return r
}

type rolesRepo struct {
	q     *gen.Queries
	cache *roleCache
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	if role, ok := r.cache.get(id); ok {
		return role, nil
	}

	row, err := r.q.GetRoleByID(ctx, id)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r.cache.put(mapRole(row)), nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row, err := r.q.GetRoleByName(ctx, name)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r.cache.put(mapRole(row)), nil
}

// ListAll returns every role ordered by name and refreshes the cache.
func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.ListAllRoles(ctx)
	if err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, r.cache.put(mapRole(row)))
	}
	return roles, nil
}
