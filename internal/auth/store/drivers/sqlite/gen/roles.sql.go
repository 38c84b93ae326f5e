package gen

import "context"

const roleColumns = `id, name, scopes, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.Name, &r.Scopes, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const getRoleByID = `SELECT ` + roleColumns + ` FROM roles WHERE id = ?`

func (q *Queries) GetRoleByID(ctx context.Context, id string) (Role, error) {
	return scanRole(q.db.QueryRowContext(ctx, getRoleByID, id))
}

const getRoleByName = `SELECT ` + roleColumns + ` FROM roles WHERE name = ?`

func (q *Queries) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return scanRole(q.db.QueryRowContext(ctx, getRoleByName, name))
}

const listAllRoles = `SELECT ` + roleColumns + ` FROM roles ORDER BY name`

func (q *Queries) ListAllRoles(ctx context.Context) ([]Role, error) {
	rows, err := q.db.QueryContext(ctx, listAllRoles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
