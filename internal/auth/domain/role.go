package domain

import "time"

// Well known roles seeded by the initial migration.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Role struct {
	ID        string
	Name      string
	Scopes    []string // Parsed from space-delimited storage
	CreatedAt time.Time
	UpdatedAt time.Time
}
