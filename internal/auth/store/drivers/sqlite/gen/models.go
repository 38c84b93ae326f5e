package gen

import "time"

type Role struct {
	ID        string
	Name      string
	Scopes    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	RoleID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
