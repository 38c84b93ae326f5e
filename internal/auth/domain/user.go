package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	RoleID       string // Foreign key to roles table
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials is what a login is checked against.
type Credentials struct {
	UserID       string
	Username     string
	PasswordHash string
}
