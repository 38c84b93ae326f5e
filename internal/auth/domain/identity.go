package domain

// Identity is a user together with the authorities granted by their role.
type Identity struct {
	UserID      string
	Username    string
	Role        string
	Authorities []string
}
