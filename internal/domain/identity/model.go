package identity

import "github.com/google/uuid"

// Credentials is the login request body. Accounts are looked up by CURP, the
// national identity key shared by every account table.
type Credentials struct {
	CURP     string `json:"curp"`
	Password string `json:"contrasena"`
}

// Account is a principal found in one of the four account tables.
type Account struct {
	ID           uuid.UUID
	Role         string
	FirstName    string
	LastName     string
	PasswordHash string
}

// User is the public view of the authenticated principal.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellidos"`
	Role      string    `json:"rol"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
