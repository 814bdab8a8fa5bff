package identity

import "context"

// ErrAccountNotFound is returned when no account table holds the CURP.
// Callers must not surface which lookup failed.
type accountNotFoundError struct{}

func (accountNotFoundError) Error() string { return "account not found" }

var ErrAccountNotFound error = accountNotFoundError{}

type Repository interface {
	// FindByCURP searches the account tables in a fixed order
	// (administrator, doctor, assistant, patient) and returns the first
	// match with its role.
	FindByCURP(ctx context.Context, curp string) (*Account, error)
}
