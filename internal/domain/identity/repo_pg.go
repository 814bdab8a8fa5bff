package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisched/medisched/internal/platform/auth"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// lookup order matters: a CURP present in two tables resolves to the more
// privileged account.
var accountTables = []struct {
	table string
	role  string
}{
	{"admin_user", auth.RoleAdmin},
	{"doctor", auth.RoleDoctor},
	{"assistant", auth.RoleAssistant},
	{"patient", auth.RolePatient},
}

func (r *repoPG) FindByCURP(ctx context.Context, curp string) (*Account, error) {
	for _, t := range accountTables {
		a := Account{Role: t.role}
		err := r.pool.QueryRow(ctx,
			`SELECT id, first_name, last_name, password_hash FROM `+t.table+` WHERE curp = $1`,
			curp).Scan(&a.ID, &a.FirstName, &a.LastName, &a.PasswordHash)
		if err == nil {
			return &a, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return nil, ErrAccountNotFound
}
