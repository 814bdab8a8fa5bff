package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisched/medisched/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, first_name, last_name, curp, address, phone, email,
	birth_date, status, assigned_doctor_id, password_hash, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.CURP, &p.Address, &p.Phone, &p.Email,
		&p.BirthDate, &p.Status, &p.AssignedDoctorID, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, curp, address, phone, email,
			birth_date, status, assigned_doctor_id, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.FirstName, p.LastName, p.CURP, p.Address, p.Phone, p.Email,
		p.BirthDate, p.Status, p.AssignedDoctorID, p.PasswordHash)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) CURPExists(ctx context.Context, curp string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE curp = $1 AND id != $2)`,
		curp, exclude).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, curp=$4, address=$5, phone=$6,
			email=$7, birth_date=$8, status=$9, assigned_doctor_id=$10, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.CURP, p.Address, p.Phone,
		p.Email, p.BirthDate, p.Status, p.AssignedDoctorID)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + cols + ` FROM patient WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM patient WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["nombre"]; ok {
		query += fmt.Sprintf(` AND first_name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND first_name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["apellidos"]; ok {
		query += fmt.Sprintf(` AND last_name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND last_name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["curp"]; ok {
		query += fmt.Sprintf(` AND curp = $%d`, idx)
		countQuery += fmt.Sprintf(` AND curp = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["medico_id"]; ok {
		query += fmt.Sprintf(` AND assigned_doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND assigned_doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
