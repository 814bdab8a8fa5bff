package staff

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

// unionSQL presents both staff tables as one relation. Specialty is NULL for
// assistants, assigned_doctor_id is NULL for doctors.
const unionSQL = `
	SELECT id, 'medico' AS kind, first_name, last_name, curp, phone, email,
		specialty, NULL::uuid AS assigned_doctor_id, password_hash, created_at, updated_at
	FROM doctor
	UNION ALL
	SELECT id, 'asistente', first_name, last_name, curp, phone, email,
		NULL, assigned_doctor_id, password_hash, created_at, updated_at
	FROM assistant`

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(&w.ID, &w.Kind, &w.FirstName, &w.LastName, &w.CURP, &w.Phone, &w.Email,
		&w.Specialty, &w.AssignedDoctorID, &w.PasswordHash, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *repoPG) CreateDoctor(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor (id, first_name, last_name, curp, phone, email, specialty, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		w.ID, w.FirstName, w.LastName, w.CURP, w.Phone, w.Email, w.Specialty, w.PasswordHash)
	return err
}

func (r *repoPG) CreateAssistant(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO assistant (id, first_name, last_name, curp, phone, email, assigned_doctor_id, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		w.ID, w.FirstName, w.LastName, w.CURP, w.Phone, w.Email, w.AssignedDoctorID, w.PasswordHash)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return scanWorker(r.conn(ctx).QueryRow(ctx,
		`SELECT * FROM (`+unionSQL+`) AS staff WHERE id = $1`, id))
}

func (r *repoPG) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) AssistantExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assistant WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) CURPExists(ctx context.Context, curp string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor WHERE curp = $1 AND id != $2
			UNION ALL
			SELECT 1 FROM assistant WHERE curp = $1 AND id != $2
		)`, curp, exclude).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, w *Worker) error {
	if w.Kind == KindDoctor {
		_, err := r.conn(ctx).Exec(ctx, `
			UPDATE doctor SET first_name=$2, last_name=$3, curp=$4, phone=$5,
				email=$6, specialty=$7, updated_at=NOW()
			WHERE id = $1`,
			w.ID, w.FirstName, w.LastName, w.CURP, w.Phone, w.Email, w.Specialty)
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE assistant SET first_name=$2, last_name=$3, curp=$4, phone=$5,
			email=$6, assigned_doctor_id=$7, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.FirstName, w.LastName, w.CURP, w.Phone, w.Email, w.AssignedDoctorID)
	return err
}

func (r *repoPG) Delete(ctx context.Context, w *Worker) error {
	table := "assistant"
	if w.Kind == KindDoctor {
		table = "doctor"
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, w.ID)
	return err
}

func (r *repoPG) Search(ctx context.Context, filters map[string]string, limit, offset int) ([]*Worker, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := filters["tipo"]; ok {
		where += fmt.Sprintf(` AND kind = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["nombre"]; ok {
		where += fmt.Sprintf(` AND first_name ILIKE $%d`, idx)
		args = append(args, "%"+v+"%")
		idx++
	}
	if v, ok := filters["apellidos"]; ok {
		where += fmt.Sprintf(` AND last_name ILIKE $%d`, idx)
		args = append(args, "%"+v+"%")
		idx++
	}
	if v, ok := filters["curp"]; ok {
		where += fmt.Sprintf(` AND curp = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["especialidad"]; ok {
		where += fmt.Sprintf(` AND specialty ILIKE $%d`, idx)
		args = append(args, "%"+v+"%")
		idx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + unionSQL + `) AS staff` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM (` + unionSQL + `) AS staff` + where +
		fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, rows.Err()
}
