package availability

import (
	"context"

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

const cols = `id, doctor_id, day_of_week, start_time, end_time, created_at`

func scanWindow(row pgx.Row) (*Window, error) {
	var w Window
	err := row.Scan(&w.ID, &w.DoctorID, &w.Day, &w.StartTime, &w.EndTime, &w.CreatedAt)
	return &w, err
}

func (r *repoPG) Insert(ctx context.Context, w *Window) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO availability_window (id, doctor_id, day_of_week, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5)`,
		w.ID, w.DoctorID, w.Day, w.StartTime, w.EndTime)
	return err
}

func (r *repoPG) DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM availability_window WHERE doctor_id = $1`, doctorID)
	return err
}

func (r *repoPG) ListForDoctor(ctx context.Context, doctorID uuid.UUID, day string) ([]*Window, error) {
	query := `SELECT ` + cols + ` FROM availability_window WHERE doctor_id = $1`
	args := []interface{}{doctorID}
	if day != "" {
		query += ` AND day_of_week = $2`
		args = append(args, day)
	}
	query += ` ORDER BY day_of_week, start_time`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Window, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM availability_window ORDER BY doctor_id, day_of_week, start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) HasWindows(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM availability_window WHERE doctor_id = $1)`,
		doctorID).Scan(&exists)
	return exists, err
}

func collect(rows pgx.Rows) ([]*Window, error) {
	var items []*Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}
