package medicalrecord

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

const cols = `id, patient_id, doctor_id, diagnosis, medications, vital_signs,
	record_date, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.Diagnosis, &rec.Medications,
		&rec.VitalSigns, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_record (id, patient_id, doctor_id, diagnosis, medications, vital_signs, record_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Medications, rec.VitalSigns, rec.Date)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM medical_record WHERE id = $1`, id))
}

func (r *repoPG) PatientHasRecord(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medical_record WHERE patient_id = $1)`,
		patientID).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_record SET diagnosis=$2, medications=$3, vital_signs=$4, record_date=$5, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Diagnosis, rec.Medications, rec.VitalSigns, rec.Date)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_record WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, filters map[string]string, limit, offset int) ([]*Record, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	for param, column := range map[string]string{
		"medico_id":   "r.doctor_id",
		"paciente_id": "r.patient_id",
		"fecha":       "r.record_date",
	} {
		if v, ok := filters[param]; ok {
			where += fmt.Sprintf(` AND %s = $%d`, column, idx)
			args = append(args, v)
			idx++
		}
	}
	for param, column := range map[string]string{
		"nombre":    "p.first_name",
		"apellidos": "p.last_name",
	} {
		if v, ok := filters[param]; ok {
			where += fmt.Sprintf(` AND %s ILIKE $%d`, column, idx)
			args = append(args, "%"+v+"%")
			idx++
		}
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM medical_record r JOIN patient p ON p.id = r.patient_id` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.patient_id, r.doctor_id, r.diagnosis, r.medications, r.vital_signs,
			r.record_date, r.created_at, r.updated_at, p.first_name, p.last_name
		FROM medical_record r
		JOIN patient p ON p.id = r.patient_id` + where +
		fmt.Sprintf(` ORDER BY r.record_date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.Diagnosis, &rec.Medications,
			&rec.VitalSigns, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.PatientFirstName, &rec.PatientLastName); err != nil {
			return nil, 0, err
		}
		items = append(items, &rec)
	}
	return items, total, rows.Err()
}
