package medicalrecord

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	PatientHasRecord(ctx context.Context, patientID uuid.UUID) (bool, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Search returns records joined with the owning patient's name.
	Search(ctx context.Context, filters map[string]string, limit, offset int) ([]*Record, int, error)
}

// PatientDirectory answers whether a patient exists. Implemented by the
// patient repository.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
