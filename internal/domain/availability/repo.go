package availability

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Insert(ctx context.Context, w *Window) error
	DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, day string) ([]*Window, error)
	ListAll(ctx context.Context) ([]*Window, error)
	HasWindows(ctx context.Context, doctorID uuid.UUID) (bool, error)
}

// DoctorDirectory answers whether a doctor exists. Implemented by the staff
// repository.
type DoctorDirectory interface {
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}
