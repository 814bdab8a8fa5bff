package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/medisched/medisched/internal/domain/availability"
)

type Repository interface {
	CreateDoctor(ctx context.Context, w *Worker) error
	CreateAssistant(ctx context.Context, w *Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
	AssistantExists(ctx context.Context, id uuid.UUID) (bool, error)
	// CURPExists checks the CURP across both staff tables.
	CURPExists(ctx context.Context, curp string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, w *Worker) error
	Search(ctx context.Context, filters map[string]string, limit, offset int) ([]*Worker, int, error)
}

// ScheduleWriter inserts a doctor's initial availability windows. Implemented
// by the availability service so that doctor registration can write the
// doctor row and its schedule in a single transaction.
type ScheduleWriter interface {
	InsertForDoctor(ctx context.Context, doctorID uuid.UUID, windows []availability.WindowParams) ([]*availability.Window, error)
}
