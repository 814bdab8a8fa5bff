package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SlotTaken reports whether any appointment other than exclude already
	// holds the exact (doctor, date, time) slot.
	SlotTaken(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, exclude uuid.UUID) (bool, error)
	Search(ctx context.Context, filters map[string]string, limit, offset int) ([]*Appointment, int, error)
}

// AvailabilityChecker reports whether a doctor has any availability windows
// on record. Implemented by the availability repository. Only existence is
// consulted; the window's day and hours are not matched against the proposed
// slot.
type AvailabilityChecker interface {
	HasWindows(ctx context.Context, doctorID uuid.UUID) (bool, error)
}
