package booking

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStatus is assigned to newly created appointments. Status is free
// text after that; callers may move an appointment through whatever labels
// the clinic uses.
const DefaultStatus = "programada"

// Appointment is one booked slot: a (doctor, date, time) triple held by a
// patient. Date is YYYY-MM-DD and Time is HH:MM; both travel as strings and
// are never validated against a calendar.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"cita_id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"paciente_id"`
	DoctorID    uuid.UUID  `db:"doctor_id" json:"medico_id"`
	AssistantID *uuid.UUID `db:"assistant_id" json:"asistente_id,omitempty"`
	Date        string     `db:"visit_date" json:"fecha"`
	Time        string     `db:"visit_time" json:"hora"`
	Status      string     `db:"status" json:"estado"`
	Notes       string     `db:"notes" json:"notas,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	PatientID uuid.UUID `json:"paciente_id"`
	DoctorID  uuid.UUID `json:"medico_id"`
	Date      string    `json:"fecha"`
	Time      string    `json:"hora"`
	Notes     string    `json:"notas"`
}

// UpdateParams carries the mutable appointment fields. Omitted fields keep
// their stored value.
type UpdateParams struct {
	Date   *string `json:"fecha"`
	Time   *string `json:"hora"`
	Status *string `json:"estado"`
	Notes  *string `json:"notas"`
}

func (p UpdateParams) empty() bool {
	return p.Date == nil && p.Time == nil && p.Status == nil && p.Notes == nil
}
