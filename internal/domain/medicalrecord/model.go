package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// Record is a patient's medical record. Each patient has at most one; it is
// a single cumulative document, not a visit history. VitalSigns is free-form
// structured data stored as JSONB.
type Record struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	PatientID   uuid.UUID              `db:"patient_id" json:"paciente_id"`
	DoctorID    uuid.UUID              `db:"doctor_id" json:"medico_id"`
	Diagnosis   string                 `db:"diagnosis" json:"diagnostico"`
	Medications string                 `db:"medications" json:"medicamentos,omitempty"`
	VitalSigns  map[string]interface{} `db:"vital_signs" json:"signos_vitales,omitempty"`
	Date        string                 `db:"record_date" json:"fecha"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updated_at"`

	// Filled on listings from the patient directory.
	PatientFirstName string `db:"-" json:"paciente_nombre,omitempty"`
	PatientLastName  string `db:"-" json:"paciente_apellidos,omitempty"`
}

type CreateParams struct {
	PatientID   uuid.UUID              `json:"paciente_id"`
	Diagnosis   string                 `json:"diagnostico"`
	Medications string                 `json:"medicamentos"`
	VitalSigns  map[string]interface{} `json:"signos_vitales"`
	Date        string                 `json:"fecha"`
}

type UpdateParams struct {
	Diagnosis   *string                 `json:"diagnostico"`
	Medications *string                 `json:"medicamentos"`
	VitalSigns  *map[string]interface{} `json:"signos_vitales"`
	Date        *string                 `json:"fecha"`
}

func (p UpdateParams) empty() bool {
	return p.Diagnosis == nil && p.Medications == nil && p.VitalSigns == nil && p.Date == nil
}
