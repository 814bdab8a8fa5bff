package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/medisched/medisched/internal/domain/availability"
)

// Kind distinguishes the two staff populations. Doctors carry a specialty
// and an availability schedule; assistants may be attached to one doctor.
type Kind string

const (
	KindDoctor    Kind = "medico"
	KindAssistant Kind = "asistente"
)

func (k Kind) valid() bool { return k == KindDoctor || k == KindAssistant }

// Worker is a staff member of either kind. Specialty is set only for
// doctors, AssignedDoctorID only for assistants.
type Worker struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Kind             Kind       `db:"kind" json:"tipo"`
	FirstName        string     `db:"first_name" json:"nombre"`
	LastName         string     `db:"last_name" json:"apellidos"`
	CURP             string     `db:"curp" json:"curp"`
	Phone            string     `db:"phone" json:"telefono"`
	Email            string     `db:"email" json:"email"`
	Specialty        *string    `db:"specialty" json:"especialidad,omitempty"`
	AssignedDoctorID *uuid.UUID `db:"assigned_doctor_id" json:"medico_id,omitempty"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	Kind             Kind                        `json:"tipo"`
	FirstName        string                      `json:"nombre"`
	LastName         string                      `json:"apellidos"`
	CURP             string                      `json:"curp"`
	Phone            string                      `json:"telefono"`
	Email            string                      `json:"email"`
	Password         string                      `json:"contrasena"`
	Specialty        *string                     `json:"especialidad"`
	AssignedDoctorID *uuid.UUID                  `json:"medico_id"`
	Windows          []availability.WindowParams `json:"horarios"`
}

// UpdateParams carries the optional fields of a partial update.
type UpdateParams struct {
	FirstName        *string    `json:"nombre"`
	LastName         *string    `json:"apellidos"`
	CURP             *string    `json:"curp"`
	Phone            *string    `json:"telefono"`
	Email            *string    `json:"email"`
	Specialty        *string    `json:"especialidad"`
	AssignedDoctorID *uuid.UUID `json:"medico_id"`
}

func (p UpdateParams) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.CURP == nil &&
		p.Phone == nil && p.Email == nil && p.Specialty == nil &&
		p.AssignedDoctorID == nil
}
