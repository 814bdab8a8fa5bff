package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"nombre"`
	LastName         string     `db:"last_name" json:"apellidos"`
	CURP             string     `db:"curp" json:"curp"`
	Address          string     `db:"address" json:"direccion"`
	Phone            string     `db:"phone" json:"telefono"`
	Email            string     `db:"email" json:"email"`
	BirthDate        string     `db:"birth_date" json:"fecha_nacimiento"`
	Status           string     `db:"status" json:"estado"`
	AssignedDoctorID *uuid.UUID `db:"assigned_doctor_id" json:"medico_id,omitempty"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateParams carries the fields required to register a patient.
type CreateParams struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellidos"`
	CURP      string `json:"curp"`
	Address   string `json:"direccion"`
	Phone     string `json:"telefono"`
	Email     string `json:"email"`
	BirthDate string `json:"fecha_nacimiento"`
	Password  string `json:"contrasena"`
}

// UpdateParams carries the optional fields of a partial update. Nil fields
// retain their stored value.
type UpdateParams struct {
	FirstName        *string    `json:"nombre"`
	LastName         *string    `json:"apellidos"`
	CURP             *string    `json:"curp"`
	Address          *string    `json:"direccion"`
	Phone            *string    `json:"telefono"`
	Email            *string    `json:"email"`
	BirthDate        *string    `json:"fecha_nacimiento"`
	Status           *string    `json:"estado"`
	AssignedDoctorID *uuid.UUID `json:"medico_id"`
}

func (p UpdateParams) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.CURP == nil &&
		p.Address == nil && p.Phone == nil && p.Email == nil &&
		p.BirthDate == nil && p.Status == nil && p.AssignedDoctorID == nil
}
