package availability

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/medisched/internal/platform/apperr"
)

// Window is one recurring weekly availability block owned by a doctor.
type Window struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"medico_id"`
	Day       string    `db:"day_of_week" json:"dia"`
	StartTime string    `db:"start_time" json:"hora_inicio"`
	EndTime   string    `db:"end_time" json:"hora_fin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WindowParams is one window as submitted on a replace request.
type WindowParams struct {
	Day       string `json:"dia"`
	StartTime string `json:"hora_inicio"`
	EndTime   string `json:"hora_fin"`
}

var validDays = map[string]bool{
	"lunes":     true,
	"martes":    true,
	"miercoles": true,
	"jueves":    true,
	"viernes":   true,
	"sabado":    true,
	"domingo":   true,
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks a single window: known day name, HH:MM times, and start
// strictly before end. Times are compared lexically, which is equivalent to
// chronological order for zero-padded HH:MM strings.
func (w WindowParams) Validate() error {
	if !validDays[w.Day] {
		return apperr.Validationf("día inválido: %q", w.Day)
	}
	if !timeRe.MatchString(w.StartTime) || !timeRe.MatchString(w.EndTime) {
		return apperr.Validationf("las horas deben tener formato HH:MM")
	}
	if w.StartTime >= w.EndTime {
		return apperr.Validationf("hora_inicio debe ser anterior a hora_fin")
	}
	return nil
}
