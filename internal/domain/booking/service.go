package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
)

const uniqueViolation = "23505"

// Service orchestrates the appointment lifecycle. Every create, and every
// update that moves the slot, passes through bookable first; the store's
// unique index on (doctor, date, time) remains the authority when two
// requests race past the advisory check.
type Service struct {
	repo   Repository
	avail  AvailabilityChecker
	strict bool
	logger zerolog.Logger
}

func NewService(repo Repository, avail AvailabilityChecker, strictNotFound bool, logger zerolog.Logger) *Service {
	return &Service{repo: repo, avail: avail, strict: strictNotFound, logger: logger}
}

// bookable decides whether the slot can be taken: the doctor must have at
// least one availability window on record, and no other appointment may hold
// the exact same (doctor, date, time). Window existence is all that is
// consulted; the window's day and hours are not matched against the slot.
func (s *Service) bookable(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, exclude uuid.UUID) error {
	hasWindows, err := s.avail.HasWindows(ctx, doctorID)
	if err != nil {
		return apperr.Storef(err, "error al consultar horarios del médico")
	}
	if !hasWindows {
		return apperr.Conflictf("el médico no tiene horarios registrados")
	}

	taken, err := s.repo.SlotTaken(ctx, doctorID, date, timeOfDay, exclude)
	if err != nil {
		return apperr.Storef(err, "error al verificar disponibilidad")
	}
	if taken {
		return apperr.Conflictf("ya existe una cita en ese horario")
	}
	return nil
}

// slotErr maps a unique-index violation on the slot to the same conflict the
// advisory check produces, so a race between two creates still yields a 409.
func slotErr(err error, fallback string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflictf("ya existe una cita en ese horario")
	}
	return apperr.Storef(err, fallback)
}

// Create books a new appointment. The assistant id is recorded only when the
// caller is an assistant; patients booking for themselves leave it empty.
func (s *Service) Create(ctx context.Context, identity auth.Identity, params CreateParams) (*Appointment, error) {
	if params.PatientID == uuid.Nil || params.DoctorID == uuid.Nil ||
		params.Date == "" || params.Time == "" {
		return nil, apperr.Validationf("paciente_id, medico_id, fecha y hora son obligatorios")
	}

	if err := s.bookable(ctx, params.DoctorID, params.Date, params.Time, uuid.Nil); err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID: params.PatientID,
		DoctorID:  params.DoctorID,
		Date:      params.Date,
		Time:      params.Time,
		Status:    DefaultStatus,
		Notes:     params.Notes,
	}
	if identity.Role == auth.RoleAssistant {
		assistantID := identity.UserID
		a.AssistantID = &assistantID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, slotErr(err, "error al registrar la cita")
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Str("fecha", a.Date).
		Str("hora", a.Time).
		Msg("appointment created")
	return a, nil
}

// List returns appointments scoped by the caller: patients and doctors see
// their own, assistants see everything. Extra filters narrow within that
// scope but never widen it.
func (s *Service) List(ctx context.Context, identity auth.Identity, filters map[string]string, limit, offset int) ([]*Appointment, int, error) {
	if filters == nil {
		filters = map[string]string{}
	}
	switch identity.Role {
	case auth.RolePatient:
		filters["paciente_id"] = identity.UserID.String()
	case auth.RoleDoctor:
		filters["medico_id"] = identity.UserID.String()
	case auth.RoleAssistant:
		// assistants see the full book
	default:
		return nil, 0, apperr.Authorizationf("rol no permitido")
	}

	items, total, err := s.repo.Search(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storef(err, "error al consultar citas")
	}
	if len(items) == 0 {
		if s.strict {
			return nil, 0, apperr.NotFoundf("no se encontraron citas")
		}
		return []*Appointment{}, 0, nil
	}
	return items, total, nil
}

// Get returns one appointment, subject to the same ownership rule as update.
func (s *Service) Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("cita no encontrada")
		}
		return nil, apperr.Storef(err, "error al consultar cita")
	}
	if err := s.authorize(identity, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies a partial update. A change of date or time re-runs the
// conflict check excluding the appointment's own id, so moving to its own
// unchanged slot succeeds. A notes-only or status-only update never consults
// the checker.
func (s *Service) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, params UpdateParams) (*Appointment, error) {
	if params.empty() {
		return nil, apperr.Validationf("no hay campos para actualizar")
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("cita no encontrada")
		}
		return nil, apperr.Storef(err, "error al consultar cita")
	}
	if err := s.authorize(identity, a); err != nil {
		return nil, err
	}

	slotMoved := false
	if params.Date != nil && *params.Date != a.Date {
		a.Date = *params.Date
		slotMoved = true
	}
	if params.Time != nil && *params.Time != a.Time {
		a.Time = *params.Time
		slotMoved = true
	}
	if params.Status != nil {
		a.Status = *params.Status
	}
	if params.Notes != nil {
		a.Notes = *params.Notes
	}

	if slotMoved {
		if err := s.bookable(ctx, a.DoctorID, a.Date, a.Time, a.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, slotErr(err, "error al actualizar la cita")
	}
	return a, nil
}

// Cancel removes the appointment outright. There is no cancelled state kept
// around; the row is deleted.
func (s *Service) Cancel(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFoundf("cita no encontrada")
		}
		return apperr.Storef(err, "error al consultar cita")
	}
	if err := s.authorize(identity, a); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Storef(err, "error al cancelar la cita")
	}
	s.logger.Info().Str("appointment_id", id.String()).Msg("appointment cancelled")
	return nil
}

// authorize enforces the ownership rule: a patient may only touch their own
// appointments. Assistants pass for any appointment.
func (s *Service) authorize(identity auth.Identity, a *Appointment) error {
	if identity.Role == auth.RolePatient && a.PatientID != identity.UserID {
		return apperr.Authorizationf("la cita no pertenece al paciente")
	}
	return nil
}
