package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/db"
)

// curpErr maps a unique-index violation racing past the advisory CURPExists
// check to the same conflict the pre-check produces.
func curpErr(err error, fallback string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflictf("ya existe un trabajador con esa CURP")
	}
	return apperr.Storef(err, fallback)
}

// Service implements the staff registry. All operations are reserved for
// administrators; the HTTP layer enforces that.
type Service struct {
	repo     Repository
	schedule ScheduleWriter
	tx       db.TxRunner
	strict   bool
	logger   zerolog.Logger
}

func NewService(repo Repository, schedule ScheduleWriter, tx db.TxRunner, strictNotFound bool, logger zerolog.Logger) *Service {
	return &Service{repo: repo, schedule: schedule, tx: tx, strict: strictNotFound, logger: logger}
}

// Create registers a doctor or an assistant. A doctor requires a specialty
// and a non-empty initial schedule; the doctor row and its windows are
// written in one transaction so a rejected schedule leaves no doctor behind.
// An assistant may optionally be attached to an existing doctor.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Worker, error) {
	if !params.Kind.valid() {
		return nil, apperr.Validationf("tipo debe ser %s o %s", KindDoctor, KindAssistant)
	}
	if params.FirstName == "" || params.LastName == "" || params.CURP == "" ||
		params.Phone == "" || params.Email == "" || params.Password == "" {
		return nil, apperr.Validationf("todos los campos son obligatorios")
	}

	taken, err := s.repo.CURPExists(ctx, params.CURP, uuid.Nil)
	if err != nil {
		return nil, apperr.Storef(err, "error al verificar CURP")
	}
	if taken {
		return nil, apperr.Conflictf("ya existe un trabajador con esa CURP")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, apperr.Storef(err, "error al registrar trabajador")
	}

	w := &Worker{
		Kind:         params.Kind,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		CURP:         params.CURP,
		Phone:        params.Phone,
		Email:        params.Email,
		PasswordHash: hash,
	}

	switch params.Kind {
	case KindDoctor:
		if params.Specialty == nil || *params.Specialty == "" {
			return nil, apperr.Validationf("la especialidad es obligatoria para un médico")
		}
		if len(params.Windows) == 0 {
			return nil, apperr.Validationf("se requiere al menos un horario para un médico")
		}
		w.Specialty = params.Specialty

		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.repo.CreateDoctor(ctx, w); err != nil {
				return err
			}
			_, err := s.schedule.InsertForDoctor(ctx, w.ID, params.Windows)
			return err
		})

	case KindAssistant:
		if params.AssignedDoctorID != nil {
			exists, derr := s.repo.DoctorExists(ctx, *params.AssignedDoctorID)
			if derr != nil {
				return nil, apperr.Storef(derr, "error al consultar médico")
			}
			if !exists {
				return nil, apperr.NotFoundf("médico no encontrado")
			}
			w.AssignedDoctorID = params.AssignedDoctorID
		}
		err = s.repo.CreateAssistant(ctx, w)
	}
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return nil, err
		}
		return nil, curpErr(err, "error al registrar trabajador")
	}

	s.logger.Info().
		Str("worker_id", w.ID.String()).
		Str("kind", string(w.Kind)).
		Msg("staff member registered")
	return w, nil
}

// Get returns one staff member of either kind.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Worker, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("trabajador no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar trabajador")
	}
	return w, nil
}

// List searches both staff populations as one collection.
func (s *Service) List(ctx context.Context, filters map[string]string, limit, offset int) ([]*Worker, int, error) {
	items, total, err := s.repo.Search(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storef(err, "error al consultar trabajadores")
	}
	if len(items) == 0 {
		if s.strict {
			return nil, 0, apperr.NotFoundf("no se encontraron trabajadores")
		}
		return []*Worker{}, 0, nil
	}
	return items, total, nil
}

// Update applies a partial update. Specialty only applies to doctors and
// medico_id only to assistants; a mismatched field is rejected rather than
// silently dropped.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Worker, error) {
	if params.empty() {
		return nil, apperr.Validationf("no hay campos para actualizar")
	}

	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("trabajador no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar trabajador")
	}

	if params.Specialty != nil && w.Kind != KindDoctor {
		return nil, apperr.Validationf("especialidad solo aplica a médicos")
	}
	if params.AssignedDoctorID != nil && w.Kind != KindAssistant {
		return nil, apperr.Validationf("medico_id solo aplica a asistentes")
	}

	if params.CURP != nil && *params.CURP != w.CURP {
		taken, err := s.repo.CURPExists(ctx, *params.CURP, id)
		if err != nil {
			return nil, apperr.Storef(err, "error al verificar CURP")
		}
		if taken {
			return nil, apperr.Conflictf("ya existe un trabajador con esa CURP")
		}
		w.CURP = *params.CURP
	}
	if params.AssignedDoctorID != nil {
		exists, err := s.repo.DoctorExists(ctx, *params.AssignedDoctorID)
		if err != nil {
			return nil, apperr.Storef(err, "error al consultar médico")
		}
		if !exists {
			return nil, apperr.NotFoundf("médico no encontrado")
		}
		w.AssignedDoctorID = params.AssignedDoctorID
	}
	if params.FirstName != nil {
		w.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		w.LastName = *params.LastName
	}
	if params.Phone != nil {
		w.Phone = *params.Phone
	}
	if params.Email != nil {
		w.Email = *params.Email
	}
	if params.Specialty != nil {
		w.Specialty = params.Specialty
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, curpErr(err, "error al actualizar trabajador")
	}
	return w, nil
}

// Delete removes a staff member of either kind. A doctor's availability
// windows go with it via the store's cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFoundf("trabajador no encontrado")
		}
		return apperr.Storef(err, "error al consultar trabajador")
	}
	if err := s.repo.Delete(ctx, w); err != nil {
		return apperr.Storef(err, "error al eliminar trabajador")
	}
	s.logger.Info().
		Str("worker_id", id.String()).
		Str("kind", string(w.Kind)).
		Msg("staff member deleted")
	return nil
}
