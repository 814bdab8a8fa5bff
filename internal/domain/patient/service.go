package patient

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

// curpErr maps a unique-index violation racing past the advisory CURPExists
// check to the same conflict the pre-check produces.
func curpErr(err error, fallback string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflictf("ya existe un paciente con esa CURP")
	}
	return apperr.Storef(err, fallback)
}

// Service implements patient directory operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registers a new patient with a hashed credential. The CURP must not
// already belong to another patient.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Patient, error) {
	if params.FirstName == "" || params.LastName == "" || params.CURP == "" ||
		params.Address == "" || params.Phone == "" || params.Email == "" ||
		params.BirthDate == "" || params.Password == "" {
		return nil, apperr.Validationf("todos los campos son obligatorios")
	}

	taken, err := s.repo.CURPExists(ctx, params.CURP, uuid.Nil)
	if err != nil {
		return nil, apperr.Storef(err, "error al verificar CURP")
	}
	if taken {
		return nil, apperr.Conflictf("ya existe un paciente con esa CURP")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, apperr.Storef(err, "error al registrar paciente")
	}

	p := &Patient{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		CURP:         params.CURP,
		Address:      params.Address,
		Phone:        params.Phone,
		Email:        params.Email,
		BirthDate:    params.BirthDate,
		Status:       "activo",
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, curpErr(err, "error al registrar paciente")
	}

	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient registered")
	return p, nil
}

// Get returns a patient by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("paciente no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar paciente")
	}
	return p, nil
}

// List searches the directory. An empty result is not an error.
func (s *Service) List(ctx context.Context, filters map[string]string, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.repo.Search(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storef(err, "error al consultar pacientes")
	}
	if items == nil {
		items = []*Patient{}
	}
	return items, total, nil
}

// Update applies a partial update. At least one field must be present, and a
// changed CURP must not collide with another patient.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Patient, error) {
	if params.empty() {
		return nil, apperr.Validationf("no hay campos para actualizar")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("paciente no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar paciente")
	}

	if params.CURP != nil && *params.CURP != p.CURP {
		taken, err := s.repo.CURPExists(ctx, *params.CURP, id)
		if err != nil {
			return nil, apperr.Storef(err, "error al verificar CURP")
		}
		if taken {
			return nil, apperr.Conflictf("ya existe un paciente con esa CURP")
		}
		p.CURP = *params.CURP
	}
	if params.FirstName != nil {
		p.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		p.LastName = *params.LastName
	}
	if params.Address != nil {
		p.Address = *params.Address
	}
	if params.Phone != nil {
		p.Phone = *params.Phone
	}
	if params.Email != nil {
		p.Email = *params.Email
	}
	if params.BirthDate != nil {
		p.BirthDate = *params.BirthDate
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	if params.AssignedDoctorID != nil {
		p.AssignedDoctorID = params.AssignedDoctorID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, curpErr(err, "error al actualizar paciente")
	}
	return p, nil
}

// Delete removes a patient. The row is gone afterwards; there is no soft
// delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return apperr.Storef(err, "error al consultar paciente")
	}
	if !exists {
		return apperr.NotFoundf("paciente no encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Storef(err, "error al eliminar paciente")
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}
