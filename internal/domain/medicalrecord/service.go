package medicalrecord

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
)

const uniqueViolation = "23505"

// Service manages medical records. Records are created and edited by the
// owning doctor; only an administrator removes one.
type Service struct {
	repo     Repository
	patients PatientDirectory
	strict   bool
	logger   zerolog.Logger
}

func NewService(repo Repository, patients PatientDirectory, strictNotFound bool, logger zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, strict: strictNotFound, logger: logger}
}

// Create opens a record for a patient. The patient must exist and must not
// already have one; the unique index on patient_id backs the advisory check.
// The record date defaults to today when omitted.
func (s *Service) Create(ctx context.Context, identity auth.Identity, params CreateParams) (*Record, error) {
	if params.PatientID == uuid.Nil || params.Diagnosis == "" {
		return nil, apperr.Validationf("paciente_id y diagnostico son obligatorios")
	}

	exists, err := s.patients.Exists(ctx, params.PatientID)
	if err != nil {
		return nil, apperr.Storef(err, "error al consultar paciente")
	}
	if !exists {
		return nil, apperr.NotFoundf("paciente no encontrado")
	}

	has, err := s.repo.PatientHasRecord(ctx, params.PatientID)
	if err != nil {
		return nil, apperr.Storef(err, "error al consultar expediente")
	}
	if has {
		return nil, apperr.Conflictf("el paciente ya tiene un expediente")
	}

	rec := &Record{
		PatientID:   params.PatientID,
		DoctorID:    identity.UserID,
		Diagnosis:   params.Diagnosis,
		Medications: params.Medications,
		VitalSigns:  params.VitalSigns,
		Date:        params.Date,
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format("2006-01-02")
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflictf("el paciente ya tiene un expediente")
		}
		return nil, apperr.Storef(err, "error al registrar expediente")
	}

	s.logger.Info().
		Str("record_id", rec.ID.String()).
		Str("patient_id", rec.PatientID.String()).
		Msg("medical record created")
	return rec, nil
}

// Get returns one record. Doctors only see their own; administrators see any.
func (s *Service) Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("expediente no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar expediente")
	}
	if identity.Role == auth.RoleDoctor && rec.DoctorID != identity.UserID {
		return nil, apperr.Authorizationf("el expediente no pertenece al médico")
	}
	return rec, nil
}

// List returns records scoped to the calling doctor, joined with the
// patients' names. Administrators see every record.
func (s *Service) List(ctx context.Context, identity auth.Identity, filters map[string]string, limit, offset int) ([]*Record, int, error) {
	if filters == nil {
		filters = map[string]string{}
	}
	if identity.Role == auth.RoleDoctor {
		filters["medico_id"] = identity.UserID.String()
	}

	items, total, err := s.repo.Search(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storef(err, "error al consultar expedientes")
	}
	if len(items) == 0 {
		if s.strict {
			return nil, 0, apperr.NotFoundf("no se encontraron expedientes")
		}
		return []*Record{}, 0, nil
	}
	return items, total, nil
}

// Update applies a partial update by the owning doctor. At least one field
// must be present.
func (s *Service) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, params UpdateParams) (*Record, error) {
	if params.empty() {
		return nil, apperr.Validationf("no hay campos para actualizar")
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("expediente no encontrado")
		}
		return nil, apperr.Storef(err, "error al consultar expediente")
	}
	if rec.DoctorID != identity.UserID {
		return nil, apperr.Authorizationf("el expediente no pertenece al médico")
	}

	if params.Diagnosis != nil {
		rec.Diagnosis = *params.Diagnosis
	}
	if params.Medications != nil {
		rec.Medications = *params.Medications
	}
	if params.VitalSigns != nil {
		rec.VitalSigns = *params.VitalSigns
	}
	if params.Date != nil {
		rec.Date = *params.Date
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, apperr.Storef(err, "error al actualizar expediente")
	}
	return rec, nil
}

// Delete removes a record. Reserved for administrators at the HTTP layer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFoundf("expediente no encontrado")
		}
		return apperr.Storef(err, "error al consultar expediente")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Storef(err, "error al eliminar expediente")
	}
	s.logger.Info().Str("record_id", id.String()).Msg("medical record deleted")
	return nil
}
