package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/db"
)

// Service manages doctors' weekly availability windows.
type Service struct {
	repo    Repository
	doctors DoctorDirectory
	tx      db.TxRunner
	strict  bool
	logger  zerolog.Logger
}

func NewService(repo Repository, doctors DoctorDirectory, tx db.TxRunner, strictNotFound bool, logger zerolog.Logger) *Service {
	return &Service{repo: repo, doctors: doctors, tx: tx, strict: strictNotFound, logger: logger}
}

// Replace swaps a doctor's entire window set for the submitted one. The delete
// and inserts run in one transaction, so a failed replace leaves the previous
// windows untouched. The window list must be non-empty and every window valid.
func (s *Service) Replace(ctx context.Context, doctorID uuid.UUID, windows []WindowParams) ([]*Window, error) {
	if len(windows) == 0 {
		return nil, apperr.Validationf("se requiere al menos un horario")
	}
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	exists, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, apperr.Storef(err, "error al consultar médico")
	}
	if !exists {
		return nil, apperr.NotFoundf("médico no encontrado")
	}

	var inserted []*Window
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteForDoctor(ctx, doctorID); err != nil {
			return err
		}
		ws, err := s.InsertForDoctor(ctx, doctorID, windows)
		if err != nil {
			return err
		}
		inserted = ws
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return nil, err
		}
		return nil, apperr.Storef(err, "error al actualizar horarios")
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Int("windows", len(inserted)).
		Msg("availability replaced")
	return inserted, nil
}

// InsertForDoctor validates and inserts windows without touching existing
// rows. Used by staff registration, which creates the doctor and its initial
// schedule in one transaction.
func (s *Service) InsertForDoctor(ctx context.Context, doctorID uuid.UUID, windows []WindowParams) ([]*Window, error) {
	inserted := make([]*Window, 0, len(windows))
	for _, params := range windows {
		if err := params.Validate(); err != nil {
			return nil, err
		}
		w := &Window{
			DoctorID:  doctorID,
			Day:       params.Day,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
		}
		if err := s.repo.Insert(ctx, w); err != nil {
			return nil, err
		}
		inserted = append(inserted, w)
	}
	return inserted, nil
}

// List returns windows scoped by the caller: administrators see every
// doctor's schedule, doctors see their own.
func (s *Service) List(ctx context.Context, identity auth.Identity) ([]*Window, error) {
	var (
		items []*Window
		err   error
	)
	switch identity.Role {
	case auth.RoleAdmin:
		items, err = s.repo.ListAll(ctx)
	case auth.RoleDoctor:
		items, err = s.repo.ListForDoctor(ctx, identity.UserID, "")
	default:
		return nil, apperr.Authorizationf("rol no permitido")
	}
	if err != nil {
		return nil, apperr.Storef(err, "error al consultar horarios")
	}
	return s.finish(items)
}

// ListForDoctor returns one doctor's windows, optionally filtered by day.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, day string) ([]*Window, error) {
	if day != "" && !validDays[day] {
		return nil, apperr.Validationf("día inválido: %q", day)
	}
	items, err := s.repo.ListForDoctor(ctx, doctorID, day)
	if err != nil {
		return nil, apperr.Storef(err, "error al consultar horarios")
	}
	return s.finish(items)
}

func (s *Service) finish(items []*Window) ([]*Window, error) {
	if len(items) == 0 {
		if s.strict {
			return nil, apperr.NotFoundf("no se encontraron horarios")
		}
		return []*Window{}, nil
	}
	return items, nil
}
