package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/domain/availability"
	"github.com/medisched/medisched/internal/platform/apperr"
)

type mockRepo struct {
	workers  map[uuid.UUID]*Worker
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{workers: make(map[uuid.UUID]*Worker)}
}

func (m *mockRepo) CreateDoctor(_ context.Context, w *Worker) error {
	w.ID = uuid.New()
	m.workers[w.ID] = w
	return nil
}

func (m *mockRepo) CreateAssistant(_ context.Context, w *Worker) error {
	if m.failWith != nil {
		return m.failWith
	}
	w.ID = uuid.New()
	m.workers[w.ID] = w
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Worker, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	w, ok := m.workers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return w, nil
}

func (m *mockRepo) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	w, ok := m.workers[id]
	return ok && w.Kind == KindDoctor, nil
}

func (m *mockRepo) AssistantExists(_ context.Context, id uuid.UUID) (bool, error) {
	w, ok := m.workers[id]
	return ok && w.Kind == KindAssistant, nil
}

func (m *mockRepo) CURPExists(_ context.Context, curp string, exclude uuid.UUID) (bool, error) {
	for id, w := range m.workers {
		if w.CURP == curp && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Update(_ context.Context, w *Worker) error {
	m.workers[w.ID] = w
	return nil
}

func (m *mockRepo) Delete(_ context.Context, w *Worker) error {
	delete(m.workers, w.ID)
	return nil
}

func (m *mockRepo) Search(_ context.Context, filters map[string]string, limit, offset int) ([]*Worker, int, error) {
	var items []*Worker
	for _, w := range m.workers {
		if kind, ok := filters["tipo"]; ok && string(w.Kind) != kind {
			continue
		}
		items = append(items, w)
	}
	return items, len(items), nil
}

// mockSchedule records inserted windows and optionally rejects them.
type mockSchedule struct {
	inserted map[uuid.UUID][]availability.WindowParams
	failWith error
}

func newMockSchedule() *mockSchedule {
	return &mockSchedule{inserted: make(map[uuid.UUID][]availability.WindowParams)}
}

func (m *mockSchedule) InsertForDoctor(_ context.Context, doctorID uuid.UUID, windows []availability.WindowParams) ([]*availability.Window, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.inserted[doctorID] = windows
	out := make([]*availability.Window, 0, len(windows))
	for _, w := range windows {
		out = append(out, &availability.Window{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			Day:       w.Day,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func setup() (*Service, *mockRepo, *mockSchedule) {
	repo := newMockRepo()
	schedule := newMockSchedule()
	svc := NewService(repo, schedule, passthroughTx{}, false, zerolog.Nop())
	return svc, repo, schedule
}

func doctorParams() CreateParams {
	specialty := "cardiología"
	return CreateParams{
		Kind:      KindDoctor,
		FirstName: "Luis",
		LastName:  "Ramirez Soto",
		CURP:      "RASL850505HDFMRS02",
		Phone:     "5511112222",
		Email:     "luis@example.com",
		Password:  "secreta123",
		Specialty: &specialty,
		Windows: []availability.WindowParams{
			{Day: "lunes", StartTime: "09:00", EndTime: "17:00"},
		},
	}
}

func assistantParams() CreateParams {
	return CreateParams{
		Kind:      KindAssistant,
		FirstName: "Carla",
		LastName:  "Mendez Rios",
		CURP:      "MERC920202MDFNDR08",
		Phone:     "5533334444",
		Email:     "carla@example.com",
		Password:  "secreta123",
	}
}

func TestCreateDoctorWithSchedule(t *testing.T) {
	svc, _, schedule := setup()

	w, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.Kind != KindDoctor {
		t.Errorf("expected kind medico, got %q", w.Kind)
	}
	if len(schedule.inserted[w.ID]) != 1 {
		t.Errorf("expected 1 window inserted for doctor, got %d", len(schedule.inserted[w.ID]))
	}
	if w.PasswordHash == "" || w.PasswordHash == "secreta123" {
		t.Error("expected password to be hashed")
	}
}

func TestCreateDoctorWithoutScheduleFails(t *testing.T) {
	svc, repo, _ := setup()

	params := doctorParams()
	params.Windows = nil
	_, err := svc.Create(context.Background(), params)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.workers) != 0 {
		t.Error("doctor row created despite rejected schedule")
	}
}

func TestCreateDoctorWithoutSpecialtyFails(t *testing.T) {
	svc, _, _ := setup()

	params := doctorParams()
	params.Specialty = nil
	_, err := svc.Create(context.Background(), params)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDoctorScheduleFailureIsPropagated(t *testing.T) {
	svc, _, schedule := setup()
	schedule.failWith = apperr.Validationf("hora_inicio debe ser anterior a hora_fin")

	_, err := svc.Create(context.Background(), doctorParams())
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error from schedule, got %v", err)
	}
}

func TestCreateAssistantAttachedToDoctor(t *testing.T) {
	svc, _, _ := setup()

	doc, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	params := assistantParams()
	params.AssignedDoctorID = &doc.ID
	a, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("create assistant: %v", err)
	}
	if a.AssignedDoctorID == nil || *a.AssignedDoctorID != doc.ID {
		t.Error("assistant not attached to doctor")
	}
}

func TestCreateAssistantUnknownDoctor(t *testing.T) {
	svc, _, _ := setup()

	unknown := uuid.New()
	params := assistantParams()
	params.AssignedDoctorID = &unknown
	_, err := svc.Create(context.Background(), params)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateStaffDuplicateCURPAcrossKinds(t *testing.T) {
	svc, _, _ := setup()

	if _, err := svc.Create(context.Background(), doctorParams()); err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	params := assistantParams()
	params.CURP = doctorParams().CURP
	_, err := svc.Create(context.Background(), params)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateStaffInvalidKind(t *testing.T) {
	svc, _, _ := setup()

	params := assistantParams()
	params.Kind = "recepcionista"
	_, err := svc.Create(context.Background(), params)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateKindMismatchedFields(t *testing.T) {
	svc, _, _ := setup()

	doc, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	asst, err := svc.Create(context.Background(), assistantParams())
	if err != nil {
		t.Fatalf("create assistant: %v", err)
	}

	specialty := "pediatría"
	if _, err := svc.Update(context.Background(), asst.ID, UpdateParams{Specialty: &specialty}); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("specialty on assistant: expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), doc.ID, UpdateParams{AssignedDoctorID: &doc.ID}); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("medico_id on doctor: expected validation error, got %v", err)
	}
}

func TestUpdateStaffCoalesce(t *testing.T) {
	svc, _, _ := setup()

	doc, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	phone := "5588887777"
	updated, err := svc.Update(context.Background(), doc.ID, UpdateParams{Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != phone {
		t.Errorf("expected phone %q, got %q", phone, updated.Phone)
	}
	if updated.Specialty == nil || *updated.Specialty != "cardiología" {
		t.Error("untouched specialty changed")
	}
}

func TestDeleteStaff(t *testing.T) {
	svc, _, _ := setup()

	doc, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), doc.ID); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

// Two concurrent registrations with the same CURP can both pass the advisory
// check; the store's unique index then rejects the loser, and that rejection
// must read as the same conflict.
func TestCreateStaffCURPRaceSurfacesConflict(t *testing.T) {
	svc, repo, _ := setup()
	repo.failWith = &pgconn.PgError{Code: "23505", ConstraintName: "assistant_curp_key"}

	_, err := svc.Create(context.Background(), assistantParams())
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetStaffStoreOutageIsNotNotFound(t *testing.T) {
	svc, repo, _ := setup()

	doc, err := svc.Create(context.Background(), doctorParams())
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	repo.failWith = errors.New("connection refused")
	if _, err := svc.Get(context.Background(), doc.ID); apperr.KindOf(err) != apperr.Store {
		t.Fatalf("Get during outage: expected store error, got %v", err)
	}
	if err := svc.Delete(context.Background(), doc.ID); apperr.KindOf(err) != apperr.Store {
		t.Fatalf("Delete during outage: expected store error, got %v", err)
	}
}

func TestListStaffStrictNotFound(t *testing.T) {
	repo := newMockRepo()
	strictSvc := NewService(repo, newMockSchedule(), passthroughTx{}, true, zerolog.Nop())

	_, _, err := strictSvc.List(context.Background(), nil, 20, 0)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("strict mode: expected not found, got %v", err)
	}

	lenient := NewService(repo, newMockSchedule(), passthroughTx{}, false, zerolog.Nop())
	items, total, err := lenient.List(context.Background(), nil, 20, 0)
	if err != nil {
		t.Fatalf("lenient mode: %v", err)
	}
	if items == nil || total != 0 {
		t.Errorf("lenient mode: expected empty slice, got %v", items)
	}
}
