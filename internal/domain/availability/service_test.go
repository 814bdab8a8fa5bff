package availability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
)

type mockRepo struct {
	windows []*Window
}

func (m *mockRepo) Insert(_ context.Context, w *Window) error {
	w.ID = uuid.New()
	m.windows = append(m.windows, w)
	return nil
}

func (m *mockRepo) DeleteForDoctor(_ context.Context, doctorID uuid.UUID) error {
	kept := m.windows[:0]
	for _, w := range m.windows {
		if w.DoctorID != doctorID {
			kept = append(kept, w)
		}
	}
	m.windows = kept
	return nil
}

func (m *mockRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID, day string) ([]*Window, error) {
	var out []*Window
	for _, w := range m.windows {
		if w.DoctorID == doctorID && (day == "" || w.Day == day) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Window, error) {
	return m.windows, nil
}

func (m *mockRepo) HasWindows(_ context.Context, doctorID uuid.UUID) (bool, error) {
	for _, w := range m.windows {
		if w.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

type mockDoctors struct {
	ids map[uuid.UUID]bool
}

func (m *mockDoctors) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func setup(strict bool) (*Service, *mockRepo, uuid.UUID) {
	repo := &mockRepo{}
	doctorID := uuid.New()
	doctors := &mockDoctors{ids: map[uuid.UUID]bool{doctorID: true}}
	return NewService(repo, doctors, passthroughTx{}, strict, zerolog.Nop()), repo, doctorID
}

func mondayMorning() WindowParams {
	return WindowParams{Day: "lunes", StartTime: "09:00", EndTime: "17:00"}
}

func TestReplaceWindows(t *testing.T) {
	svc, repo, doctorID := setup(false)

	_, err := svc.Replace(context.Background(), doctorID, []WindowParams{
		mondayMorning(),
		{Day: "martes", StartTime: "10:00", EndTime: "14:00"},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	inserted, err := svc.Replace(context.Background(), doctorID, []WindowParams{
		{Day: "viernes", StartTime: "08:00", EndTime: "12:00"},
	})
	if err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	if len(inserted) != 1 {
		t.Fatalf("expected 1 window returned, got %d", len(inserted))
	}
	if len(repo.windows) != 1 || repo.windows[0].Day != "viernes" {
		t.Errorf("expected old windows replaced, store holds %d", len(repo.windows))
	}
}

func TestReplaceEmptyListLeavesWindowsUntouched(t *testing.T) {
	svc, repo, doctorID := setup(false)

	if _, err := svc.Replace(context.Background(), doctorID, []WindowParams{mondayMorning()}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	_, err := svc.Replace(context.Background(), doctorID, nil)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.windows) != 1 {
		t.Errorf("existing windows were modified by a rejected replace")
	}
}

func TestReplaceUnknownDoctor(t *testing.T) {
	svc, _, _ := setup(false)

	_, err := svc.Replace(context.Background(), uuid.New(), []WindowParams{mondayMorning()})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestWindowValidation(t *testing.T) {
	cases := []struct {
		name   string
		window WindowParams
		ok     bool
	}{
		{"valid", mondayMorning(), true},
		{"unknown day", WindowParams{Day: "monday", StartTime: "09:00", EndTime: "17:00"}, false},
		{"bad time format", WindowParams{Day: "lunes", StartTime: "9am", EndTime: "17:00"}, false},
		{"start equals end", WindowParams{Day: "lunes", StartTime: "09:00", EndTime: "09:00"}, false},
		{"start after end", WindowParams{Day: "lunes", StartTime: "17:00", EndTime: "09:00"}, false},
		{"out of range hour", WindowParams{Day: "lunes", StartTime: "24:00", EndTime: "25:00"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.window.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok && apperr.KindOf(err) != apperr.Validation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListScopedByRole(t *testing.T) {
	svc, repo, doctorID := setup(false)
	other := uuid.New()
	repo.windows = []*Window{
		{ID: uuid.New(), DoctorID: doctorID, Day: "lunes", StartTime: "09:00", EndTime: "17:00"},
		{ID: uuid.New(), DoctorID: other, Day: "martes", StartTime: "09:00", EndTime: "17:00"},
	}

	all, err := svc.List(context.Background(), auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin expected 2 windows, got %d", len(all))
	}

	own, err := svc.List(context.Background(), auth.Identity{UserID: doctorID, Role: auth.RoleDoctor})
	if err != nil {
		t.Fatalf("doctor List: %v", err)
	}
	if len(own) != 1 || own[0].DoctorID != doctorID {
		t.Errorf("doctor expected only own windows, got %d", len(own))
	}

	_, err = svc.List(context.Background(), auth.Identity{UserID: uuid.New(), Role: auth.RolePatient})
	if apperr.KindOf(err) != apperr.Authorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestListEmptyStrictModes(t *testing.T) {
	strictSvc, _, _ := setup(true)
	_, err := strictSvc.List(context.Background(), auth.Identity{Role: auth.RoleAdmin})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("strict mode: expected not found, got %v", err)
	}

	lenientSvc, _, _ := setup(false)
	items, err := lenientSvc.List(context.Background(), auth.Identity{Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("lenient mode: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("lenient mode: expected empty slice, got %v", items)
	}
}

func TestListForDoctorDayFilter(t *testing.T) {
	svc, repo, doctorID := setup(false)
	repo.windows = []*Window{
		{ID: uuid.New(), DoctorID: doctorID, Day: "lunes", StartTime: "09:00", EndTime: "17:00"},
		{ID: uuid.New(), DoctorID: doctorID, Day: "martes", StartTime: "09:00", EndTime: "17:00"},
	}

	items, err := svc.ListForDoctor(context.Background(), doctorID, "lunes")
	if err != nil {
		t.Fatalf("ListForDoctor: %v", err)
	}
	if len(items) != 1 || items[0].Day != "lunes" {
		t.Errorf("expected only lunes windows, got %d", len(items))
	}

	_, err = svc.ListForDoctor(context.Background(), doctorID, "someday")
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error for bad day, got %v", err)
	}
}
