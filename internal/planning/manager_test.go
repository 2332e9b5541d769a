package planning

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/storage/memory"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)

type backend struct {
	name string
	open func(t *testing.T) storage.Provider
}

var backends = []backend{
	{
		name: "memory",
		open: func(t *testing.T) storage.Provider { return memory.NewStore() },
	},
	{
		name: "sqlite",
		open: func(t *testing.T) storage.Provider {
			store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
			if err := store.Init(); err != nil {
				t.Fatalf("failed to initialize store: %v", err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		},
	},
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

// setupManager returns a manager over a fresh store with one family "fam".
func setupManager(t *testing.T, b backend) *Manager {
	t.Helper()
	store := b.open(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.AddFamily(context.Background(), models.Family{ID: "fam", Name: "Test", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("failed to add family: %v", err)
	}
	if err := store.AddFamily(context.Background(), models.Family{ID: "other", Name: "Other", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("failed to add family: %v", err)
	}
	return NewManager(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
}

func forEachBackend(t *testing.T, fn func(t *testing.T, m *Manager)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, setupManager(t, b))
		})
	}
}

func mustCreate(t *testing.T, m *Manager, familyID, start, end string) models.MealPlanning {
	t.Helper()
	p, err := m.CreatePeriod(context.Background(), familyID, start, end, "")
	if err != nil {
		t.Fatalf("CreatePeriod(%s, %s) failed: %v", start, end, err)
	}
	return p
}

func requireOverlap(t *testing.T, err error, wantRanges ...string) {
	t.Helper()
	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("expected *OverlapError, got %v", err)
	}
	got := overlapErr.Ranges()
	if strings.Join(got, "|") != strings.Join(wantRanges, "|") {
		t.Errorf("expected conflicts %v, got %v", wantRanges, got)
	}
}

func TestCreatePeriod(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		p, err := m.CreatePeriod(ctx, "fam", "2026-01-01", "2026-01-07", "")
		if err != nil {
			t.Fatalf("CreatePeriod failed: %v", err)
		}
		if p.ID != "id-001" {
			t.Errorf("expected generated id id-001, got %s", p.ID)
		}
		if p.Status != models.PlanningDraft {
			t.Errorf("expected default status draft, got %s", p.Status)
		}
		if !p.CreatedAt.Equal(fixedNow) || !p.UpdatedAt.Equal(fixedNow) {
			t.Errorf("expected timestamps %v, got %v/%v", fixedNow, p.CreatedAt, p.UpdatedAt)
		}

		got, found, err := m.GetPeriod(ctx, p.ID)
		if err != nil || !found {
			t.Fatalf("GetPeriod failed: found=%v err=%v", found, err)
		}
		if got.StartDate != "2026-01-01" || got.EndDate != "2026-01-07" || got.FamilyID != "fam" {
			t.Errorf("unexpected stored period: %+v", got)
		}
	})
}

func TestCreatePeriodOverlapCases(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		overlap bool
	}{
		{"exact duplicate", "2026-01-01", "2026-01-07", true},
		{"end falls inside existing", "2025-12-28", "2026-01-03", true},
		{"start falls inside existing", "2026-01-05", "2026-01-12", true},
		{"contained in existing", "2026-01-03", "2026-01-04", true},
		{"contains existing", "2025-12-25", "2026-01-10", true},
		{"shares first day", "2025-12-25", "2026-01-01", true},
		{"shares last day", "2026-01-07", "2026-01-14", true},
		{"adjacent after", "2026-01-08", "2026-01-14", false},
		{"adjacent before", "2025-12-25", "2025-12-31", false},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(b.name+"/"+tt.name, func(t *testing.T) {
				m := setupManager(t, b)
				mustCreate(t, m, "fam", "2026-01-01", "2026-01-07")

				_, err := m.CreatePeriod(context.Background(), "fam", tt.start, tt.end, "")
				if tt.overlap {
					requireOverlap(t, err, "2026-01-01 to 2026-01-07")
					return
				}
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
			})
		}
	}
}

func TestCreatePeriodIsFamilyScoped(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, "fam", "2026-01-01", "2026-01-07")
		if _, err := m.CreatePeriod(context.Background(), "other", "2026-01-01", "2026-01-07", ""); err != nil {
			t.Errorf("expected other family to reuse the range, got %v", err)
		}
	})
}

func TestCreatePeriodListsEveryConflict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, "fam", "2026-01-08", "2026-01-14")
		mustCreate(t, m, "fam", "2026-01-01", "2026-01-07")

		_, err := m.CreatePeriod(context.Background(), "fam", "2026-01-05", "2026-01-10", "")
		requireOverlap(t, err, "2026-01-01 to 2026-01-07", "2026-01-08 to 2026-01-14")
		if !strings.Contains(err.Error(), "2026-01-01 to 2026-01-07") {
			t.Errorf("expected error text to list ranges, got %q", err.Error())
		}
	})
}

func TestCreatePeriodValidation(t *testing.T) {
	tests := []struct {
		name    string
		family  string
		start   string
		end     string
		status  models.PlanningStatus
		wantErr error
	}{
		{"bad start", "fam", "2026-1-01", "2026-01-07", "", ErrInvalidDate},
		{"impossible day", "fam", "2026-02-30", "2026-03-01", "", ErrInvalidDate},
		{"inverted range", "fam", "2026-01-07", "2026-01-01", "", ErrInvalidRange},
		{"unknown status", "fam", "2026-01-01", "2026-01-07", "archived", ErrInvalidStatus},
		{"missing family", "", "2026-01-01", "2026-01-07", "", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupManager(t, backends[0])
			_, err := m.CreatePeriod(context.Background(), tt.family, tt.start, tt.end, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !IsValidation(err) {
				t.Errorf("expected IsValidation to accept %v", err)
			}
		})
	}
}

func TestCreatePeriodUnknownFamilyPropagates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		_, err := m.CreatePeriod(context.Background(), "ghost", "2026-01-01", "2026-01-07", "")
		if err == nil {
			t.Fatal("expected storage failure for unknown family")
		}
		var overlapErr *OverlapError
		if errors.As(err, &overlapErr) || IsValidation(err) || IsNotFound(err) {
			t.Errorf("expected untranslated storage error, got %v", err)
		}
	})
}

func TestNoOverlapInvariantHolds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		attempts := [][2]string{
			{"2026-01-01", "2026-01-07"},
			{"2026-01-05", "2026-01-09"},
			{"2026-01-08", "2026-01-14"},
			{"2025-12-20", "2026-01-02"},
			{"2025-12-20", "2025-12-31"},
			{"2026-01-14", "2026-01-20"},
			{"2026-01-15", "2026-01-15"},
		}
		for _, a := range attempts {
			m.CreatePeriod(ctx, "fam", a[0], a[1], "")
		}

		ps, err := m.ListPeriods(ctx, "fam")
		if err != nil {
			t.Fatalf("ListPeriods failed: %v", err)
		}
		if len(ps) != 4 {
			t.Errorf("expected 4 periods to survive, got %d", len(ps))
		}
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				if ps[i].Overlaps(ps[j].StartDate, ps[j].EndDate) {
					t.Errorf("periods overlap: %s and %s", ps[i].Range(), ps[j].Range())
				}
			}
			if i > 0 && ps[i-1].StartDate > ps[i].StartDate {
				t.Errorf("periods not ordered by start date: %v", ps)
			}
		}
	})
}

func TestGetPeriodNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		p, found, err := m.GetPeriod(context.Background(), "missing")
		if err != nil {
			t.Fatalf("expected no error for missing period, got %v", err)
		}
		if found {
			t.Errorf("expected found=false, got period %+v", p)
		}
	})
}

func TestUpdatePeriodNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		status := models.PlanningActive
		_, err := m.UpdatePeriod(context.Background(), "missing", PeriodUpdate{Status: &status})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdatePeriodStatusOnly(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		p := mustCreate(t, m, "fam", "2026-01-01", "2026-01-07")

		for _, status := range []models.PlanningStatus{models.PlanningActive, models.PlanningCompleted, models.PlanningDraft} {
			s := status
			updated, err := m.UpdatePeriod(ctx, p.ID, PeriodUpdate{Status: &s})
			if err != nil {
				t.Fatalf("status update to %s failed: %v", s, err)
			}
			if updated.Status != s {
				t.Errorf("expected status %s, got %s", s, updated.Status)
			}
			if updated.StartDate != p.StartDate || updated.EndDate != p.EndDate {
				t.Errorf("dates changed on status update: %s", updated.Range())
			}
		}

		bad := models.PlanningStatus("archived")
		if _, err := m.UpdatePeriod(ctx, p.ID, PeriodUpdate{Status: &bad}); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})
}

func TestUpdatePeriodDates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		a := mustCreate(t, m, "fam", "2026-01-01", "2026-01-07")
		mustCreate(t, m, "fam", "2026-01-15", "2026-01-21")

		start, end := "2026-01-03", "2026-01-10"
		moved, err := m.UpdatePeriod(ctx, a.ID, PeriodUpdate{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("moving onto partly self-covered dates failed: %v", err)
		}
		if moved.Range() != "2026-01-03 to 2026-01-10" {
			t.Errorf("unexpected range %s", moved.Range())
		}
		if !moved.CreatedAt.Equal(a.CreatedAt) {
			t.Errorf("created_at changed: %v", moved.CreatedAt)
		}

		clash := "2026-01-16"
		_, err = m.UpdatePeriod(ctx, a.ID, PeriodUpdate{EndDate: &clash})
		requireOverlap(t, err, "2026-01-15 to 2026-01-21")

		stored, _, err := m.GetPeriod(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetPeriod failed: %v", err)
		}
		if stored.EndDate != "2026-01-10" {
			t.Errorf("rejected update was written: %s", stored.Range())
		}

		inverted := "2026-01-11"
		if _, err := m.UpdatePeriod(ctx, a.ID, PeriodUpdate{StartDate: &inverted}); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})
}

func TestUpdatePeriodRefreshesUpdatedAt(t *testing.T) {
	now := fixedNow
	m := NewManager(memory.NewStore(), WithClock(func() time.Time { return now }))
	ctx := context.Background()
	f, err := m.CreateFamily(ctx, "Clock")
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	p, err := m.CreatePeriod(ctx, f.ID, "2026-01-01", "2026-01-07", models.PlanningActive)
	if err != nil {
		t.Fatalf("CreatePeriod failed: %v", err)
	}

	now = now.Add(time.Hour)
	status := models.PlanningCompleted
	updated, err := m.UpdatePeriod(ctx, p.ID, PeriodUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdatePeriod failed: %v", err)
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Errorf("expected updated_at %v, got %v", now, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected created_at %v, got %v", fixedNow, updated.CreatedAt)
	}
}

func TestResolvePeriodForDate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		first, err := m.ResolvePeriodForDate(ctx, "fam", "2026-01-01")
		if err != nil {
			t.Fatalf("ResolvePeriodForDate failed: %v", err)
		}
		if first.Range() != "2025-12-28 to 2026-01-03" {
			t.Errorf("expected Sunday-Saturday week, got %s", first.Range())
		}
		if first.Status != models.PlanningDraft {
			t.Errorf("expected draft status, got %s", first.Status)
		}

		for _, date := range []string{"2025-12-28", "2026-01-02", "2026-01-03"} {
			again, err := m.ResolvePeriodForDate(ctx, "fam", date)
			if err != nil {
				t.Fatalf("ResolvePeriodForDate(%s) failed: %v", date, err)
			}
			if again.ID != first.ID {
				t.Errorf("expected same period for %s, got %s", date, again.ID)
			}
		}

		ps, err := m.ListPeriods(ctx, "fam")
		if err != nil {
			t.Fatalf("ListPeriods failed: %v", err)
		}
		if len(ps) != 1 {
			t.Errorf("expected exactly one period, got %d", len(ps))
		}
	})
}

func TestResolvePeriodForDateFindsCustomPeriod(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		custom := mustCreate(t, m, "fam", "2026-01-01", "2026-01-14")
		got, err := m.ResolvePeriodForDate(context.Background(), "fam", "2026-01-10")
		if err != nil {
			t.Fatalf("ResolvePeriodForDate failed: %v", err)
		}
		if got.ID != custom.ID {
			t.Errorf("expected existing period %s, got %s", custom.ID, got.ID)
		}
	})
}

func TestResolvePeriodForDateWeekBlockedByOtherPeriod(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, "fam", "2026-01-02", "2026-01-05")
		_, err := m.ResolvePeriodForDate(context.Background(), "fam", "2025-12-29")
		requireOverlap(t, err, "2026-01-02 to 2026-01-05")
	})
}

func TestEndToEndScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Manager) {
		ctx := context.Background()
		event, err := m.CreateEvent(ctx, EventInput{FamilyID: "fam", Date: "2026-01-02", MealType: models.MealDinner, Notes: "tacos"})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		ps, err := m.ListPeriods(ctx, "fam")
		if err != nil || len(ps) != 1 {
			t.Fatalf("expected one auto-created period, got %v (err %v)", ps, err)
		}
		p1 := ps[0]
		if p1.Range() != "2025-12-28 to 2026-01-03" {
			t.Errorf("unexpected auto-created range %s", p1.Range())
		}
		if event.PlanningID == nil || *event.PlanningID != p1.ID {
			t.Errorf("expected event tagged with %s, got %v", p1.ID, event.PlanningID)
		}

		_, err = m.CreatePeriod(ctx, "fam", "2026-01-01", "2026-01-07", "")
		requireOverlap(t, err, "2025-12-28 to 2026-01-03")
	})
}
