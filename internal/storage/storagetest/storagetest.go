// Package storagetest holds behavior checks shared by every storage.Provider
// backend. Backend test files call Run with a constructor for a fresh,
// initialized store.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

// Factory returns an initialized, empty provider. Cleanup is the factory's job.
type Factory func(t *testing.T) storage.Provider

var baseTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Run executes the shared provider checks.
func Run(t *testing.T, newStore Factory) {
	t.Run("Families", func(t *testing.T) { testFamilies(t, newStore(t)) })
	t.Run("InsertAndGetPlanning", func(t *testing.T) { testInsertAndGetPlanning(t, newStore(t)) })
	t.Run("InsertRejectsOverlap", func(t *testing.T) { testInsertRejectsOverlap(t, newStore(t)) })
	t.Run("UpdatePlanning", func(t *testing.T) { testUpdatePlanning(t, newStore(t)) })
	t.Run("FindOverlapping", func(t *testing.T) { testFindOverlapping(t, newStore(t)) })
	t.Run("FindPlanningContaining", func(t *testing.T) { testFindPlanningContaining(t, newStore(t)) })
	t.Run("Events", func(t *testing.T) { testEvents(t, newStore(t)) })
	t.Run("UnknownFamily", func(t *testing.T) { testUnknownFamily(t, newStore(t)) })
}

// AddFamily inserts a family with the given id and fails the test on error.
func AddFamily(t *testing.T, s storage.Provider, id string) models.Family {
	t.Helper()
	f := models.Family{ID: id, Name: "Family " + id, CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := s.AddFamily(context.Background(), f); err != nil {
		t.Fatalf("AddFamily(%s) failed: %v", id, err)
	}
	return f
}

func planning(id, familyID, start, end string) models.MealPlanning {
	return models.MealPlanning{
		ID:        id,
		FamilyID:  familyID,
		StartDate: start,
		EndDate:   end,
		Status:    models.PlanningDraft,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func mustInsert(t *testing.T, s storage.Provider, p models.MealPlanning) {
	t.Helper()
	if err := s.InsertPlanning(context.Background(), p); err != nil {
		t.Fatalf("InsertPlanning(%s) failed: %v", p.ID, err)
	}
}

func ids(ps []models.MealPlanning) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testFamilies(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam-b")
	AddFamily(t, s, "fam-a")

	got, err := s.GetFamily(ctx, "fam-a")
	if err != nil {
		t.Fatalf("GetFamily failed: %v", err)
	}
	if got.Name != "Family fam-a" {
		t.Errorf("expected name %q, got %q", "Family fam-a", got.Name)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Errorf("expected created_at %v, got %v", baseTime, got.CreatedAt)
	}

	if _, err := s.GetFamily(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing family, got %v", err)
	}

	all, err := s.GetAllFamilies(ctx)
	if err != nil {
		t.Fatalf("GetAllFamilies failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "fam-a" {
		t.Errorf("expected families ordered by name, got %+v", all)
	}
}

func testInsertAndGetPlanning(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	p := planning("p1", "fam", "2026-01-04", "2026-01-10")
	mustInsert(t, s, p)

	got, err := s.GetPlanning(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPlanning failed: %v", err)
	}
	if got.StartDate != p.StartDate || got.EndDate != p.EndDate || got.Status != p.Status || got.FamilyID != "fam" {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}

	if _, err := s.GetPlanning(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testInsertRejectsOverlap(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	AddFamily(t, s, "other")
	mustInsert(t, s, planning("p1", "fam", "2026-01-01", "2026-01-07"))

	tests := []struct {
		name    string
		p       models.MealPlanning
		overlap bool
	}{
		{"shared last day", planning("p2", "fam", "2026-01-07", "2026-01-13"), true},
		{"contained", planning("p3", "fam", "2026-01-03", "2026-01-04"), true},
		{"adjacent", planning("p4", "fam", "2026-01-08", "2026-01-14"), false},
		{"other family same range", planning("p5", "other", "2026-01-01", "2026-01-07"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InsertPlanning(ctx, tt.p)
			if tt.overlap && !errors.Is(err, storage.ErrOverlap) {
				t.Errorf("expected ErrOverlap, got %v", err)
			}
			if !tt.overlap && err != nil {
				t.Errorf("expected insert to succeed, got %v", err)
			}
		})
	}
}

func testUpdatePlanning(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	mustInsert(t, s, planning("p1", "fam", "2026-01-01", "2026-01-07"))
	mustInsert(t, s, planning("p2", "fam", "2026-01-08", "2026-01-14"))

	p := planning("p1", "fam", "2026-01-01", "2026-01-07")
	p.Status = models.PlanningActive
	p.UpdatedAt = baseTime.Add(time.Hour)
	if err := s.UpdatePlanning(ctx, p); err != nil {
		t.Fatalf("UpdatePlanning failed: %v", err)
	}
	got, err := s.GetPlanning(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPlanning failed: %v", err)
	}
	if got.Status != models.PlanningActive {
		t.Errorf("expected status active, got %s", got.Status)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("expected updated_at %v, got %v", p.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Errorf("created_at changed: %v", got.CreatedAt)
	}

	p.EndDate = "2026-01-08"
	if err := s.UpdatePlanning(ctx, p); !errors.Is(err, storage.ErrOverlap) {
		t.Errorf("expected ErrOverlap when extending into p2, got %v", err)
	}

	missing := planning("nope", "fam", "2026-03-01", "2026-03-07")
	if err := s.UpdatePlanning(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testFindOverlapping(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	mustInsert(t, s, planning("p2", "fam", "2026-01-08", "2026-01-14"))
	mustInsert(t, s, planning("p1", "fam", "2026-01-01", "2026-01-07"))
	mustInsert(t, s, planning("p3", "fam", "2026-02-01", "2026-02-07"))

	tests := []struct {
		name      string
		start     string
		end       string
		excludeID string
		want      []string
	}{
		{"spans two", "2026-01-05", "2026-01-09", "", []string{"p1", "p2"}},
		{"exclude self", "2026-01-05", "2026-01-09", "p1", []string{"p2"}},
		{"touches end day", "2026-01-14", "2026-01-20", "", []string{"p2"}},
		{"gap", "2026-01-15", "2026-01-31", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindOverlappingPlannings(ctx, "fam", tt.start, tt.end, tt.excludeID)
			if err != nil {
				t.Fatalf("FindOverlappingPlannings failed: %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func testFindPlanningContaining(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	mustInsert(t, s, planning("p1", "fam", "2026-01-01", "2026-01-07"))

	for _, date := range []string{"2026-01-01", "2026-01-04", "2026-01-07"} {
		got, err := s.FindPlanningContaining(ctx, "fam", date)
		if err != nil {
			t.Fatalf("FindPlanningContaining(%s) failed: %v", date, err)
		}
		if got.ID != "p1" {
			t.Errorf("expected p1 for %s, got %s", date, got.ID)
		}
	}

	if _, err := s.FindPlanningContaining(ctx, "fam", "2026-01-08"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound outside range, got %v", err)
	}
	if _, err := s.FindPlanningContaining(ctx, "other", "2026-01-04"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other family, got %v", err)
	}
}

func testEvents(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	AddFamily(t, s, "fam")
	mustInsert(t, s, planning("p1", "fam", "2026-01-04", "2026-01-10"))
	planningID := "p1"

	events := []models.MealEvent{
		{ID: "e1", FamilyID: "fam", PlanningID: &planningID, Date: "2026-01-05", MealType: models.MealDinner},
		{ID: "e2", FamilyID: "fam", PlanningID: &planningID, Date: "2026-01-05", MealType: models.MealBreakfast, Notes: "oats"},
		{ID: "e3", FamilyID: "fam", Date: "2026-01-04", MealType: models.MealSnack},
		{ID: "e4", FamilyID: "fam", Date: "2026-01-11", MealType: models.MealLunch},
	}
	for _, e := range events {
		e.CreatedAt = baseTime
		e.UpdatedAt = baseTime
		if err := s.AddEvent(ctx, e); err != nil {
			t.Fatalf("AddEvent(%s) failed: %v", e.ID, err)
		}
	}

	got, err := s.GetEventsInRange(ctx, "fam", "2026-01-04", "2026-01-10")
	if err != nil {
		t.Fatalf("GetEventsInRange failed: %v", err)
	}
	var gotIDs []string
	for _, e := range got {
		gotIDs = append(gotIDs, e.ID)
	}
	want := []string{"e3", "e2", "e1"}
	if !equalIDs(gotIDs, want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	if got[1].Notes != "oats" {
		t.Errorf("expected notes to round trip, got %q", got[1].Notes)
	}
	if got[1].PlanningID == nil || *got[1].PlanningID != "p1" {
		t.Errorf("expected planning id p1, got %v", got[1].PlanningID)
	}
	if got[0].PlanningID != nil {
		t.Errorf("expected nil planning id, got %v", *got[0].PlanningID)
	}

	all, err := s.GetAllEvents(ctx)
	if err != nil {
		t.Fatalf("GetAllEvents failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 events, got %d", len(all))
	}
}

// testUnknownFamily checks that a dangling family reference is a write
// failure, not a missing record.
func testUnknownFamily(t *testing.T, s storage.Provider) {
	ctx := context.Background()

	err := s.InsertPlanning(ctx, planning("p1", "ghost", "2026-01-01", "2026-01-07"))
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Errorf("InsertPlanning: expected constraint failure, got %v", err)
	}

	e := models.MealEvent{ID: "e1", FamilyID: "ghost", Date: "2026-01-02", MealType: models.MealDinner, CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := s.AddEvent(ctx, e); err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddEvent: expected constraint failure, got %v", err)
	}
}
