// Package memory provides a mutex-guarded Provider used for tests and the
// memory:// connection string. Data does not survive Close.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

type Store struct {
	mu        sync.RWMutex
	families  map[string]models.Family
	plannings map[string]models.MealPlanning
	events    map[string]models.MealEvent
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.families = make(map[string]models.Family)
	s.plannings = make(map[string]models.MealPlanning)
	s.events = make(map[string]models.MealEvent)
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string {
	return constants.MemoryScheme
}

func (s *Store) AddFamily(_ context.Context, family models.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.families[family.ID]; ok {
		return fmt.Errorf("family %s already exists", family.ID)
	}
	s.families[family.ID] = family
	return nil
}

func (s *Store) GetFamily(_ context.Context, id string) (models.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.families[id]
	if !ok {
		return models.Family{}, fmt.Errorf("family %s: %w", id, storage.ErrNotFound)
	}
	return f, nil
}

func (s *Store) GetAllFamilies(_ context.Context) ([]models.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Family, 0, len(s.families))
	for _, f := range s.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// overlapping must be called with the lock held.
func (s *Store) overlapping(familyID, startDate, endDate, excludeID string) []models.MealPlanning {
	var out []models.MealPlanning
	for _, p := range s.plannings {
		if p.FamilyID != familyID || (excludeID != "" && p.ID == excludeID) {
			continue
		}
		if p.Overlaps(startDate, endDate) {
			out = append(out, p)
		}
	}
	sortPlannings(out)
	return out
}

func (s *Store) InsertPlanning(_ context.Context, p models.MealPlanning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plannings[p.ID]; ok {
		return fmt.Errorf("planning %s already exists", p.ID)
	}
	if _, ok := s.families[p.FamilyID]; !ok {
		return foreignKeyError("meal_plannings", p.FamilyID)
	}
	if len(s.overlapping(p.FamilyID, p.StartDate, p.EndDate, "")) > 0 {
		return storage.ErrOverlap
	}
	s.plannings[p.ID] = p
	return nil
}

func (s *Store) UpdatePlanning(_ context.Context, p models.MealPlanning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.plannings[p.ID]
	if !ok {
		return fmt.Errorf("planning %s: %w", p.ID, storage.ErrNotFound)
	}
	datesChanged := p.StartDate != existing.StartDate || p.EndDate != existing.EndDate
	if datesChanged && len(s.overlapping(existing.FamilyID, p.StartDate, p.EndDate, p.ID)) > 0 {
		return storage.ErrOverlap
	}
	existing.StartDate = p.StartDate
	existing.EndDate = p.EndDate
	existing.Status = p.Status
	existing.UpdatedAt = p.UpdatedAt
	s.plannings[p.ID] = existing
	return nil
}

func (s *Store) GetPlanning(_ context.Context, id string) (models.MealPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plannings[id]
	if !ok {
		return models.MealPlanning{}, fmt.Errorf("planning %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) FindOverlappingPlannings(_ context.Context, familyID, startDate, endDate, excludeID string) ([]models.MealPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlapping(familyID, startDate, endDate, excludeID), nil
}

func (s *Store) FindPlanningContaining(_ context.Context, familyID, date string) (models.MealPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := s.overlapping(familyID, date, date, "")
	if len(matches) == 0 {
		return models.MealPlanning{}, fmt.Errorf("no planning covers %s: %w", date, storage.ErrNotFound)
	}
	return matches[0], nil
}

func (s *Store) GetPlanningsForFamily(_ context.Context, familyID string) ([]models.MealPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MealPlanning
	for _, p := range s.plannings {
		if p.FamilyID == familyID {
			out = append(out, p)
		}
	}
	sortPlannings(out)
	return out, nil
}

func (s *Store) GetAllPlannings(_ context.Context) ([]models.MealPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MealPlanning, 0, len(s.plannings))
	for _, p := range s.plannings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FamilyID != out[j].FamilyID {
			return out[i].FamilyID < out[j].FamilyID
		}
		return out[i].StartDate < out[j].StartDate
	})
	return out, nil
}

func (s *Store) AddEvent(_ context.Context, e models.MealEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("meal event %s already exists", e.ID)
	}
	if _, ok := s.families[e.FamilyID]; !ok {
		return foreignKeyError("meal_events", e.FamilyID)
	}
	s.events[e.ID] = e
	return nil
}

func (s *Store) GetEventsInRange(_ context.Context, familyID, startDate, endDate string) ([]models.MealEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MealEvent
	for _, e := range s.events {
		if e.FamilyID == familyID && e.Date >= startDate && e.Date <= endDate {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (s *Store) GetAllEvents(_ context.Context) ([]models.MealEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MealEvent, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FamilyID != out[j].FamilyID {
			return out[i].FamilyID < out[j].FamilyID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func sortPlannings(ps []models.MealPlanning) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].StartDate != ps[j].StartDate {
			return ps[i].StartDate < ps[j].StartDate
		}
		return ps[i].ID < ps[j].ID
	})
}

func sortEvents(es []models.MealEvent) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Date != es[j].Date {
			return es[i].Date < es[j].Date
		}
		if oi, oj := es[i].MealType.Order(), es[j].MealType.Order(); oi != oj {
			return oi < oj
		}
		if !es[i].CreatedAt.Equal(es[j].CreatedAt) {
			return es[i].CreatedAt.Before(es[j].CreatedAt)
		}
		return es[i].ID < es[j].ID
	})
}

// foreignKeyError mirrors the constraint failure the SQL backends report for
// an unknown family.
func foreignKeyError(table, familyID string) error {
	return fmt.Errorf("FOREIGN KEY constraint failed: %s references unknown family %s", table, familyID)
}
