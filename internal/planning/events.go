package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
)

// EventInput describes a meal to schedule.
type EventInput struct {
	FamilyID string
	Date     string
	MealType models.MealType
	Notes    string
}

// ListEventsInRange returns the family's meal events dated within
// [startDate, endDate], ordered by date then meal type.
func (m *Manager) ListEventsInRange(ctx context.Context, familyID, startDate, endDate string) (events []models.MealEvent, err error) {
	defer m.observe("list_events", time.Now(), &err)

	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	events, err = m.store.GetEventsInRange(ctx, familyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal events: %w", err)
	}
	return events, nil
}

// CreateEvent schedules a meal and tags it with the period covering its
// date, creating that period when needed.
func (m *Manager) CreateEvent(ctx context.Context, in EventInput) (e models.MealEvent, err error) {
	defer m.observe("create_event", time.Now(), &err)

	if in.FamilyID == "" {
		return models.MealEvent{}, fmt.Errorf("%w: family id is required", ErrInvalidInput)
	}
	if err := validateDate(in.Date); err != nil {
		return models.MealEvent{}, err
	}
	if !in.MealType.Valid() {
		return models.MealEvent{}, fmt.Errorf("%w: %q", ErrInvalidMealType, in.MealType)
	}

	p, err := m.ResolvePeriodForDate(ctx, in.FamilyID, in.Date)
	var overlapErr *OverlapError
	if errors.As(err, &overlapErr) {
		// Another writer created the week between lookup and insert.
		logger.Debug("Re-resolving planning after concurrent creation", "family", in.FamilyID, "date", in.Date)
		p, err = m.ResolvePeriodForDate(ctx, in.FamilyID, in.Date)
	}
	if err != nil {
		return models.MealEvent{}, err
	}

	now := m.timestamp()
	planningID := p.ID
	e = models.MealEvent{
		ID:         m.newID(),
		FamilyID:   in.FamilyID,
		PlanningID: &planningID,
		Date:       in.Date,
		MealType:   in.MealType,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.store.AddEvent(ctx, e); err != nil {
		return models.MealEvent{}, fmt.Errorf("failed to create meal event: %w", err)
	}
	return e, nil
}
