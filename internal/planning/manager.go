// Package planning manages family meal planning periods: non-overlapping
// inclusive date ranges, their lifecycle status, and resolution of a
// calendar date to the period that covers it.
package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/metrics"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/utils"
)

// Manager owns period validation and persistence for every family.
type Manager struct {
	store   storage.Provider
	now     func() time.Time
	newID   func() string
	metrics *metrics.Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithMetrics records operation outcomes on mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager returns a Manager backed by store.
func NewManager(store storage.Provider, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PeriodUpdate holds the optional fields of an update. Nil fields keep
// their stored value.
type PeriodUpdate struct {
	Status    *models.PlanningStatus
	StartDate *string
	EndDate   *string
}

func (m *Manager) timestamp() time.Time {
	return m.now().UTC()
}

func (m *Manager) observe(operation string, start time.Time, err *error) {
	m.metrics.Observe(operation, resultFor(*err), time.Since(start))
}

func validateDate(date string) error {
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func validateRange(startDate, endDate string) error {
	if err := validateDate(startDate); err != nil {
		return err
	}
	if err := validateDate(endDate); err != nil {
		return err
	}
	if startDate > endDate {
		return fmt.Errorf("%w: %s to %s", ErrInvalidRange, startDate, endDate)
	}
	return nil
}

// FindOverlapping returns the family's periods sharing at least one day with
// [startDate, endDate], ordered by start date. An empty excludeID disables
// exclusion.
func (m *Manager) FindOverlapping(ctx context.Context, familyID, startDate, endDate, excludeID string) ([]models.MealPlanning, error) {
	if err := validateDate(startDate); err != nil {
		return nil, err
	}
	if err := validateDate(endDate); err != nil {
		return nil, err
	}
	conflicts, err := m.store.FindOverlappingPlannings(ctx, familyID, startDate, endDate, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping plannings: %w", err)
	}
	return conflicts, nil
}

// overlapFromStore builds an OverlapError after the storage layer rejected a
// write that passed the explicit check.
func (m *Manager) overlapFromStore(ctx context.Context, familyID, startDate, endDate, excludeID string) error {
	conflicts, err := m.store.FindOverlappingPlannings(ctx, familyID, startDate, endDate, excludeID)
	if err != nil {
		return fmt.Errorf("failed to read conflicting plannings: %w", err)
	}
	return &OverlapError{Conflicts: conflicts}
}

// CreatePeriod creates a period for the family. An empty status defaults to
// draft. Overlapping an existing period of the same family fails with
// *OverlapError and writes nothing.
func (m *Manager) CreatePeriod(ctx context.Context, familyID, startDate, endDate string, status models.PlanningStatus) (p models.MealPlanning, err error) {
	defer m.observe("create_period", time.Now(), &err)
	return m.createPeriod(ctx, familyID, startDate, endDate, status)
}

func (m *Manager) createPeriod(ctx context.Context, familyID, startDate, endDate string, status models.PlanningStatus) (models.MealPlanning, error) {
	if familyID == "" {
		return models.MealPlanning{}, fmt.Errorf("%w: family id is required", ErrInvalidInput)
	}
	if err := validateRange(startDate, endDate); err != nil {
		return models.MealPlanning{}, err
	}
	if status == "" {
		status = models.PlanningDraft
	}
	if !status.Valid() {
		return models.MealPlanning{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	conflicts, err := m.FindOverlapping(ctx, familyID, startDate, endDate, "")
	if err != nil {
		return models.MealPlanning{}, err
	}
	if len(conflicts) > 0 {
		logger.Debug("Rejected overlapping planning", "family", familyID, "start", startDate, "end", endDate, "conflicts", len(conflicts))
		return models.MealPlanning{}, &OverlapError{Conflicts: conflicts}
	}

	now := m.timestamp()
	p := models.MealPlanning{
		ID:        m.newID(),
		FamilyID:  familyID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.InsertPlanning(ctx, p); err != nil {
		if errors.Is(err, storage.ErrOverlap) {
			return models.MealPlanning{}, m.overlapFromStore(ctx, familyID, startDate, endDate, "")
		}
		return models.MealPlanning{}, fmt.Errorf("failed to create planning: %w", err)
	}
	return p, nil
}

// GetPeriod loads a period by id. A missing period yields found == false
// and a nil error.
func (m *Manager) GetPeriod(ctx context.Context, id string) (p models.MealPlanning, found bool, err error) {
	defer m.observe("get_period", time.Now(), &err)
	p, err = m.store.GetPlanning(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MealPlanning{}, false, nil
		}
		return models.MealPlanning{}, false, fmt.Errorf("failed to get planning: %w", err)
	}
	return p, true, nil
}

// UpdatePeriod applies the supplied fields. Date changes are validated
// against the family's other periods; a status-only change skips the
// overlap check.
func (m *Manager) UpdatePeriod(ctx context.Context, id string, upd PeriodUpdate) (p models.MealPlanning, err error) {
	defer m.observe("update_period", time.Now(), &err)

	existing, err := m.store.GetPlanning(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MealPlanning{}, fmt.Errorf("planning %s: %w", id, ErrNotFound)
		}
		return models.MealPlanning{}, fmt.Errorf("failed to get planning: %w", err)
	}

	updated := existing
	if upd.StartDate != nil {
		updated.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		updated.EndDate = *upd.EndDate
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return models.MealPlanning{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *upd.Status)
		}
		updated.Status = *upd.Status
	}

	datesChanged := upd.StartDate != nil || upd.EndDate != nil
	if datesChanged {
		if err := validateRange(updated.StartDate, updated.EndDate); err != nil {
			return models.MealPlanning{}, err
		}
		conflicts, err := m.FindOverlapping(ctx, existing.FamilyID, updated.StartDate, updated.EndDate, existing.ID)
		if err != nil {
			return models.MealPlanning{}, err
		}
		if len(conflicts) > 0 {
			logger.Debug("Rejected overlapping planning update", "id", id, "start", updated.StartDate, "end", updated.EndDate, "conflicts", len(conflicts))
			return models.MealPlanning{}, &OverlapError{Conflicts: conflicts}
		}
	}

	updated.UpdatedAt = m.timestamp()
	if err := m.store.UpdatePlanning(ctx, updated); err != nil {
		switch {
		case errors.Is(err, storage.ErrOverlap):
			return models.MealPlanning{}, m.overlapFromStore(ctx, existing.FamilyID, updated.StartDate, updated.EndDate, existing.ID)
		case errors.Is(err, storage.ErrNotFound):
			return models.MealPlanning{}, fmt.Errorf("planning %s: %w", id, ErrNotFound)
		}
		return models.MealPlanning{}, fmt.Errorf("failed to update planning: %w", err)
	}
	return updated, nil
}

// ResolvePeriodForDate returns the family's period covering date, creating a
// draft Sunday to Saturday week when none exists. A concurrent creator that
// wins the race surfaces here as *OverlapError; callers may resolve again.
func (m *Manager) ResolvePeriodForDate(ctx context.Context, familyID, date string) (p models.MealPlanning, err error) {
	defer m.observe("resolve_period", time.Now(), &err)

	if familyID == "" {
		return models.MealPlanning{}, fmt.Errorf("%w: family id is required", ErrInvalidInput)
	}
	if err := validateDate(date); err != nil {
		return models.MealPlanning{}, err
	}

	p, err = m.store.FindPlanningContaining(ctx, familyID, date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.MealPlanning{}, fmt.Errorf("failed to find planning for %s: %w", date, err)
	}

	weekStart, weekEnd, err := utils.WeekBounds(date)
	if err != nil {
		return models.MealPlanning{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	p, err = m.createPeriod(ctx, familyID, weekStart, weekEnd, models.PlanningDraft)
	if err != nil {
		return models.MealPlanning{}, err
	}
	m.metrics.AutoCreated()
	logger.Info("Auto-created weekly planning", "family", familyID, "date", date, "start", p.StartDate, "end", p.EndDate)
	return p, nil
}

// ListPeriods returns the family's periods ordered by start date.
func (m *Manager) ListPeriods(ctx context.Context, familyID string) (ps []models.MealPlanning, err error) {
	defer m.observe("list_periods", time.Now(), &err)
	ps, err = m.store.GetPlanningsForFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plannings: %w", err)
	}
	return ps, nil
}
