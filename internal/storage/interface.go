package storage

import (
	"context"

	"github.com/julianstephens/mealplan/internal/models"
)

// Provider is the persistence boundary for families, plannings and events.
// Backends enforce the planning overlap invariant atomically: InsertPlanning
// and UpdatePlanning fail with ErrOverlap when the write would make two
// plannings of the same family share a calendar day.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Families
	AddFamily(ctx context.Context, family models.Family) error
	GetFamily(ctx context.Context, id string) (models.Family, error)
	GetAllFamilies(ctx context.Context) ([]models.Family, error)

	// Plannings
	InsertPlanning(ctx context.Context, planning models.MealPlanning) error
	UpdatePlanning(ctx context.Context, planning models.MealPlanning) error
	GetPlanning(ctx context.Context, id string) (models.MealPlanning, error)
	// FindOverlappingPlannings returns the family's plannings sharing at least
	// one day with [startDate, endDate], ordered by start date. An empty
	// excludeID disables exclusion.
	FindOverlappingPlannings(ctx context.Context, familyID, startDate, endDate, excludeID string) ([]models.MealPlanning, error)
	// FindPlanningContaining returns the planning covering date, or ErrNotFound.
	FindPlanningContaining(ctx context.Context, familyID, date string) (models.MealPlanning, error)
	GetPlanningsForFamily(ctx context.Context, familyID string) ([]models.MealPlanning, error)

	// Events
	AddEvent(ctx context.Context, event models.MealEvent) error
	GetEventsInRange(ctx context.Context, familyID, startDate, endDate string) ([]models.MealEvent, error)

	// Bulk Retrieval for Migration
	GetAllPlannings(ctx context.Context) ([]models.MealPlanning, error)
	GetAllEvents(ctx context.Context) ([]models.MealEvent, error)

	// Utils
	GetConfigPath() string
}
