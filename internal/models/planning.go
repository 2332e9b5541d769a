package models

import (
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
)

type PlanningStatus string

const (
	PlanningDraft     PlanningStatus = constants.PlanningStatusDraft
	PlanningActive    PlanningStatus = constants.PlanningStatusActive
	PlanningCompleted PlanningStatus = constants.PlanningStatusCompleted
)

// Valid reports whether the status is one of the known lifecycle labels.
// Transitions between statuses are not restricted.
func (s PlanningStatus) Valid() bool {
	switch s {
	case PlanningDraft, PlanningActive, PlanningCompleted:
		return true
	}
	return false
}

// MealPlanning is a family's planning period. StartDate and EndDate are
// inclusive calendar dates in YYYY-MM-DD format.
type MealPlanning struct {
	ID        string         `json:"id"`
	FamilyID  string         `json:"family_id"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Status    PlanningStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Range renders the period as "start to end".
func (p MealPlanning) Range() string {
	return p.StartDate + " to " + p.EndDate
}

// Overlaps reports whether the inclusive ranges share at least one calendar day.
func (p MealPlanning) Overlaps(startDate, endDate string) bool {
	return p.StartDate <= endDate && p.EndDate >= startDate
}

// Contains reports whether date falls inside the period.
func (p MealPlanning) Contains(date string) bool {
	return p.StartDate <= date && date <= p.EndDate
}
