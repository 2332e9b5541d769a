package models

import (
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
)

type MealType string

const (
	MealBreakfast MealType = constants.MealTypeBreakfast
	MealLunch     MealType = constants.MealTypeLunch
	MealDinner    MealType = constants.MealTypeDinner
	MealSnack     MealType = constants.MealTypeSnack
)

var mealTypeOrder = map[MealType]int{
	MealBreakfast: 0,
	MealLunch:     1,
	MealDinner:    2,
	MealSnack:     3,
}

func (m MealType) Valid() bool {
	_, ok := mealTypeOrder[m]
	return ok
}

// Order returns the position of the meal within a day. Unknown types sort last.
func (m MealType) Order() int {
	if o, ok := mealTypeOrder[m]; ok {
		return o
	}
	return len(mealTypeOrder)
}

// MealEvent is a single meal slot. PlanningID links it to the MealPlanning
// covering its date, when one has been resolved.
type MealEvent struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	PlanningID *string   `json:"planning_id,omitempty"`
	Date       string    `json:"date"` // YYYY-MM-DD format
	MealType   MealType  `json:"meal_type"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
