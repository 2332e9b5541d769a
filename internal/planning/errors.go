package planning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/mealplan/internal/metrics"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

var (
	// ErrNotFound is returned by writes that target a missing period.
	ErrNotFound = errors.New("meal planning not found")
	// ErrInvalidDate is returned for dates that are not real YYYY-MM-DD calendar days.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidRange is returned when a start date falls after its end date.
	ErrInvalidRange = errors.New("start date must not be after end date")
	// ErrInvalidStatus is returned for statuses outside draft, active, completed.
	ErrInvalidStatus = errors.New("invalid planning status")
	// ErrInvalidMealType is returned for meal types outside breakfast, lunch, dinner, snack.
	ErrInvalidMealType = errors.New("invalid meal type")
	// ErrInvalidInput is returned for missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// OverlapError reports the existing periods a create or update would collide with.
type OverlapError struct {
	Conflicts []models.MealPlanning
}

func (e *OverlapError) Error() string {
	if len(e.Conflicts) == 0 {
		return "the requested dates overlap an existing meal planning; choose different dates"
	}
	return fmt.Sprintf("the requested dates overlap existing meal planning(s): %s; choose different dates",
		strings.Join(e.Ranges(), ", "))
}

// Ranges returns each conflict rendered as "start to end".
func (e *OverlapError) Ranges() []string {
	ranges := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ranges[i] = c.Range()
	}
	return ranges
}

// IsValidation reports whether err stems from bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidMealType) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound reports whether err means the target record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, storage.ErrNotFound)
}

func resultFor(err error) string {
	var overlapErr *OverlapError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &overlapErr):
		return metrics.ResultOverlap
	case IsNotFound(err):
		return metrics.ResultNotFound
	case IsValidation(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
