package http

import (
	"github.com/julianstephens/mealplan/internal/models"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-overlap error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse is one conflicting period in an overlap error.
type ConflictResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Range     string `json:"range"`
}

// OverlapResponse is the 409 body for writes rejected by an overlap.
type OverlapResponse struct {
	Error     string             `json:"error"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// CreateFamilyRequest is the request body for POST /api/v1/families.
type CreateFamilyRequest struct {
	Name string `json:"name"`
}

// CreatePlanningRequest is the request body for POST /api/v1/families/:familyID/plannings.
type CreatePlanningRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status,omitempty"`
}

// UpdatePlanningRequest is the request body for PATCH /api/v1/plannings/:id.
// Omitted fields are left unchanged.
type UpdatePlanningRequest struct {
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// CreateEventRequest is the request body for POST /api/v1/families/:familyID/events.
type CreateEventRequest struct {
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
	Notes    string `json:"notes,omitempty"`
}

// PlanningsResponse lists periods.
type PlanningsResponse struct {
	Plannings []models.MealPlanning `json:"plannings"`
}

// EventsResponse lists meal events.
type EventsResponse struct {
	Events []models.MealEvent `json:"events"`
}
