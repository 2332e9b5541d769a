package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/mealplan/internal/models"
)

const eventColumns = "id, family_id, planning_id, date, meal_type, notes, created_at, updated_at"

func (s *Store) AddEvent(ctx context.Context, e models.MealEvent) error {
	var planningID sql.NullString
	if e.PlanningID != nil {
		planningID = sql.NullString{String: *e.PlanningID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meal_events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.FamilyID, planningID, e.Date, string(e.MealType), e.Notes,
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal event: %w", err)
	}
	return nil
}

func (s *Store) GetEventsInRange(ctx context.Context, familyID, startDate, endDate string) ([]models.MealEvent, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventColumns+` FROM meal_events
		WHERE family_id = ? AND date >= ? AND date <= ?
		ORDER BY date, CASE meal_type
			WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END, created_at`,
		familyID, startDate, endDate,
	)
}

func (s *Store) GetAllEvents(ctx context.Context) ([]models.MealEvent, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM meal_events ORDER BY family_id, date")
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]models.MealEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal events: %w", err)
	}
	defer rows.Close()

	var events []models.MealEvent
	for rows.Next() {
		var e models.MealEvent
		var planningID sql.NullString
		var mealType, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.FamilyID, &planningID, &e.Date, &mealType, &e.Notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal event: %w", err)
		}
		if planningID.Valid {
			e.PlanningID = &planningID.String
		}
		e.MealType = models.MealType(mealType)
		if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal event rows: %w", err)
	}
	return events, nil
}
