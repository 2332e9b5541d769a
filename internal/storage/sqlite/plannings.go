package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

const planningColumns = "id, family_id, start_date, end_date, status, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func (s *Store) InsertPlanning(ctx context.Context, p models.MealPlanning) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meal_plannings ("+planningColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.FamilyID, p.StartDate, p.EndDate, string(p.Status), formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		if isOverlapViolation(err) {
			return storage.ErrOverlap
		}
		return fmt.Errorf("failed to insert planning: %w", err)
	}
	return nil
}

func (s *Store) UpdatePlanning(ctx context.Context, p models.MealPlanning) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meal_plannings SET start_date = ?, end_date = ?, status = ?, updated_at = ? WHERE id = ?",
		p.StartDate, p.EndDate, string(p.Status), formatTimestamp(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isOverlapViolation(err) {
			return storage.ErrOverlap
		}
		return fmt.Errorf("failed to update planning: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("planning %s: %w", p.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetPlanning(ctx context.Context, id string) (models.MealPlanning, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+planningColumns+" FROM meal_plannings WHERE id = ?", id)
	p, err := scanPlanning(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MealPlanning{}, fmt.Errorf("planning %s: %w", id, storage.ErrNotFound)
		}
		return models.MealPlanning{}, err
	}
	return p, nil
}

func (s *Store) FindOverlappingPlannings(ctx context.Context, familyID, startDate, endDate, excludeID string) ([]models.MealPlanning, error) {
	query := "SELECT " + planningColumns + ` FROM meal_plannings
		WHERE family_id = ? AND start_date <= ? AND end_date >= ?`
	args := []any{familyID, endDate, startDate}
	if excludeID != "" {
		query += " AND id <> ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_date"
	return s.queryPlannings(ctx, query, args...)
}

func (s *Store) FindPlanningContaining(ctx context.Context, familyID, date string) (models.MealPlanning, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+planningColumns+` FROM meal_plannings
		WHERE family_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date LIMIT 1`,
		familyID, date, date,
	)
	p, err := scanPlanning(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MealPlanning{}, fmt.Errorf("no planning covers %s: %w", date, storage.ErrNotFound)
		}
		return models.MealPlanning{}, err
	}
	return p, nil
}

func (s *Store) GetPlanningsForFamily(ctx context.Context, familyID string) ([]models.MealPlanning, error) {
	return s.queryPlannings(ctx,
		"SELECT "+planningColumns+" FROM meal_plannings WHERE family_id = ? ORDER BY start_date",
		familyID,
	)
}

func (s *Store) GetAllPlannings(ctx context.Context) ([]models.MealPlanning, error) {
	return s.queryPlannings(ctx,
		"SELECT "+planningColumns+" FROM meal_plannings ORDER BY family_id, start_date",
	)
}

func (s *Store) queryPlannings(ctx context.Context, query string, args ...any) ([]models.MealPlanning, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plannings: %w", err)
	}
	defer rows.Close()

	var plannings []models.MealPlanning
	for rows.Next() {
		p, err := scanPlanning(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planning: %w", err)
		}
		plannings = append(plannings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating planning rows: %w", err)
	}
	return plannings, nil
}

func scanPlanning(sc scanner) (models.MealPlanning, error) {
	var p models.MealPlanning
	var status, createdAt, updatedAt string
	if err := sc.Scan(&p.ID, &p.FamilyID, &p.StartDate, &p.EndDate, &status, &createdAt, &updatedAt); err != nil {
		return models.MealPlanning{}, err
	}
	p.Status = models.PlanningStatus(status)

	var err error
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.MealPlanning{}, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.MealPlanning{}, err
	}
	return p, nil
}
