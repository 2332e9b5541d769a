package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

// Dates are selected as text so they compare and serialize as YYYY-MM-DD.
const planningSelect = `SELECT id, family_id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	status, created_at, updated_at FROM meal_plannings`

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) InsertPlanning(ctx context.Context, p models.MealPlanning) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plannings (id, family_id, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.FamilyID, p.StartDate, p.EndDate, string(p.Status), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
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
		"UPDATE meal_plannings SET start_date = $1, end_date = $2, status = $3, updated_at = $4 WHERE id = $5",
		p.StartDate, p.EndDate, string(p.Status), p.UpdatedAt.UTC(), p.ID,
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
	p, err := scanPlanning(s.db.QueryRowContext(ctx, planningSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MealPlanning{}, fmt.Errorf("planning %s: %w", id, storage.ErrNotFound)
		}
		return models.MealPlanning{}, err
	}
	return p, nil
}

func (s *Store) FindOverlappingPlannings(ctx context.Context, familyID, startDate, endDate, excludeID string) ([]models.MealPlanning, error) {
	query := planningSelect + " WHERE family_id = $1 AND start_date <= $2 AND end_date >= $3"
	args := []any{familyID, endDate, startDate}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_date, id"
	return s.queryPlannings(ctx, query, args...)
}

func (s *Store) FindPlanningContaining(ctx context.Context, familyID, date string) (models.MealPlanning, error) {
	p, err := scanPlanning(s.db.QueryRowContext(ctx,
		planningSelect+" WHERE family_id = $1 AND start_date <= $2 AND end_date >= $2 ORDER BY start_date LIMIT 1",
		familyID, date,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MealPlanning{}, fmt.Errorf("no planning covers %s: %w", date, storage.ErrNotFound)
		}
		return models.MealPlanning{}, err
	}
	return p, nil
}

func (s *Store) GetPlanningsForFamily(ctx context.Context, familyID string) ([]models.MealPlanning, error) {
	return s.queryPlannings(ctx, planningSelect+" WHERE family_id = $1 ORDER BY start_date, id", familyID)
}

func (s *Store) GetAllPlannings(ctx context.Context) ([]models.MealPlanning, error) {
	return s.queryPlannings(ctx, planningSelect+" ORDER BY family_id, start_date")
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
	var status string
	if err := sc.Scan(&p.ID, &p.FamilyID, &p.StartDate, &p.EndDate, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.MealPlanning{}, err
	}
	p.Status = models.PlanningStatus(status)
	return p, nil
}
