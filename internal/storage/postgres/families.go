package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

func (s *Store) AddFamily(ctx context.Context, family models.Family) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO families (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		family.ID, family.Name, family.CreatedAt.UTC(), family.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert family: %w", err)
	}
	return nil
}

func (s *Store) GetFamily(ctx context.Context, id string) (models.Family, error) {
	var f models.Family
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM families WHERE id = $1", id,
	).Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Family{}, fmt.Errorf("family %s: %w", id, storage.ErrNotFound)
		}
		return models.Family{}, err
	}
	return f, nil
}

func (s *Store) GetAllFamilies(ctx context.Context) ([]models.Family, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at, updated_at FROM families ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var f models.Family
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}
