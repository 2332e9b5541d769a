package sqlite

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
		"INSERT INTO families (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		family.ID, family.Name, formatTimestamp(family.CreatedAt), formatTimestamp(family.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert family: %w", err)
	}
	return nil
}

func (s *Store) GetFamily(ctx context.Context, id string) (models.Family, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at, updated_at FROM families WHERE id = ?", id)
	f, err := scanFamily(row)
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
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

func scanFamily(sc scanner) (models.Family, error) {
	var f models.Family
	var createdAt, updatedAt string
	if err := sc.Scan(&f.ID, &f.Name, &createdAt, &updatedAt); err != nil {
		return models.Family{}, err
	}
	var err error
	if f.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Family{}, err
	}
	if f.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Family{}, err
	}
	return f, nil
}
