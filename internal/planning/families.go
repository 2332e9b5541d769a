package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

// CreateFamily registers a family under a generated ID.
func (m *Manager) CreateFamily(ctx context.Context, name string) (f models.Family, err error) {
	defer m.observe("create_family", time.Now(), &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Family{}, fmt.Errorf("%w: family name is required", ErrInvalidInput)
	}
	now := m.timestamp()
	f = models.Family{
		ID:        m.newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.AddFamily(ctx, f); err != nil {
		return models.Family{}, fmt.Errorf("failed to create family: %w", err)
	}
	return f, nil
}

// GetFamily mirrors GetPeriod: a missing family is not an error.
func (m *Manager) GetFamily(ctx context.Context, id string) (models.Family, bool, error) {
	f, err := m.store.GetFamily(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Family{}, false, nil
		}
		return models.Family{}, false, fmt.Errorf("failed to get family: %w", err)
	}
	return f, true, nil
}

// ListFamilies returns every family, ordered by name.
func (m *Manager) ListFamilies(ctx context.Context) ([]models.Family, error) {
	families, err := m.store.GetAllFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	return families, nil
}
