package planning

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/mealplan/internal/models"
)

// OverlapPair is two periods of one family that share at least one day.
type OverlapPair struct {
	FamilyID string
	First    models.MealPlanning
	Second   models.MealPlanning
}

// AuditOverlaps scans every stored period and reports pairs that break the
// no-overlap rule. Only data written around the storage constraints, such as
// imported rows, can produce findings.
func (m *Manager) AuditOverlaps(ctx context.Context) ([]OverlapPair, error) {
	all, err := m.store.GetAllPlannings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plannings: %w", err)
	}

	byFamily := make(map[string][]models.MealPlanning)
	var families []string
	for _, p := range all {
		if _, ok := byFamily[p.FamilyID]; !ok {
			families = append(families, p.FamilyID)
		}
		byFamily[p.FamilyID] = append(byFamily[p.FamilyID], p)
	}
	sort.Strings(families)

	var pairs []OverlapPair
	for _, familyID := range families {
		ps := byFamily[familyID]
		sort.Slice(ps, func(i, j int) bool { return ps[i].StartDate < ps[j].StartDate })
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				// Sorted by start: once a later period starts after ps[i] ends, none after it can overlap.
				if ps[j].StartDate > ps[i].EndDate {
					break
				}
				pairs = append(pairs, OverlapPair{FamilyID: familyID, First: ps[i], Second: ps[j]})
			}
		}
	}
	return pairs, nil
}
