package periods

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
	"github.com/julianstephens/mealplan/internal/storage/memory"
)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	var out bytes.Buffer
	ctx := cli.NewContext(memory.NewStore())
	ctx.Out = &out

	fam, err := ctx.Manager.CreateFamily(context.Background(), "Garcia")
	require.NoError(t, err)
	return ctx, &out, fam.ID
}

func TestPeriodCreateAndList(t *testing.T) {
	ctx, out, family := setup(t)

	require.NoError(t, (&PeriodCreateCmd{Family: family, Start: "2024-05-06", End: "2024-05-12", Status: "active"}).Run(ctx))
	assert.Contains(t, out.String(), "2024-05-06")
	assert.Contains(t, out.String(), "active")

	out.Reset()
	require.NoError(t, (&PeriodListCmd{Family: family}).Run(ctx))
	assert.Contains(t, out.String(), "2024-05-12")
}

func TestPeriodCreateCmd_Overlap(t *testing.T) {
	ctx, _, family := setup(t)

	require.NoError(t, (&PeriodCreateCmd{Family: family, Start: "2024-05-06", End: "2024-05-12", Status: "draft"}).Run(ctx))

	err := (&PeriodCreateCmd{Family: family, Start: "2024-05-12", End: "2024-05-18", Status: "draft"}).Run(ctx)
	var overlapErr *planning.OverlapError
	require.True(t, errors.As(err, &overlapErr), "got %v", err)
	assert.Equal(t, []string{"2024-05-06 to 2024-05-12"}, overlapErr.Ranges())
}

func TestPeriodShowCmd(t *testing.T) {
	ctx, out, family := setup(t)

	p, err := ctx.Manager.CreatePeriod(context.Background(), family, "2024-05-06", "2024-05-12", "")
	require.NoError(t, err)

	require.NoError(t, (&PeriodShowCmd{ID: p.ID}).Run(ctx))
	assert.Contains(t, out.String(), p.ID)

	assert.Error(t, (&PeriodShowCmd{ID: "missing"}).Run(ctx))
}

func TestPeriodUpdateCmd(t *testing.T) {
	ctx, _, family := setup(t)
	bg := context.Background()

	p, err := ctx.Manager.CreatePeriod(bg, family, "2024-05-06", "2024-05-12", "")
	require.NoError(t, err)

	t.Run("requires a change", func(t *testing.T) {
		assert.Error(t, (&PeriodUpdateCmd{ID: p.ID}).Run(ctx))
	})

	t.Run("status and end date", func(t *testing.T) {
		require.NoError(t, (&PeriodUpdateCmd{ID: p.ID, Status: "completed", End: "2024-05-10"}).Run(ctx))

		got, found, err := ctx.Manager.GetPeriod(bg, p.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, models.PlanningCompleted, got.Status)
		assert.Equal(t, "2024-05-06", got.StartDate)
		assert.Equal(t, "2024-05-10", got.EndDate)
	})

	t.Run("invalid status", func(t *testing.T) {
		err := (&PeriodUpdateCmd{ID: p.ID, Status: "archived"}).Run(ctx)
		assert.ErrorIs(t, err, planning.ErrInvalidStatus)
	})
}

func TestPeriodResolveCmd(t *testing.T) {
	ctx, out, family := setup(t)

	// 2024-05-08 is a Wednesday
	require.NoError(t, (&PeriodResolveCmd{Family: family, Date: "2024-05-08"}).Run(ctx))
	assert.Contains(t, out.String(), "2024-05-05")
	assert.Contains(t, out.String(), "2024-05-11")

	require.NoError(t, (&PeriodResolveCmd{Family: family, Date: "2024-05-11"}).Run(ctx))
	ps, err := ctx.Manager.ListPeriods(context.Background(), family)
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestPeriodListCmd_Empty(t *testing.T) {
	ctx, out, family := setup(t)

	require.NoError(t, (&PeriodListCmd{Family: family}).Run(ctx))
	assert.Contains(t, out.String(), "No meal plannings")
}
