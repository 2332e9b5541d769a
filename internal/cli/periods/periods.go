package periods

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
	"github.com/julianstephens/mealplan/internal/utils"
)

type PeriodCreateCmd struct {
	Family string `arg:"" help:"Family ID."`
	Start  string `arg:"" help:"First day of the period (YYYY-MM-DD)."`
	End    string `arg:"" help:"Last day of the period (YYYY-MM-DD), inclusive."`
	Status string `help:"Initial status." enum:"draft,active,completed" default:"draft"`
}

func (c *PeriodCreateCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Manager.CreatePeriod(context.Background(), c.Family, c.Start, c.End, models.PlanningStatus(c.Status))
	if err != nil {
		return err
	}
	ctx.Printf("Created meal planning %s\n", p.ID)
	cli.RenderPlannings(ctx.Writer(), []models.MealPlanning{p})
	return nil
}

type PeriodShowCmd struct {
	ID string `arg:"" help:"Planning ID."`
}

func (c *PeriodShowCmd) Run(ctx *cli.Context) error {
	p, found, err := ctx.Manager.GetPeriod(context.Background(), c.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("meal planning %s not found", c.ID)
	}
	cli.RenderPlannings(ctx.Writer(), []models.MealPlanning{p})
	return nil
}

type PeriodUpdateCmd struct {
	ID     string `arg:"" help:"Planning ID."`
	Status string `help:"New status: draft, active or completed."`
	Start  string `help:"New first day (YYYY-MM-DD)."`
	End    string `help:"New last day (YYYY-MM-DD)."`
}

func (c *PeriodUpdateCmd) Run(ctx *cli.Context) error {
	var upd planning.PeriodUpdate
	if c.Status != "" {
		s := models.PlanningStatus(c.Status)
		upd.Status = &s
	}
	if c.Start != "" {
		upd.StartDate = &c.Start
	}
	if c.End != "" {
		upd.EndDate = &c.End
	}
	if upd.Status == nil && upd.StartDate == nil && upd.EndDate == nil {
		return errors.New("nothing to update, pass --status, --start or --end")
	}

	p, err := ctx.Manager.UpdatePeriod(context.Background(), c.ID, upd)
	if err != nil {
		return err
	}
	ctx.Printf("Updated meal planning %s\n", p.ID)
	cli.RenderPlannings(ctx.Writer(), []models.MealPlanning{p})
	return nil
}

// PeriodResolveCmd prints the period covering a date, creating the
// surrounding Sunday to Saturday week when none exists.
type PeriodResolveCmd struct {
	Family string `arg:"" help:"Family ID."`
	Date   string `arg:"" optional:"" help:"Date to resolve (YYYY-MM-DD). Defaults to today."`
}

func (c *PeriodResolveCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		today, err := utils.TodayInTimezone("")
		if err != nil {
			return err
		}
		date = today
	}

	p, err := ctx.Manager.ResolvePeriodForDate(context.Background(), c.Family, date)
	if err != nil {
		return err
	}
	cli.RenderPlannings(ctx.Writer(), []models.MealPlanning{p})
	return nil
}

type PeriodListCmd struct {
	Family string `arg:"" help:"Family ID."`
}

func (c *PeriodListCmd) Run(ctx *cli.Context) error {
	ps, err := ctx.Manager.ListPeriods(context.Background(), c.Family)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		ctx.Println("No meal plannings for this family.")
		return nil
	}
	cli.RenderPlannings(ctx.Writer(), ps)
	return nil
}
