package events

import (
	"context"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
)

// EventAddCmd schedules a meal. The date is attached to the period covering
// it, which is created on demand.
type EventAddCmd struct {
	Family string `arg:"" help:"Family ID."`
	Date   string `arg:"" help:"Date of the meal (YYYY-MM-DD)."`
	Meal   string `arg:"" help:"Meal slot." enum:"breakfast,lunch,dinner,snack"`
	Notes  string `help:"Free-form notes, e.g. the dish."`
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Manager.CreateEvent(context.Background(), planning.EventInput{
		FamilyID: c.Family,
		Date:     c.Date,
		MealType: models.MealType(c.Meal),
		Notes:    c.Notes,
	})
	if err != nil {
		return err
	}
	ctx.Printf("Added %s on %s to meal planning %s\n", e.MealType, e.Date, *e.PlanningID)
	return nil
}

type EventListCmd struct {
	Family string `arg:"" help:"Family ID."`
	Start  string `arg:"" help:"First day (YYYY-MM-DD)."`
	End    string `arg:"" help:"Last day (YYYY-MM-DD), inclusive."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	es, err := ctx.Manager.ListEventsInRange(context.Background(), c.Family, c.Start, c.End)
	if err != nil {
		return err
	}
	if len(es) == 0 {
		ctx.Println("No meals scheduled in this range.")
		return nil
	}
	cli.RenderEvents(ctx.Writer(), es)
	return nil
}
