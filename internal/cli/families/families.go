package families

import (
	"context"

	"github.com/julianstephens/mealplan/internal/cli"
)

type FamilyAddCmd struct {
	Name string `arg:"" help:"Display name of the family."`
}

func (c *FamilyAddCmd) Run(ctx *cli.Context) error {
	f, err := ctx.Manager.CreateFamily(context.Background(), c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Added family %q with ID %s\n", f.Name, f.ID)
	return nil
}

type FamilyListCmd struct{}

func (c *FamilyListCmd) Run(ctx *cli.Context) error {
	fs, err := ctx.Manager.ListFamilies(context.Background())
	if err != nil {
		return err
	}
	if len(fs) == 0 {
		ctx.Println("No families yet. Add one with 'mealplan family add <name>'.")
		return nil
	}
	cli.RenderFamilies(ctx.Writer(), fs)
	return nil
}
