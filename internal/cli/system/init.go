package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized mealplan storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(context.Background(), ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	// Don't delete the source out from under the copy
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete the existing database at %s?", dbPath)).
					Description("All families, meal plannings and meal events will be lost.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		).Run()
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			return errors.New("init cancelled")
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) migrateData(ctx context.Context, cliCtx *cli.Context, source string) error {
	sourceStore, err := cli.OpenBackend(source)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	return copyData(ctx, cliCtx, sourceStore, cliCtx.Store)
}

func copyData(ctx context.Context, cliCtx *cli.Context, src, dst storage.Provider) error {
	cliCtx.Println("  Migrating families...")
	families, err := src.GetAllFamilies(ctx)
	if err != nil {
		return fmt.Errorf("failed to get families from source: %w", err)
	}
	for _, f := range families {
		if err := dst.AddFamily(ctx, f); err != nil {
			return fmt.Errorf("failed to add family %s: %w", f.ID, err)
		}
	}
	cliCtx.Printf("    Migrated %d families\n", len(families))

	cliCtx.Println("  Migrating meal plannings...")
	plannings, err := src.GetAllPlannings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get meal plannings from source: %w", err)
	}
	for _, p := range plannings {
		if err := dst.InsertPlanning(ctx, p); err != nil {
			return fmt.Errorf("failed to add meal planning %s (%s to %s): %w", p.ID, p.StartDate, p.EndDate, err)
		}
	}
	cliCtx.Printf("    Migrated %d meal plannings\n", len(plannings))

	cliCtx.Println("  Migrating meal events...")
	events, err := src.GetAllEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get meal events from source: %w", err)
	}
	for _, e := range events {
		if err := dst.AddEvent(ctx, e); err != nil {
			return fmt.Errorf("failed to add meal event %s: %w", e.ID, err)
		}
	}
	cliCtx.Printf("    Migrated %d meal events\n", len(events))

	return nil
}
