package system

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/planning"
	"github.com/julianstephens/mealplan/internal/utils"
)

type DoctorCmd struct{}

type dbProvider interface {
	GetDB() *sql.DB
}

type schemaVersioner interface {
	SchemaVersions(ctx context.Context) (current, latest int, err error)
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	run     func(context.Context, *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Planning overlaps", needsDB: true, run: checkPlanningOverlaps},
	{name: "Date formats", needsDB: true, run: checkDateFormats},
	{name: "Timestamp integrity", needsDB: true, run: checkTimestampIntegrity},
	{name: "Clock/timezone", run: func(context.Context, *cli.Context) error { return checkClockTimezone() }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(bg, ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		if err := c.run(bg, ctx); err != nil {
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			continue
		}
		ctx.Printf("✓ %s: OK\n", c.name)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func manager(ctx *cli.Context) *planning.Manager {
	if ctx.Manager != nil {
		return ctx.Manager
	}
	return planning.NewManager(ctx.Store)
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if p, ok := ctx.Store.(dbProvider); ok {
		db := p.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(bg, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	v, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersions(bg)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(bg context.Context, ctx *cli.Context) error {
	v, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersions(bg)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'mealplan migrate')", current, latest)
	}
	return nil
}

func checkPlanningOverlaps(bg context.Context, ctx *cli.Context) error {
	pairs, err := manager(ctx).AuditOverlaps(bg)
	if err != nil {
		return fmt.Errorf("failed to audit meal plannings: %w", err)
	}
	if len(pairs) == 0 {
		return nil
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("family %s: %s (%s to %s) overlaps %s (%s to %s)",
			p.FamilyID, p.First.ID, p.First.StartDate, p.First.EndDate, p.Second.ID, p.Second.StartDate, p.Second.EndDate))
	}
	return fmt.Errorf("found %d overlapping meal planning pair(s):\n   %s", len(pairs), strings.Join(lines, "\n   "))
}

func checkDateFormats(bg context.Context, ctx *cli.Context) error {
	plannings, err := ctx.Store.GetAllPlannings(bg)
	if err != nil {
		return fmt.Errorf("failed to get meal plannings: %w", err)
	}
	invalid := 0
	for _, p := range plannings {
		if !utils.ValidateDateFormat(p.StartDate) || !utils.ValidateDateFormat(p.EndDate) || p.StartDate > p.EndDate {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("found %d meal plannings with invalid dates", invalid)
	}

	events, err := ctx.Store.GetAllEvents(bg)
	if err != nil {
		return fmt.Errorf("failed to get meal events: %w", err)
	}
	for _, e := range events {
		if !utils.ValidateDateFormat(e.Date) {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("found %d meal events with invalid date format", invalid)
	}
	return nil
}

func checkTimestampIntegrity(bg context.Context, ctx *cli.Context) error {
	plannings, err := ctx.Store.GetAllPlannings(bg)
	if err != nil {
		return fmt.Errorf("failed to get meal plannings: %w", err)
	}
	corrupted := 0
	for _, p := range plannings {
		if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() || p.UpdatedAt.Before(p.CreatedAt) {
			corrupted++
		}
	}
	if corrupted > 0 {
		return fmt.Errorf("found %d meal plannings with corrupted timestamps", corrupted)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(now.Location().String()); err != nil {
		return fmt.Errorf("local timezone cannot be loaded: %w", err)
	}
	return nil
}
