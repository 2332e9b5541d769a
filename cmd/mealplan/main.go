package main

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/cli/events"
	"github.com/julianstephens/mealplan/internal/cli/families"
	"github.com/julianstephens/mealplan/internal/cli/periods"
	"github.com/julianstephens/mealplan/internal/cli/system"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path, PostgreSQL connection string, 'keyring' or 'memory://'. PostgreSQL credentials must NOT be embedded in the connection string; use MEALPLAN_DB_CONNECTION, .pgpass or the OS keyring instead." type:"string" default:"${default_config}" env:"MEALPLAN_CONFIG"`
	Debug    bool   `help:"Log debug output to stderr." env:"MEALPLAN_DEBUG"`
	LogLevel string `help:"Override the log level (debug, info, warn, error)." env:"MEALPLAN_LOG_LEVEL"`

	Init    system.InitCmd    `cmd:"" help:"Initialize mealplan storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the planning tools over MCP on stdio."`
	API     system.APICmd     `cmd:"" name:"api" help:"Serve the JSON HTTP API."`
	Family  struct {
		Add  families.FamilyAddCmd  `cmd:"" help:"Add a family."`
		List families.FamilyListCmd `cmd:"" help:"List families." default:"1"`
	} `cmd:"" help:"Manage families."`
	Period struct {
		Create  periods.PeriodCreateCmd  `cmd:"" help:"Create a meal planning period."`
		Show    periods.PeriodShowCmd    `cmd:"" help:"Show a meal planning period."`
		Update  periods.PeriodUpdateCmd  `cmd:"" help:"Change a period's status or dates."`
		Resolve periods.PeriodResolveCmd `cmd:"" help:"Find or create the period covering a date."`
		List    periods.PeriodListCmd    `cmd:"" help:"List a family's periods."`
	} `cmd:"" help:"Manage meal planning periods."`
	Meal struct {
		Add  events.EventAddCmd  `cmd:"" help:"Schedule a meal."`
		List events.EventListCmd `cmd:"" help:"List meals in a date range."`
	} `cmd:"" help:"Manage scheduled meals."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// Commands that manage storage themselves or never touch it.
var skipLoad = []string{"init", "migrate", "doctor", "keyring"}

func needsLoad(command string) bool {
	for _, prefix := range skipLoad {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Meal planning periods for families"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"api_host":       constants.DefaultAPIHost,
			"api_port":       strconv.Itoa(constants.DefaultAPIPort),
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cli.LogDir(CLI.Config),
		Level:     CLI.LogLevel,
	}); err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store)
	err = ctx.Run(appCtx)
	if closeErr := store.Close(); err == nil && closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
