package constants

const (
	AppName            = "mealplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/mealplan/mealplan.db"
	Version            = "v0.1.0"

	// DateFormat is the calendar date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backend selectors for the --config flag
	MemoryScheme  = "memory://"
	KeyringConfig = "keyring"

	// Environment variable consulted when --config is not given
	EnvConnectionString = "MEALPLAN_DB_CONNECTION"

	// Planning statuses
	PlanningStatusDraft     = "draft"
	PlanningStatusActive    = "active"
	PlanningStatusCompleted = "completed"

	// Meal types
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"

	// HTTP API defaults
	DefaultAPIHost = "localhost"
	DefaultAPIPort = 8080

	// MCP server identity
	MCPServerName = "mealplan"

	// Postgres SQLSTATE for exclusion constraint violations
	PGExclusionViolation = "23P01"
)
