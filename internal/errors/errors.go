// Package errors renders command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/planning"
)

// Format formats an error message with a consistent "Error: " prefix.
// Overlap failures list each conflicting period on its own line.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var overlapErr *planning.OverlapError
	if errors.As(err, &overlapErr) {
		if len(overlapErr.Conflicts) == 0 {
			return "Error: " + overlapErr.Error()
		}
		var b strings.Builder
		b.WriteString("Error: the requested dates overlap existing meal planning periods:")
		for _, r := range overlapErr.Ranges() {
			b.WriteString("\n  - ")
			b.WriteString(r)
		}
		b.WriteString("\nChoose dates that do not overlap these periods.")
		return b.String()
	}

	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
