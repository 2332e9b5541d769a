package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/mealplan/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	statusStyle = map[models.PlanningStatus]lipgloss.Style{
		models.PlanningDraft:     cellStyle.Foreground(lipgloss.Color("245")),
		models.PlanningActive:    cellStyle.Foreground(lipgloss.Color("42")),
		models.PlanningCompleted: cellStyle.Foreground(lipgloss.Color("63")),
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// RenderPlannings writes periods as a table.
func RenderPlannings(w io.Writer, ps []models.MealPlanning) {
	t := newTable("ID", "START", "END", "STATUS")
	for _, p := range ps {
		t.Row(p.ID, p.StartDate, p.EndDate, string(p.Status))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 3 && row >= 0 && row < len(ps) {
			if s, ok := statusStyle[ps[row].Status]; ok {
				return s
			}
		}
		return cellStyle
	})
	io.WriteString(w, t.String()+"\n")
}

// RenderEvents writes meal events as a table.
func RenderEvents(w io.Writer, events []models.MealEvent) {
	t := newTable("DATE", "MEAL", "NOTES", "PLANNING")
	for _, e := range events {
		planningID := ""
		if e.PlanningID != nil {
			planningID = *e.PlanningID
		}
		t.Row(e.Date, string(e.MealType), e.Notes, planningID)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})
	io.WriteString(w, t.String()+"\n")
}

// RenderFamilies writes families as a table.
func RenderFamilies(w io.Writer, families []models.Family) {
	t := newTable("ID", "NAME", "CREATED")
	for _, f := range families {
		t.Row(f.ID, f.Name, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})
	io.WriteString(w, t.String()+"\n")
}
