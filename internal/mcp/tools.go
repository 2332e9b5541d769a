package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
)

type planningOutput struct {
	ID        string `json:"id" jsonschema:"Planning ID"`
	FamilyID  string `json:"family_id" jsonschema:"Owning family ID"`
	StartDate string `json:"start_date" jsonschema:"First day of the period (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"Last day of the period, inclusive (YYYY-MM-DD)"`
	Status    string `json:"status" jsonschema:"draft, active or completed"`
	CreatedAt string `json:"created_at" jsonschema:"Creation time (RFC 3339)"`
	UpdatedAt string `json:"updated_at" jsonschema:"Last update time (RFC 3339)"`
}

type eventOutput struct {
	ID         string `json:"id" jsonschema:"Meal event ID"`
	FamilyID   string `json:"family_id" jsonschema:"Owning family ID"`
	PlanningID string `json:"planning_id,omitempty" jsonschema:"Planning period the event belongs to"`
	Date       string `json:"date" jsonschema:"Meal date (YYYY-MM-DD)"`
	MealType   string `json:"meal_type" jsonschema:"breakfast, lunch, dinner or snack"`
	Notes      string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

func toPlanningOutput(p models.MealPlanning) planningOutput {
	return planningOutput{
		ID:        p.ID,
		FamilyID:  p.FamilyID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toEventOutput(e models.MealEvent) eventOutput {
	out := eventOutput{
		ID:       e.ID,
		FamilyID: e.FamilyID,
		Date:     e.Date,
		MealType: string(e.MealType),
		Notes:    e.Notes,
	}
	if e.PlanningID != nil {
		out.PlanningID = *e.PlanningID
	}
	return out
}

type createPlanningInput struct {
	FamilyID  string `json:"family_id" jsonschema:"Family the period belongs to"`
	StartDate string `json:"start_date" jsonschema:"First day (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"Last day, inclusive (YYYY-MM-DD)"`
	Status    string `json:"status,omitempty" jsonschema:"draft (default), active or completed"`
}

type getPlanningInput struct {
	ID string `json:"id" jsonschema:"Planning ID"`
}

type getPlanningOutput struct {
	Found    bool            `json:"found" jsonschema:"Whether a planning with this ID exists"`
	Planning *planningOutput `json:"planning,omitempty" jsonschema:"The planning when found"`
}

type updatePlanningInput struct {
	ID        string `json:"id" jsonschema:"Planning ID"`
	Status    string `json:"status,omitempty" jsonschema:"New status: draft, active or completed"`
	StartDate string `json:"start_date,omitempty" jsonschema:"New first day (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"New last day (YYYY-MM-DD)"`
}

type resolvePlanningInput struct {
	FamilyID string `json:"family_id" jsonschema:"Family ID"`
	Date     string `json:"date" jsonschema:"Any day inside the wanted period (YYYY-MM-DD)"`
}

type listPlanningsInput struct {
	FamilyID string `json:"family_id" jsonschema:"Family ID"`
}

type listPlanningsOutput struct {
	Plannings []planningOutput `json:"plannings" jsonschema:"Plannings ordered by start date"`
	Count     int              `json:"count" jsonschema:"Number of plannings returned"`
}

type listEventsInput struct {
	FamilyID  string `json:"family_id" jsonschema:"Family ID"`
	StartDate string `json:"start_date" jsonschema:"First day of the range (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"Last day of the range, inclusive (YYYY-MM-DD)"`
}

type listEventsOutput struct {
	Events []eventOutput `json:"events" jsonschema:"Events ordered by date then meal type"`
	Count  int           `json:"count" jsonschema:"Number of events returned"`
}

type createEventInput struct {
	FamilyID string `json:"family_id" jsonschema:"Family ID"`
	Date     string `json:"date" jsonschema:"Meal date (YYYY-MM-DD)"`
	MealType string `json:"meal_type" jsonschema:"breakfast, lunch, dinner or snack"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// toolError logs the failure and returns the error the SDK reports to the
// client as an IsError result.
func toolError(tool string, err error) error {
	var overlapErr *planning.OverlapError
	if errors.As(err, &overlapErr) {
		logger.Debug("Tool rejected overlapping dates", "tool", tool, "conflicts", overlapErr.Ranges())
		return overlapErr
	}
	logger.Warn("Tool call failed", "tool", tool, "error", err)
	return fmt.Errorf("%s failed: %w", tool, err)
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_meal_planning",
		Description: "Create a meal planning period for a family. Fails when the dates overlap an existing period of the same family.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createPlanningInput) (*mcp.CallToolResult, planningOutput, error) {
		p, err := s.manager.CreatePeriod(ctx, args.FamilyID, args.StartDate, args.EndDate, models.PlanningStatus(args.Status))
		if err != nil {
			return nil, planningOutput{}, toolError("create_meal_planning", err)
		}
		return textResult("Created meal planning %s (%s)", p.ID, p.Range()), toPlanningOutput(p), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_meal_planning",
		Description: "Get a meal planning period by ID. Returns found=false when it does not exist.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getPlanningInput) (*mcp.CallToolResult, getPlanningOutput, error) {
		p, found, err := s.manager.GetPeriod(ctx, args.ID)
		if err != nil {
			return nil, getPlanningOutput{}, toolError("get_meal_planning", err)
		}
		if !found {
			return textResult("Meal planning %s not found", args.ID), getPlanningOutput{Found: false}, nil
		}
		out := toPlanningOutput(p)
		return textResult("Meal planning %s (%s, %s)", p.ID, p.Range(), p.Status), getPlanningOutput{Found: true, Planning: &out}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_meal_planning",
		Description: "Update the status and/or dates of a meal planning period. Date changes must not overlap other periods of the family.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updatePlanningInput) (*mcp.CallToolResult, planningOutput, error) {
		upd := planning.PeriodUpdate{
			StartDate: optional(args.StartDate),
			EndDate:   optional(args.EndDate),
		}
		if args.Status != "" {
			status := models.PlanningStatus(args.Status)
			upd.Status = &status
		}
		p, err := s.manager.UpdatePeriod(ctx, args.ID, upd)
		if err != nil {
			return nil, planningOutput{}, toolError("update_meal_planning", err)
		}
		return textResult("Updated meal planning %s (%s, %s)", p.ID, p.Range(), p.Status), toPlanningOutput(p), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_or_create_planning_for_date",
		Description: "Return the family's meal planning period covering a date, creating a draft Sunday to Saturday week when none exists.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args resolvePlanningInput) (*mcp.CallToolResult, planningOutput, error) {
		p, err := s.manager.ResolvePeriodForDate(ctx, args.FamilyID, args.Date)
		if err != nil {
			return nil, planningOutput{}, toolError("get_or_create_planning_for_date", err)
		}
		return textResult("Meal planning %s covers %s (%s)", p.ID, args.Date, p.Range()), toPlanningOutput(p), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_meal_plannings",
		Description: "List a family's meal planning periods ordered by start date.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listPlanningsInput) (*mcp.CallToolResult, listPlanningsOutput, error) {
		ps, err := s.manager.ListPeriods(ctx, args.FamilyID)
		if err != nil {
			return nil, listPlanningsOutput{}, toolError("list_meal_plannings", err)
		}
		out := listPlanningsOutput{Plannings: make([]planningOutput, 0, len(ps)), Count: len(ps)}
		for _, p := range ps {
			out.Plannings = append(out.Plannings, toPlanningOutput(p))
		}
		return textResult("Found %d meal planning(s)", out.Count), out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_meal_events_in_range",
		Description: "List a family's meal events between two dates, inclusive.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listEventsInput) (*mcp.CallToolResult, listEventsOutput, error) {
		events, err := s.manager.ListEventsInRange(ctx, args.FamilyID, args.StartDate, args.EndDate)
		if err != nil {
			return nil, listEventsOutput{}, toolError("list_meal_events_in_range", err)
		}
		out := listEventsOutput{Events: make([]eventOutput, 0, len(events)), Count: len(events)}
		for _, e := range events {
			out.Events = append(out.Events, toEventOutput(e))
		}
		return textResult("Found %d meal event(s)", out.Count), out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_meal_event",
		Description: "Schedule a meal for a family. The event is attached to the planning period covering its date.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createEventInput) (*mcp.CallToolResult, eventOutput, error) {
		e, err := s.manager.CreateEvent(ctx, planning.EventInput{
			FamilyID: args.FamilyID,
			Date:     args.Date,
			MealType: models.MealType(args.MealType),
			Notes:    args.Notes,
		})
		if err != nil {
			return nil, eventOutput{}, toolError("create_meal_event", err)
		}
		return textResult("Scheduled %s on %s", e.MealType, e.Date), toEventOutput(e), nil
	})
}
