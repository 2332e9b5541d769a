package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
)

// writeError maps domain errors to status codes.
func writeError(c echo.Context, err error) error {
	var overlapErr *planning.OverlapError
	switch {
	case errors.As(err, &overlapErr):
		resp := OverlapResponse{
			Error:     overlapErr.Error(),
			Conflicts: make([]ConflictResponse, 0, len(overlapErr.Conflicts)),
		}
		for _, p := range overlapErr.Conflicts {
			resp.Conflicts = append(resp.Conflicts, ConflictResponse{
				ID:        p.ID,
				StartDate: p.StartDate,
				EndDate:   p.EndDate,
				Range:     p.Range(),
			})
		}
		return c.JSON(http.StatusConflict, resp)
	case planning.IsNotFound(err):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case planning.IsValidation(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "uri", c.Request().RequestURI, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: what + " not found"})
}

// requireFamily writes a 404 and returns false when the path family is unknown.
func (s *Server) requireFamily(c echo.Context) (string, bool, error) {
	familyID := c.Param("familyID")
	_, found, err := s.manager.GetFamily(c.Request().Context(), familyID)
	if err != nil {
		return "", false, writeError(c, err)
	}
	if !found {
		return "", false, notFound(c, "family")
	}
	return familyID, true, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleCreateFamily(c echo.Context) error {
	var req CreateFamilyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	f, err := s.manager.CreateFamily(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (s *Server) handleGetFamily(c echo.Context) error {
	f, found, err := s.manager.GetFamily(c.Request().Context(), c.Param("familyID"))
	if err != nil {
		return writeError(c, err)
	}
	if !found {
		return notFound(c, "family")
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) handleListPlannings(c echo.Context) error {
	familyID, ok, err := s.requireFamily(c)
	if !ok {
		return err
	}
	ps, err := s.manager.ListPeriods(c.Request().Context(), familyID)
	if err != nil {
		return writeError(c, err)
	}
	if ps == nil {
		ps = []models.MealPlanning{}
	}
	return c.JSON(http.StatusOK, PlanningsResponse{Plannings: ps})
}

func (s *Server) handleCreatePlanning(c echo.Context) error {
	familyID, ok, err := s.requireFamily(c)
	if !ok {
		return err
	}
	var req CreatePlanningRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	p, err := s.manager.CreatePeriod(c.Request().Context(), familyID, req.StartDate, req.EndDate, models.PlanningStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleResolvePlanning(c echo.Context) error {
	familyID, ok, err := s.requireFamily(c)
	if !ok {
		return err
	}
	p, err := s.manager.ResolvePeriodForDate(c.Request().Context(), familyID, c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleGetPlanning(c echo.Context) error {
	p, found, err := s.manager.GetPeriod(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !found {
		return notFound(c, "meal planning")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdatePlanning(c echo.Context) error {
	var req UpdatePlanningRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	upd := planning.PeriodUpdate{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Status != nil {
		status := models.PlanningStatus(*req.Status)
		upd.Status = &status
	}
	p, err := s.manager.UpdatePeriod(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleListEvents(c echo.Context) error {
	familyID, ok, err := s.requireFamily(c)
	if !ok {
		return err
	}
	events, err := s.manager.ListEventsInRange(c.Request().Context(), familyID, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return writeError(c, err)
	}
	if events == nil {
		events = []models.MealEvent{}
	}
	return c.JSON(http.StatusOK, EventsResponse{Events: events})
}

func (s *Server) handleCreateEvent(c echo.Context) error {
	familyID, ok, err := s.requireFamily(c)
	if !ok {
		return err
	}
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	e, err := s.manager.CreateEvent(c.Request().Context(), planning.EventInput{
		FamilyID: familyID,
		Date:     req.Date,
		MealType: models.MealType(req.MealType),
		Notes:    req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}
