package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/mealplan/internal/metrics"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planning"
	"github.com/julianstephens/mealplan/internal/storage/memory"
)

type testServer struct {
	server   *Server
	manager  *planning.Manager
	familyID string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	manager := planning.NewManager(memory.NewStore(), planning.WithMetrics(metrics.New(reg)))
	family, err := manager.CreateFamily(context.Background(), "Test Family")
	require.NoError(t, err)

	server, err := NewServer(manager, reg, nil)
	require.NoError(t, err)
	return &testServer{server: server, manager: manager, familyID: family.ID}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewServer(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(planning.NewManager(memory.NewStore()), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 8080, server.config.Port)
	})

	t.Run("returns error when manager is nil", func(t *testing.T) {
		_, err := NewServer(nil, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "planning manager is required")
	})
}

func TestHandleHealth(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
}

func TestFamilyRoutes(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/families", CreateFamilyRequest{Name: "Nguyen"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Family](t, rec)
	assert.Equal(t, "Nguyen", created.Name)

	rec = ts.do(t, http.MethodGet, "/api/v1/families/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/families/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/families", CreateFamilyRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlanning(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/v1/families/" + ts.familyID + "/plannings"

	rec := ts.do(t, http.MethodPost, path, CreatePlanningRequest{StartDate: "2026-01-01", EndDate: "2026-01-07"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[models.MealPlanning](t, rec)
	assert.Equal(t, models.PlanningDraft, p.Status)

	t.Run("overlap returns 409 with conflicts", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, path, CreatePlanningRequest{StartDate: "2026-01-07", EndDate: "2026-01-13"})
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decode[OverlapResponse](t, rec)
		require.Len(t, resp.Conflicts, 1)
		assert.Equal(t, p.ID, resp.Conflicts[0].ID)
		assert.Equal(t, "2026-01-01 to 2026-01-07", resp.Conflicts[0].Range)
	})

	t.Run("validation returns 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, path, CreatePlanningRequest{StartDate: "2026-02-10", EndDate: "2026-02-01"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = ts.do(t, http.MethodPost, path, CreatePlanningRequest{StartDate: "2026-02-01", EndDate: "2026-02-07", Status: "archived"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown family returns 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/families/ghost/plannings", CreatePlanningRequest{StartDate: "2026-03-01", EndDate: "2026-03-07"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list returns periods", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[PlanningsResponse](t, rec).Plannings, 1)
	})
}

func TestGetAndUpdatePlanning(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	a, err := ts.manager.CreatePeriod(ctx, ts.familyID, "2026-01-01", "2026-01-07", "")
	require.NoError(t, err)
	_, err = ts.manager.CreatePeriod(ctx, ts.familyID, "2026-01-08", "2026-01-14", "")
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/plannings/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, a.ID, decode[models.MealPlanning](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/api/v1/plannings/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	active := "active"
	rec = ts.do(t, http.MethodPatch, "/api/v1/plannings/"+a.ID, UpdatePlanningRequest{Status: &active})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.PlanningActive, decode[models.MealPlanning](t, rec).Status)

	end := "2026-01-08"
	rec = ts.do(t, http.MethodPatch, "/api/v1/plannings/"+a.ID, UpdatePlanningRequest{EndDate: &end})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "2026-01-08 to 2026-01-14", decode[OverlapResponse](t, rec).Conflicts[0].Range)

	rec = ts.do(t, http.MethodPatch, "/api/v1/plannings/missing", UpdatePlanningRequest{Status: &active})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolvePlanning(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/v1/families/" + ts.familyID + "/plannings/resolve?date=2026-01-01"

	rec := ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[models.MealPlanning](t, rec)
	assert.Equal(t, "2025-12-28", first.StartDate)
	assert.Equal(t, "2026-01-03", first.EndDate)

	rec = ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[models.MealPlanning](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/api/v1/families/"+ts.familyID+"/plannings/resolve?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventRoutes(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/v1/families/" + ts.familyID + "/events"

	rec := ts.do(t, http.MethodPost, path, CreateEventRequest{Date: "2026-01-02", MealType: "lunch", Notes: "soup"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	e := decode[models.MealEvent](t, rec)
	require.NotNil(t, e.PlanningID)

	rec = ts.do(t, http.MethodPost, path, CreateEventRequest{Date: "2026-01-02", MealType: "brunch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, path+"?start=2026-01-01&end=2026-01-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[EventsResponse](t, rec).Events
	require.Len(t, events, 1)
	assert.Equal(t, "soup", events[0].Notes)

	rec = ts.do(t, http.MethodGet, path+"?start=2026-02-01&end=2026-02-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"events":[]}`, strings.TrimSpace(rec.Body.String()))

	rec = ts.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.do(t, http.MethodGet, "/api/v1/families/"+ts.familyID+"/plannings/resolve?date=2026-01-01", nil)

	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "mealplan_periods_auto_created_total 1")
	assert.Contains(t, body, `mealplan_operations_total{operation="resolve_period",result="ok"} 1`)
}
