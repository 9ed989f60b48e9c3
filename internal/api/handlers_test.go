package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darraghh1/plantrack/internal/config"
	"github.com/darraghh1/plantrack/internal/events"
	"github.com/darraghh1/plantrack/internal/tracker"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	planDir := filepath.Join(root, "alpha")
	require.NoError(t, os.MkdirAll(planDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(planDir, "plan.md"), []byte(`---
title: Alpha Plan
priority: high
---

| # | Phase | Status |
|---|-------|--------|
| 1 | Setup | done |
| 2 | Build | pending |
`), 0644))

	cfg := config.DefaultConfig()
	cfg.Plans.Root = root
	cfg.Plans.ProjectName = "testproject"

	hub := events.NewHub()
	t.Cleanup(hub.Close)

	tr := tracker.New(cfg, hub)
	tr.Refresh()

	return NewServer(cfg, tr, hub)
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/version")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "plantrack", resp.Service)
	assert.NotEmpty(t, resp.Version)
}

func TestHandleProgress(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/progress")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "testproject", resp.ProjectName)
	assert.Equal(t, 2, resp.TotalPhases)
	assert.Equal(t, 1, resp.CompletedPhases)
	assert.Equal(t, 50, resp.Percentage)

	require.Len(t, resp.Plans, 1)
	assert.Equal(t, "alpha", resp.Plans[0].ID)
	// Summary views omit phases.
	assert.Empty(t, resp.Plans[0].Phases)
}

func TestHandleListPlans(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/plans")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Alpha Plan", resp[0].DisplayName)
	assert.Equal(t, "P1", resp[0].Priority)
}

func TestHandleGetPlan(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/plans/alpha")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alpha", resp.ID)

	require.Len(t, resp.Phases, 2)
	assert.Equal(t, "alpha-phase-1", resp.Phases[0].ID)
	assert.Equal(t, "Setup", resp.Phases[0].Name)
	assert.Equal(t, "completed", resp.Phases[0].Status)
	assert.Equal(t, "pending", resp.Phases[1].Status)
}

func TestHandleGetPlan_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/plans/missing")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "missing")
}

func TestHandleRefresh(t *testing.T) {
	s := newTestServer(t)

	// A plan added after the initial scan shows up via refresh.
	newDir := filepath.Join(s.cfg.Plans.Root, "beta")
	require.NoError(t, os.MkdirAll(newDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(newDir, "plan.md"), []byte(`
| # | Phase | Status |
|---|-------|--------|
| 1 | Only | done |
`), 0644))

	rec := doRequest(t, s, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Plans, 2)
	assert.Equal(t, 3, resp.TotalPhases)
}

func TestHandleEventHistory(t *testing.T) {
	s := newTestServer(t)

	// The initial refresh leaves one event behind; a manual refresh
	// adds another.
	doRequest(t, s, http.MethodPost, "/refresh")

	rec := doRequest(t, s, http.MethodGet, "/events/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []events.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, events.TypeRefreshed, history[0].Type)
	assert.Equal(t, events.TypeRefreshed, history[1].Type)
}
