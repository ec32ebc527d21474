package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/config"
	"scherzo/mcusim"
	"scherzo/planner"
	"scherzo/server"
)

func newTestServer(t *testing.T) *server.Server[*mcusim.MCU] {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultCartesianConfig()
	cfg.Scheduler.MCUFreq = 1_000_000.0

	return server.New(cfg, "e", func() (*planner.Planner[*mcusim.MCU], error) {
		sim := mcusim.New()
		return planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
			return sim
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadJobRunsToCompletion(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs?name=square", strings.NewReader("G1 X10 Y10 F3000\nG1 X0 Y0\n"))
	srv.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var upload struct {
		JobID string `json:"job_id"`
		URL   string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	require.NotEmpty(t, upload.JobID)

	var last map[string]any
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/jobs/"+upload.JobID, nil)
		srv.Engine.ServeHTTP(rec, req)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &last))
		return last["status"] == "completed" || last["status"] == "failed"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "completed", last["status"])
}

func TestPreviewReportsCompiledOpCount(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("G1 X10\nG1 X20\nG28\n"))
	srv.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var upload struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/jobs/"+upload.JobID+"/preview", nil)
	srv.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var preview struct {
		CommandsCount int `json:"commands_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, 3, preview.CommandsCount)
}

func TestGetUnknownJobReturnsNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/00000000-0000-0000-0000-000000000000", nil)
	srv.Engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
