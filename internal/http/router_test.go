package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/config"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/jobs"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&auth.User{}, &reading.Reading{}, &jobs.Job{}))

	jwtSvc := auth.NewJWT("test-secret")
	return &testServer{
		t:       t,
		handler: NewRouter(config.Config{}, gdb, zap.NewNop(), jwtSvc),
	}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) register(email, password string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	s.token = decode(s.t, rec)["token"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	s.register("user@example.com", "passw0rd")
	require.NotEmpty(t, s.token)

	// duplicate email
	rec := s.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "user@example.com", "password": "passw0rd",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "not-an-email", "password": "passw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "weak@example.com", "password": "lettersonly",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "user@example.com", "password": "passw0rd",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "user@example.com", "password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	s.register("me@example.com", "passw0rd")

	rec := s.do(http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me@example.com", decode(t, rec)["email"])

	s.token = ""
	rec = s.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadingsCRUD(t *testing.T) {
	s := newTestServer(t)
	s.register("crud@example.com", "passw0rd")

	rec := s.do(http.MethodPost, "/readings/", map[string]any{
		"systolic": 145, "diastolic": 92, "pulse": 78, "notes": "evening",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["reading"].(map[string]any)
	assert.Equal(t, "Stage 2", created["category"], "category attached at write time")
	id := created["id"].(string)

	// out-of-domain values are rejected with details
	rec = s.do(http.MethodPost, "/readings/", map[string]any{
		"systolic": 400, "diastolic": 92, "pulse": 78,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["details"])

	// missing required field
	rec = s.do(http.MethodPost, "/readings/", map[string]any{
		"systolic": 120, "pulse": 70,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// malformed timestamp
	rec = s.do(http.MethodPost, "/readings/", map[string]any{
		"systolic": 120, "diastolic": 80, "pulse": 70, "timestamp": "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/readings/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	assert.EqualValues(t, 1, list["total_count"])
	assert.Equal(t, false, list["has_more"])

	rec = s.do(http.MethodGet, "/readings/"+id+"?include_category_info=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)["reading"].(map[string]any)
	info := got["category_info"].(map[string]any)
	assert.Equal(t, "High Blood Pressure Stage 2", info["name"])

	rec = s.do(http.MethodDelete, "/readings/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/readings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/readings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadingsBulkAndExport(t *testing.T) {
	s := newTestServer(t)
	s.register("bulk@example.com", "passw0rd")

	rec := s.do(http.MethodPost, "/readings/bulk", map[string]any{
		"readings": []map[string]any{
			{"systolic": 120, "diastolic": 80, "pulse": 70},
			{"systolic": 10, "diastolic": 80, "pulse": 70},
			{"systolic": 135, "diastolic": 85, "pulse": 72},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["created_count"])
	assert.NotEmpty(t, body["warnings"])

	rec = s.do(http.MethodGet, "/readings/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	export := decode(t, rec)
	assert.Equal(t, "csv", export["format"])
	assert.Contains(t, export["data"], "Date,Time,Systolic,Diastolic,Pulse,Category,Notes")
	assert.Contains(t, export["data"], "135")
	assert.Contains(t, export["filename"], ".csv")
}

func TestAnalyticsSummary(t *testing.T) {
	s := newTestServer(t)
	s.register("sum@example.com", "passw0rd")

	rec := s.do(http.MethodGet, "/analytics/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]any)
	assert.EqualValues(t, 0, summary["total_readings"])
	assert.Equal(t, true, summary["insufficient_data"])
	_, hasTrends := summary["trends"]
	assert.False(t, hasTrends, "trends omitted for an empty window")

	for _, v := range [][3]int{{120, 80, 60}, {130, 85, 65}, {140, 90, 70}, {150, 95, 75}} {
		rec = s.do(http.MethodPost, "/readings/", map[string]any{
			"systolic": v[0], "diastolic": v[1], "pulse": v[2],
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = s.do(http.MethodGet, "/analytics/summary?days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary = decode(t, rec)["summary"].(map[string]any)
	assert.EqualValues(t, 4, summary["total_readings"])
	averages := summary["averages"].(map[string]any)
	assert.EqualValues(t, 135, averages["systolic"])
	require.Contains(t, summary, "trends")
}

func TestAnalyticsTrendsAndPatterns(t *testing.T) {
	s := newTestServer(t)
	s.register("trend@example.com", "passw0rd")

	rec := s.do(http.MethodGet, "/analytics/patterns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	patterns := decode(t, rec)["patterns"].(map[string]any)
	assert.Equal(t, true, patterns["insufficient_data"])

	rec = s.do(http.MethodGet, "/analytics/trends?group_by=week", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "week", body["group_by"])

	rec = s.do(http.MethodGet, "/analytics/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	goals := decode(t, rec)["goal_progress"].(map[string]any)
	assert.Equal(t, true, goals["no_data"])

	rec = s.do(http.MethodGet, "/analytics/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	statistics := decode(t, rec)["statistics"].(map[string]any)
	assert.Equal(t, true, statistics["no_data"])
}

func TestAnalyticsZeroDaysFallsBackToDefault(t *testing.T) {
	s := newTestServer(t)
	s.register("zero@example.com", "passw0rd")

	rec := s.do(http.MethodPost, "/readings/", map[string]any{
		"systolic": 130, "diastolic": 85, "pulse": 70,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/analytics/statistics?days=0", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	statistics := decode(t, rec)["statistics"].(map[string]any)
	assert.EqualValues(t, 90, statistics["period_days"])
	assert.EqualValues(t, 1, statistics["total_readings"])

	rec = s.do(http.MethodGet, "/analytics/summary?days=-5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]any)
	assert.EqualValues(t, 30, summary["period_days"])
}

func TestReadingsRequireAuth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/readings/", "/analytics/summary"} {
		rec := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}
