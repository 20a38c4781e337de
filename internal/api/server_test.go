package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/db"
	"github.com/banshee-data/advection/internal/fsutil"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
	"github.com/banshee-data/advection/internal/testutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func str(v string) *string   { return &v }

// testConfig takes one full turn of the domain on a small grid.
func testConfig() *config.RunConfig {
	return &config.RunConfig{
		DomainSize:     f64(10),
		Samples:        intp(40),
		Velocity:       f64(5),
		CFL:            f64(1000),
		FinalTime:      f64(2),
		ResamplePoints: intp(50),
		Steppings:      []string{"SemiLagrangian", "MacCormack"},
		Interpolations: []string{"Linear"},
		DirectSchemes:  []string{"LaxWendroffCDS"},
		OutputDir:      str("out"),
	}
}

func setupTestServer(t *testing.T, withStore bool) (*Server, *db.RunStore, *fsutil.MemoryFileSystem) {
	t.Helper()

	var store *db.RunStore
	if withStore {
		store = db.NewRunStore(db.NewTestDB(t))
	}
	fs := fsutil.NewMemoryFileSystem()
	return NewServer(testConfig(), store, monitoring.NewMetrics(), fs), store, fs
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := testutil.NewTestRecorder()
	h.ServeHTTP(w, testutil.NewTestRequest(method, target))
	return w
}

func TestHealthz(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	w := do(t, server.Router(), http.MethodGet, "/healthz")

	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestShowConfig(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	w := do(t, server.Router(), http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, w.Code)

	var cfg config.RunConfig
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
	assert.Equal(t, 40, cfg.GetSamples())
	require.NotNil(t, cfg.StepLo, "effective config should fill defaults")
	assert.Equal(t, 2.5, *cfg.StepLo)
}

func TestListResults(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	h := server.Router()

	w := do(t, h, http.MethodGet, "/api/results")
	require.Equal(t, http.StatusOK, w.Code)

	var results []resultSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&results))

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"advection_LaxWendroffCDS",
		"advection_MacCormack_Linear",
		"advection_Reference",
		"advection_SemiLagrangian_Linear",
	}, names)

	for _, r := range results {
		if r.Kind == "traced" {
			assert.Equal(t, 1, r.Substeps, r.Name)
			assert.Less(t, r.Summary.L2Error, 1e-9, r.Name)
		}
	}

	// second request is served from the cache
	first := server.results
	do(t, h, http.MethodGet, "/api/results")
	assert.Same(t, &first[0], &server.results[0])
}

func TestAdvectionChart(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	h := server.Router()

	w := do(t, h, http.MethodGet, "/charts/advection")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "advection_MacCormack_Linear")
	assert.Contains(t, body, "N=40")

	m := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `advection_steps_total{case="advection_SemiLagrangian_Linear"} 1`)
}

func TestInterpolationChart(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	w := do(t, server.Router(), http.MethodGet, "/charts/interpolation")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "interpolationLinear")
}

func TestInvalidConfigReturns500(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	server.cfg.Steppings = []string{"Bogus"}
	server.cfg.Interpolations = []string{"Bogus"}

	h := server.Router()
	for _, target := range []string{"/charts/advection", "/charts/interpolation", "/api/results"} {
		w := do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
	}
	assert.Nil(t, server.results)
}

func TestGetCurve(t *testing.T) {
	server, _, fs := setupTestServer(t, false)
	curve := output.Curve{Name: "advection_Reference", X: []float64{0.5, 1.5}, Y: []float64{0, 1}}
	_, err := output.WriteDat(fs, "out", curve)
	require.NoError(t, err)

	h := server.Router()
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"by stem", "/api/curves/advection_Reference", http.StatusOK},
		{"with extension", "/api/curves/advection_Reference.dat", http.StatusOK},
		{"missing", "/api/curves/advection_BFECC_Linear", http.StatusNotFound},
		{"hidden name", "/api/curves/.secret", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				var got output.Curve
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, curve, got)
			}
		})
	}
}

func TestRunsWithoutStore(t *testing.T) {
	server, _, _ := setupTestServer(t, false)
	h := server.Router()

	for _, target := range []string{"/api/runs", "/api/runs/best", "/api/runs/abc"} {
		w := do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
	}
	w := do(t, h, http.MethodDelete, "/api/runs/abc")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func insertRun(t *testing.T, store *db.RunStore, name, stepping, interpolation string, l2 float64, createdAt int64) *db.RunRecord {
	t.Helper()
	kind := "traced"
	if stepping == "" {
		kind = "reference"
	}
	r := &db.RunRecord{
		Name:          name,
		Kind:          kind,
		Stepping:      stepping,
		Interpolation: interpolation,
		DomainSize:    10,
		Samples:       500,
		Velocity:      5,
		L2Error:       l2,
		CreatedAt:     createdAt,
	}
	require.NoError(t, store.Insert(r))
	return r
}

func TestRunsEndpoints(t *testing.T) {
	server, store, _ := setupTestServer(t, true)
	h := server.Router()

	sl := insertRun(t, store, "advection_SemiLagrangian_Linear", "SemiLagrangian", "Linear", 0.36, 1)
	insertRun(t, store, "advection_BFECC_CatmullRom", "BFECC", "CatmullRom", 0.28, 2)
	insertRun(t, store, "advection_Reference", "", "", 0, 3)

	t.Run("list", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/runs?limit=2")
		require.Equal(t, http.StatusOK, w.Code)
		var runs []db.RunRecord
		require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
		require.Len(t, runs, 2)
		assert.Equal(t, "advection_Reference", runs[0].Name)
	})

	t.Run("best", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/runs/best?interpolation=Linear&samples=500")
		require.Equal(t, http.StatusOK, w.Code)
		var runs []db.RunRecord
		require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
		require.Len(t, runs, 1)
		assert.Equal(t, sl.RunID, runs[0].RunID)
	})

	t.Run("best with no match is an empty array", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/runs/best?stepping=MacCormack")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("bad limit", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/runs?limit=-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = do(t, h, http.MethodGet, "/api/runs/best?samples=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/runs/"+sl.RunID)
		require.Equal(t, http.StatusOK, w.Code)
		var got db.RunRecord
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, sl.Name, got.Name)

		w = do(t, h, http.MethodGet, "/api/runs/unknown")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := do(t, h, http.MethodDelete, "/api/runs/"+sl.RunID)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = do(t, h, http.MethodDelete, "/api/runs/"+sl.RunID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, colorBoldGreen + "200" + colorReset},
		{304, colorYellow + "304" + colorReset},
		{404, colorBoldRed + "404" + colorReset},
		{503, colorBoldRed + "503" + colorReset},
		{101, "101"},
	}
	for _, tt := range tests {
		if got := statusCodeColor(tt.code); got != tt.want {
			t.Errorf("statusCodeColor(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, format)
	})
	defer monitoring.SetLogger(nil)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := do(t, h, http.MethodGet, "/x")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Len(t, lines, 1)
}
