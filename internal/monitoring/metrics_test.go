package monitoring

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	var _ Recorder = m

	m.ObserveSteps("advection_BFECC_Linear", 10)
	m.ObserveSteps("advection_BFECC_Linear", 5)
	m.ObserveRun("advection_BFECC_Linear", 20*time.Millisecond, 0.25)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.steps.WithLabelValues("advection_BFECC_Linear")))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.l2Error.WithLabelValues("advection_BFECC_Linear")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.seconds))
}

func TestMetricsAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveSteps("x", 1)
	assert.Equal(t, 0, testutil.CollectAndCount(b.steps))

	n, err := testutil.GatherAndCount(a.Registry(), "advection_steps_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(b.Registry(), "advection_steps_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveSteps("advection_Reference", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `advection_steps_total{case="advection_Reference"} 1`)
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveRun("advection_LaxWendroffCDS", time.Second, 0.5)

	path := filepath.Join(t.TempDir(), "advection.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "advection_l2_error"))

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.ErrorContains(t, err, "failed to write metrics textfile")
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.ObserveSteps("x", 1)
	r.ObserveRun("x", time.Second, 1)
}
