package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appTestUsageCSV = `Country Name,Country Code,2000,2001
Norway,NOR,52.0,64.0
Chad,TCD,0.0,0.1
`

const appTestEconCSV = `country_name,year,gdp_per_capita,access_to_electricity,population_total
Norway,2000,38000,100,4490000
Norway,2001,39000,100,4510000
Chad,2000,160,3.3,8340000
Chad,2001,180,3.6,8620000
`

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	t.Chdir(t.TempDir())

	dataDir := filepath.Join(".", "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "internet_usage.csv"), []byte(appTestUsageCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "economic_indicators.csv"), []byte(appTestEconCSV), 0o644))

	t.Setenv("GIU_DATASET_FIRST_YEAR", "2000")
	t.Setenv("GIU_DATASET_LAST_YEAR", "2001")
	t.Setenv("GIU_SECURITY_RATE_LIMIT_ENABLED", "false")
	t.Setenv("GIU_LOGGING_OUTPUT", "stdout")

	app, err := NewApplication()
	require.NoError(t, err)
	return app
}

func TestApplicationServesHealth(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestApplicationServesSummary(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Norway")
}

func TestApplicationServesMetrics(t *testing.T) {
	app := newTestApplication(t)

	// One API call so the request counter has something to report.
	app.Router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/countries", nil))

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestApplicationUnknownRouteRendersProblem(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}
