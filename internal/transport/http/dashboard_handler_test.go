package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapaugustino/global-internet-usage/internal/analytics"
	"github.com/rapaugustino/global-internet-usage/internal/dataset"
	apierrors "github.com/rapaugustino/global-internet-usage/internal/errors"
	"github.com/rapaugustino/global-internet-usage/internal/services"
)

// stubService returns canned analytics data and records which country names
// it was asked about.
type stubService struct {
	summary *analytics.Summary
	trend   []analytics.YearValue
	ranking *analytics.Ranking
	scatter *analytics.Scatter
	err     error
}

func (s *stubService) Summary(ctx context.Context) (*analytics.Summary, error) {
	return s.summary, s.err
}

func (s *stubService) Trend(ctx context.Context, from, to int) ([]analytics.YearValue, error) {
	return s.trend, s.err
}

func (s *stubService) Growth(ctx context.Context, from, to int) ([]analytics.YearValue, error) {
	return analytics.YoYGrowth(s.trend), s.err
}

func (s *stubService) Countries(ctx context.Context) ([]string, error) {
	return []string{"Brazil", "Chad", "Norway"}, s.err
}

func (s *stubService) CountryUsage(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error) {
	if s.err != nil {
		return nil, s.err
	}
	if country != "Norway" {
		return nil, services.ErrCountryNotFound
	}
	return s.trend, nil
}

func (s *stubService) CountryGrowth(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error) {
	series, err := s.CountryUsage(ctx, country, from, to)
	if err != nil {
		return nil, err
	}
	return analytics.YoYGrowth(series), nil
}

func (s *stubService) Compare(ctx context.Context, countries []string, from, to int) (map[string][]analytics.YearValue, error) {
	out := make(map[string][]analytics.YearValue)
	for _, c := range countries {
		series, err := s.CountryUsage(ctx, c, from, to)
		if err != nil {
			return nil, err
		}
		out[c] = series
	}
	return out, nil
}

func (s *stubService) Rankings(ctx context.Context, year, n int) (*analytics.Ranking, error) {
	return s.ranking, s.err
}

func (s *stubService) MapFrames(ctx context.Context, from, to int) ([]analytics.MapFrame, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []analytics.MapFrame{{Year: 2002}}, nil
}

func (s *stubService) Scatter(ctx context.Context, year int) (*analytics.Scatter, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.scatter != nil {
		return s.scatter, nil
	}
	return &analytics.Scatter{Year: year}, nil
}

func (s *stubService) Correlations(ctx context.Context, year int) (*analytics.Correlation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &analytics.Correlation{Year: year}, nil
}

func (s *stubService) Records(ctx context.Context, country string, from, to, limit, offset int) (*services.RecordsPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.RecordsPage{Total: 0, Limit: limit, Offset: offset}, nil
}

func (s *stubService) AllRecords(ctx context.Context) ([]dataset.MergedRecord, error) {
	return nil, s.err
}

func (s *stubService) Reload(ctx context.Context) (*services.ReloadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.ReloadResult{Records: 9}, nil
}

func newTestHandler(svc DashboardServiceInterface) *DashboardHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func defaultStub() *stubService {
	return &stubService{
		summary: &analytics.Summary{LatestYear: 2002, TopCountry: "Norway"},
		trend: []analytics.YearValue{
			{Year: 2000, Value: 18.3},
			{Year: 2001, Value: 22.8},
			{Year: 2002, Value: 27.4},
		},
		ranking: &analytics.Ranking{
			Year: 2002,
			Top:  []analytics.RankEntry{{CountryName: "Norway", UsagePct: 72.8}},
		},
	}
}

func doRequest(t *testing.T, h *DashboardHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetSummary(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/dashboard/summary")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Norway", data["top_country"])
}

func TestGetTrend(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/dashboard/trend?from=2000&to=2002")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
}

func TestGetTrendInvalidRange(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/dashboard/trend?from=2002&to=2000")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestGetTrendFromOnly(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/dashboard/trend?from=2010")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
}

func TestGetCountryUsageNotFound(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/countries/Atlantis/usage")

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "COUNTRY_NOT_FOUND", body["error_code"])
}

func TestGetCountryUsage(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/countries/Norway/usage")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Norway", body["country"])
	assert.Equal(t, float64(3), body["count"])
}

func TestGetCompareRequiresCountries(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/compare")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCompare(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/compare?countries=Norway")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "Norway")
}

func TestGetRankingsRequiresYear(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/rankings")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRankings(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/rankings?year=2002&limit=5")

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetRankingsRejectsZeroLimit(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/rankings?year=2002&limit=0")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
}

func TestGetCorrelationsNotEnoughData(t *testing.T) {
	stub := defaultStub()
	stub.err = services.ErrNotEnoughData
	w := doRequest(t, newTestHandler(stub), http.MethodGet, "/correlations?year=2002")

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "NOT_ENOUGH_DATA", body["error_code"])
}

func TestDatasetUnavailableMapsTo503(t *testing.T) {
	stub := defaultStub()
	stub.err = services.ErrDatasetUnavailable
	w := doRequest(t, newTestHandler(stub), http.MethodGet, "/dashboard/summary")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"])
}

func TestPostReload(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodPost, "/dataset/reload")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(9), data["records"])
}

func TestGetRecordsRejectsNegativeLimit(t *testing.T) {
	w := doRequest(t, newTestHandler(defaultStub()), http.MethodGet, "/records?limit=-1")

	require.Equal(t, http.StatusBadRequest, w.Code)
}
