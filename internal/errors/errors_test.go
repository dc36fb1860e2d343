package errors

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "country not found")
	assert.Equal(t, "country not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	pd := NewProblemDetails(404, TypeNotFound, "Not Found", "no such country", "/api/countries/Atlantis").
		WithExtension("trace_id", "abc").
		WithExtension("error_code", "COUNTRY_NOT_FOUND")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeNotFound, decoded["type"])
	assert.Equal(t, float64(404), decoded["status"])
	assert.Equal(t, "abc", decoded["trace_id"])
	assert.Equal(t, "COUNTRY_NOT_FOUND", decoded["error_code"])
	assert.Equal(t, "/api/countries/Atlantis", decoded["instance"])
}

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestHandleErrorRendersAPIError(t *testing.T) {
	h := newTestHandler()

	r := httptest.NewRequest(http.MethodGet, "/api/correlations", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, NewWithDetails(http.StatusNotFound, "NOT_ENOUGH_DATA",
		"Not enough data to compute correlations", map[string]any{"year": 2000}))

	resp := w.Result()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, TypeNotEnoughData, body["type"])
	assert.Equal(t, "NOT_ENOUGH_DATA", body["error_code"])
}

func TestHandleErrorWrapsUnknownErrors(t *testing.T) {
	h := newTestHandler()

	r := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, assert.AnError)

	resp := w.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, TypeInternal, body["type"])
}

func TestErrValidationCarriesField(t *testing.T) {
	err := ErrValidation("year", "must be between 2000 and 2023")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "year", detail.Field)
}
