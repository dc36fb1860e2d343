package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/rapaugustino/global-internet-usage/internal/errors"
	mw "github.com/rapaugustino/global-internet-usage/internal/middleware"
	"github.com/rapaugustino/global-internet-usage/internal/services"
)

// DashboardHandler serves the analytics API.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes as a standalone router.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the dashboard routes on an existing router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard/summary", h.GetSummary)
		r.Get("/dashboard/trend", h.GetTrend)
		r.Get("/dashboard/growth", h.GetGrowth)

		r.Get("/countries", h.GetCountries)
		r.Route("/countries/{country}", func(r chi.Router) {
			r.Use(h.CountryCtx)
			r.Get("/usage", h.GetCountryUsage)
			r.Get("/growth", h.GetCountryGrowth)
		})

		r.Get("/compare", h.GetCompare)
		r.Get("/rankings", h.GetRankings)
		r.Get("/map", h.GetMapFrames)
		r.Get("/economic/scatter", h.GetScatter)
		r.Get("/correlations", h.GetCorrelations)
		r.Get("/records", h.GetRecords)

		r.Post("/dataset/reload", h.PostReload)
	})
}

// CountryCtx validates the country URL parameter.
func (h *DashboardHandler) CountryCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		country := chi.URLParam(r, "country")
		if strings.TrimSpace(country) == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("country", "country name is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/dashboard/summary.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetTrend handles GET /api/dashboard/trend.
func (h *DashboardHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	from, to, apiErr := mw.QueryYearRange(r.URL.Query(), 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	series, err := h.service.Trend(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
	})
}

// GetGrowth handles GET /api/dashboard/growth.
func (h *DashboardHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	from, to, apiErr := mw.QueryYearRange(r.URL.Query(), 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	series, err := h.service.Growth(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
	})
}

// GetCountries handles GET /api/countries.
func (h *DashboardHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   countries,
		"count":  len(countries),
	})
}

// GetCountryUsage handles GET /api/countries/{country}/usage. The response
// carries the global mean series alongside, so the country view can plot the
// country against the world.
func (h *DashboardHandler) GetCountryUsage(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	from, to, apiErr := mw.QueryYearRange(r.URL.Query(), 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	series, err := h.service.CountryUsage(r.Context(), country, from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	global, err := h.service.Trend(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"country": country,
		"data":    series,
		"global":  global,
		"count":   len(series),
	})
}

// GetCountryGrowth handles GET /api/countries/{country}/growth.
func (h *DashboardHandler) GetCountryGrowth(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	from, to, apiErr := mw.QueryYearRange(r.URL.Query(), 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	series, err := h.service.CountryGrowth(r.Context(), country, from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"country": country,
		"data":    series,
		"count":   len(series),
	})
}

// GetCompare handles GET /api/compare?countries=a,b,c.
func (h *DashboardHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("countries")
	if raw == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("countries", "at least one country is required"))
		return
	}
	countries := make([]string, 0, 4)
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}
	if len(countries) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("countries", "at least one country is required"))
		return
	}

	from, to, apiErr := mw.QueryYearRange(r.URL.Query(), 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	result, err := h.service.Compare(r.Context(), countries, from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// rankingsParams are the decoded GET /api/rankings query parameters.
type rankingsParams struct {
	Year  int `validate:"required"`
	Limit int `validate:"min=1"`
}

// GetRankings handles GET /api/rankings?year=2023&limit=10.
func (h *DashboardHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	var params rankingsParams
	var apiErr *apierrors.APIError

	query := r.URL.Query()
	if params.Year, apiErr = mw.QueryInt(query, "year", 0); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	if params.Limit, apiErr = mw.QueryInt(query, "limit", 10); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	if apiErr := mw.ValidateStruct(params); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	ranking, err := h.service.Rankings(r.Context(), params.Year, params.Limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ranking,
	})
}

// GetMapFrames handles GET /api/map. A year parameter narrows the response
// to a single frame; otherwise all frames of the range are returned.
func (h *DashboardHandler) GetMapFrames(w http.ResponseWriter, r *http.Request) {
	from, to, apiErr := yearOrRange(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	frames, err := h.service.MapFrames(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   frames,
		"count":  len(frames),
	})
}

// GetScatter handles GET /api/economic/scatter?year=2023.
func (h *DashboardHandler) GetScatter(w http.ResponseWriter, r *http.Request) {
	year, apiErr := h.requiredYear(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	scatter, err := h.service.Scatter(r.Context(), year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   scatter,
	})
}

// GetCorrelations handles GET /api/correlations?year=2023.
func (h *DashboardHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	year, apiErr := h.requiredYear(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	corr, err := h.service.Correlations(r.Context(), year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   corr,
	})
}

// recordsParams are the decoded GET /api/records pagination parameters.
type recordsParams struct {
	Limit  int `validate:"min=0"`
	Offset int `validate:"min=0"`
}

// GetRecords handles GET /api/records.
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, apiErr := yearOrRange(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	var params recordsParams
	if params.Limit, apiErr = mw.QueryInt(query, "limit", 100); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	if params.Offset, apiErr = mw.QueryInt(query, "offset", 0); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	if apiErr := mw.ValidateStruct(params); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	page, err := h.service.Records(r.Context(), query.Get("country"), from, to, params.Limit, params.Offset)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page,
	})
}

// PostReload handles POST /api/dataset/reload.
func (h *DashboardHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested")

	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// yearOrRange reads either a single year parameter or a from/to pair.
func yearOrRange(r *http.Request) (from, to int, apiErr *apierrors.APIError) {
	query := r.URL.Query()
	year, apiErr := mw.QueryInt(query, "year", 0)
	if apiErr != nil {
		return 0, 0, apiErr
	}
	if year != 0 {
		return year, year, nil
	}
	return mw.QueryYearRange(query, 0, 0)
}

func (h *DashboardHandler) requiredYear(r *http.Request) (int, *apierrors.APIError) {
	year, apiErr := mw.QueryInt(r.URL.Query(), "year", 0)
	if apiErr != nil {
		return 0, apiErr
	}
	if year == 0 {
		return 0, apierrors.ErrValidation("year", "year is required")
	}
	return year, nil
}

// handleServiceError maps service sentinels onto API error codes before
// delegating to the shared error handler.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

// mapServiceError translates service sentinels into structured API errors.
// Unknown errors pass through and render as 500.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrCountryNotFound):
		return apierrors.New(http.StatusNotFound, "COUNTRY_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrYearOutOfRange):
		return apierrors.New(http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, services.ErrNotEnoughData):
		return apierrors.New(http.StatusNotFound, "NOT_ENOUGH_DATA",
			fmt.Sprintf("Not enough data to answer this query: %v", err))
	case errors.Is(err, services.ErrDatasetUnavailable):
		return apierrors.New(http.StatusServiceUnavailable, "DATASET_UNAVAILABLE", err.Error())
	default:
		return err
	}
}
