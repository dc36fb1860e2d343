package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rapaugustino/global-internet-usage/internal/analytics"
	"github.com/rapaugustino/global-internet-usage/internal/charts"
	apierrors "github.com/rapaugustino/global-internet-usage/internal/errors"
	mw "github.com/rapaugustino/global-internet-usage/internal/middleware"
)

// ChartHandler renders dashboard views as PNG images.
type ChartHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates the chart handler.
func NewChartHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes.
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/trend.png", h.TrendChart)
	r.Get("/ranking.png", h.RankingChart)
	r.Get("/scatter.png", h.ScatterChart)

	return r
}

// TrendChart handles GET /api/charts/trend.png. With a country parameter it
// renders that country's series, otherwise the global mean.
func (h *ChartHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, apiErr := mw.QueryYearRange(query, 0, 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	var (
		title  string
		series []analytics.YearValue
		err    error
	)
	if country := query.Get("country"); country != "" {
		title = country + " Internet Usage"
		series, err = h.service.CountryUsage(r.Context(), country, from, to)
	} else {
		title = "Global Average Internet Usage"
		series, err = h.service.Trend(r.Context(), from, to)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	h.writePNG(w, r, func(wr io.Writer) error {
		return charts.TrendPNG(wr, title, series)
	})
}

// RankingChart handles GET /api/charts/ranking.png?year=2023&limit=10.
func (h *ChartHandler) RankingChart(w http.ResponseWriter, r *http.Request) {
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
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	h.writePNG(w, r, func(wr io.Writer) error {
		return charts.RankingPNG(wr, ranking)
	})
}

// ScatterChart handles GET /api/charts/scatter.png?year=2023.
func (h *ChartHandler) ScatterChart(w http.ResponseWriter, r *http.Request) {
	year, apiErr := mw.QueryInt(r.URL.Query(), "year", 0)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	if year == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year is required"))
		return
	}

	scatter, err := h.service.Scatter(r.Context(), year)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	h.writePNG(w, r, func(wr io.Writer) error {
		return charts.ScatterPNG(wr, scatter)
	})
}

// writePNG renders into a buffer first, so a failed render can still produce
// a problem response instead of a truncated 200.
func (h *ChartHandler) writePNG(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "chart rendering failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r,
			apierrors.New(http.StatusInternalServerError, "CHART_RENDER_FAILED", "failed to render chart"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.ErrorContext(r.Context(), "chart response write failed",
			slog.String("error", err.Error()))
	}
}
