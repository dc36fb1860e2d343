package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/rapaugustino/global-internet-usage/internal/errors"
	"github.com/rapaugustino/global-internet-usage/internal/exporter"
)

// ExportHandler streams the merged dataset as CSV or Excel downloads.
type ExportHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates the export handler.
func NewExportHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/csv", h.ExportCSV)
	r.Get("/xlsx", h.ExportExcel)

	return r
}

// ExportCSV handles GET /api/export/csv.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.AllRecords(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	// Serialize before touching headers so a failure still gets a problem
	// response; the merged table is small enough to buffer.
	var buf bytes.Buffer
	if err := exporter.WriteCSV(&buf, records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r,
			apierrors.New(http.StatusInternalServerError, "EXPORT_FAILED", "failed to serialize CSV export"))
		return
	}

	filename := fmt.Sprintf("internet_usage_%s.csv", time.Now().Format("2006-01-02"))
	h.sendAttachment(w, r, "text/csv; charset=utf-8", filename, buf.Bytes())
}

// ExportExcel handles GET /api/export/xlsx.
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.AllRecords(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteExcel(&buf, records); err != nil {
		h.logger.ErrorContext(r.Context(), "excel export failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r,
			apierrors.New(http.StatusInternalServerError, "EXPORT_FAILED", "failed to serialize Excel export"))
		return
	}

	filename := fmt.Sprintf("internet_usage_%s.xlsx", time.Now().Format("2006-01-02"))
	h.sendAttachment(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, buf.Bytes())
}

func (h *ExportHandler) sendAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		h.logger.ErrorContext(r.Context(), "export response write failed",
			slog.String("error", err.Error()))
	}
}
