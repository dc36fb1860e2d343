package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rapaugustino/global-internet-usage/internal/analytics"
	"github.com/rapaugustino/global-internet-usage/internal/dataset"
)

// DashboardService exposes the analytics views over the merged dataset. All
// methods read the memoized snapshot; only Reload triggers a fresh pipeline
// run.
type DashboardService struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service over the given store.
func NewDashboardService(store *dataset.Store, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:  store,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

// records fetches the snapshot, translating load failures into the dataset
// sentinel.
func (s *DashboardService) records(ctx context.Context) ([]dataset.MergedRecord, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	return records, nil
}

// yearRange clamps a requested range to the configured dataset bounds.
func (s *DashboardService) yearRange(from, to int) (int, int, error) {
	cfg := s.store.Config()
	if from == 0 {
		from = cfg.FirstYear
	}
	if to == 0 {
		to = cfg.LastYear
	}
	if from < cfg.FirstYear || to > cfg.LastYear || from > to {
		return 0, 0, fmt.Errorf("%w: [%d, %d] not within [%d, %d]",
			ErrYearOutOfRange, from, to, cfg.FirstYear, cfg.LastYear)
	}
	return from, to, nil
}

// Summary computes the headline cards for the latest year of the dataset.
func (s *DashboardService) Summary(ctx context.Context) (*analytics.Summary, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := analytics.Summarize(records)
	if err != nil {
		return nil, s.mapAnalyticsError(err)
	}
	return summary, nil
}

// Trend returns the global mean usage per year over the requested range.
func (s *DashboardService) Trend(ctx context.Context, from, to int) ([]analytics.YearValue, error) {
	from, to, err := s.yearRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	series := analytics.MeanUsageByYear(analytics.FilterYears(records, from, to))
	if len(series) == 0 {
		return nil, ErrNotEnoughData
	}
	return series, nil
}

// Growth returns the year-over-year percent change of the global mean usage.
func (s *DashboardService) Growth(ctx context.Context, from, to int) ([]analytics.YearValue, error) {
	series, err := s.Trend(ctx, from, to)
	if err != nil {
		return nil, err
	}

	growth := analytics.YoYGrowth(series)
	if len(growth) == 0 {
		return nil, ErrNotEnoughData
	}
	return growth, nil
}

// Countries returns the sorted distinct country names in the dataset.
func (s *DashboardService) Countries(ctx context.Context) ([]string, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Countries(records), nil
}

// CountryUsage returns the per-year usage series for one country.
func (s *DashboardService) CountryUsage(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error) {
	from, to, err := s.yearRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	series := analytics.UsageSeries(analytics.FilterYears(records, from, to), country)
	if len(series) == 0 {
		// Distinguish unknown countries from countries with no rows in range.
		for _, r := range records {
			if r.CountryName == country {
				return nil, ErrNotEnoughData
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, country)
	}
	return series, nil
}

// CountryGrowth returns the year-over-year growth series for one country.
func (s *DashboardService) CountryGrowth(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error) {
	series, err := s.CountryUsage(ctx, country, from, to)
	if err != nil {
		return nil, err
	}

	growth := analytics.YoYGrowth(series)
	if len(growth) == 0 {
		return nil, ErrNotEnoughData
	}
	return growth, nil
}

// Compare returns the usage series for several countries side by side. Every
// requested country must exist.
func (s *DashboardService) Compare(ctx context.Context, countries []string, from, to int) (map[string][]analytics.YearValue, error) {
	out := make(map[string][]analytics.YearValue, len(countries))
	for _, country := range countries {
		series, err := s.CountryUsage(ctx, country, from, to)
		if err != nil {
			return nil, err
		}
		out[country] = series
	}
	return out, nil
}

// Rankings returns the top and bottom n countries by usage for one year.
func (s *DashboardService) Rankings(ctx context.Context, year, n int) (*analytics.Ranking, error) {
	if _, _, err := s.yearRange(year, year); err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	ranking, err := analytics.RankByUsage(records, year, n)
	if err != nil {
		return nil, s.mapAnalyticsError(err)
	}
	return ranking, nil
}

// MapFrames returns the per-year frames of the animated usage map.
func (s *DashboardService) MapFrames(ctx context.Context, from, to int) ([]analytics.MapFrame, error) {
	from, to, err := s.yearRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	frames := analytics.MapFrames(analytics.FilterYears(records, from, to))
	if len(frames) == 0 {
		return nil, ErrNotEnoughData
	}
	return frames, nil
}

// Scatter projects one year onto the usage-vs-GDP plane.
func (s *DashboardService) Scatter(ctx context.Context, year int) (*analytics.Scatter, error) {
	if _, _, err := s.yearRange(year, year); err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	scatter, err := analytics.ScatterByYear(records, year)
	if err != nil {
		return nil, s.mapAnalyticsError(err)
	}
	return scatter, nil
}

// Correlations computes the pairwise correlation matrix for one year.
func (s *DashboardService) Correlations(ctx context.Context, year int) (*analytics.Correlation, error) {
	if _, _, err := s.yearRange(year, year); err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	corr, err := analytics.CorrelationByYear(records, year)
	if err != nil {
		return nil, s.mapAnalyticsError(err)
	}
	return corr, nil
}

// RecordsPage is one page of the merged table.
type RecordsPage struct {
	Records []dataset.MergedRecord `json:"records"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// Records returns a filtered, paginated slice of the merged table. country
// is optional; from/to default to the configured bounds.
func (s *DashboardService) Records(ctx context.Context, country string, from, to, limit, offset int) (*RecordsPage, error) {
	from, to, err := s.yearRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	rows := analytics.FilterYears(records, from, to)
	if country != "" {
		rows = analytics.FilterCountries(rows, []string{country})
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, country)
		}
	}

	total := len(rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return &RecordsPage{
		Records: rows[offset:end],
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// AllRecords returns the full merged table, for exports and charts.
func (s *DashboardService) AllRecords(ctx context.Context) ([]dataset.MergedRecord, error) {
	return s.records(ctx)
}

// ReloadResult reports the outcome of a dataset reload.
type ReloadResult struct {
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Reload re-runs the pipeline and swaps in a fresh snapshot.
func (s *DashboardService) Reload(ctx context.Context) (*ReloadResult, error) {
	count, err := s.store.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	s.logger.InfoContext(ctx, "dataset reloaded", slog.Int("records", count))
	return &ReloadResult{Records: count, LoadedAt: s.store.LoadedAt()}, nil
}

func (s *DashboardService) mapAnalyticsError(err error) error {
	if errors.Is(err, analytics.ErrNotEnoughData) {
		return ErrNotEnoughData
	}
	return err
}
