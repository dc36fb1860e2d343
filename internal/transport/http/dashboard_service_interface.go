package http

import (
	"context"

	"github.com/rapaugustino/global-internet-usage/internal/analytics"
	"github.com/rapaugustino/global-internet-usage/internal/dataset"
	"github.com/rapaugustino/global-internet-usage/internal/services"
)

// DashboardServiceInterface is what the dashboard handler needs from the
// service layer. Defined here so handler tests can substitute a stub.
type DashboardServiceInterface interface {
	Summary(ctx context.Context) (*analytics.Summary, error)
	Trend(ctx context.Context, from, to int) ([]analytics.YearValue, error)
	Growth(ctx context.Context, from, to int) ([]analytics.YearValue, error)
	Countries(ctx context.Context) ([]string, error)
	CountryUsage(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error)
	CountryGrowth(ctx context.Context, country string, from, to int) ([]analytics.YearValue, error)
	Compare(ctx context.Context, countries []string, from, to int) (map[string][]analytics.YearValue, error)
	Rankings(ctx context.Context, year, n int) (*analytics.Ranking, error)
	MapFrames(ctx context.Context, from, to int) ([]analytics.MapFrame, error)
	Scatter(ctx context.Context, year int) (*analytics.Scatter, error)
	Correlations(ctx context.Context, year int) (*analytics.Correlation, error)
	Records(ctx context.Context, country string, from, to, limit, offset int) (*services.RecordsPage, error)
	AllRecords(ctx context.Context) ([]dataset.MergedRecord, error)
	Reload(ctx context.Context) (*services.ReloadResult, error)
}

// HealthServiceInterface is what the health handler needs.
type HealthServiceInterface interface {
	Health(ctx context.Context) *services.HealthStatus
	Ready(ctx context.Context) bool
	Version() *services.VersionInfo
}
