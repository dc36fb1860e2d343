package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/rapaugustino/global-internet-usage/internal/dataset"
)

// HealthService reports liveness, readiness, and build information.
type HealthService struct {
	store     *dataset.Store
	logger    *slog.Logger
	version   string
	buildTime string
	startedAt time.Time
}

// NewHealthService creates a health service. version and buildTime are
// injected at link time by the build.
func NewHealthService(store *dataset.Store, logger *slog.Logger, version, buildTime string) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		store:     store,
		logger:    logger.With(slog.String("component", "health_service")),
		version:   version,
		buildTime: buildTime,
		startedAt: time.Now(),
	}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status         string    `json:"status"`
	DatasetLoaded  bool      `json:"dataset_loaded"`
	DatasetRecords int       `json:"dataset_records"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
	Uptime         string    `json:"uptime"`
	Timestamp      time.Time `json:"timestamp"`
}

// Health reports the current service health. The service is healthy even
// before the first dataset load; readiness is what flips on load.
func (s *HealthService) Health(ctx context.Context) *HealthStatus {
	loadedAt := s.store.LoadedAt()
	return &HealthStatus{
		Status:         "healthy",
		DatasetLoaded:  !loadedAt.IsZero(),
		DatasetRecords: s.store.Size(),
		LoadedAt:       loadedAt,
		Uptime:         time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp:      time.Now(),
	}
}

// Ready reports whether the dataset snapshot is available.
func (s *HealthService) Ready(ctx context.Context) bool {
	return !s.store.LoadedAt().IsZero()
}

// VersionInfo is the version endpoint payload.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Version reports build and runtime information.
func (s *HealthService) Version() *VersionInfo {
	return &VersionInfo{
		Version:   s.version,
		BuildTime: s.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
