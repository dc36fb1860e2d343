package dataset

import (
	"fmt"
	"log/slog"
)

// Build runs the full pipeline: load both CSV files, reshape and clean the
// usage side, filter the economic side, and inner-join the two. Any load
// failure is fatal to the caller; there is no partial result.
func Build(cfg Config, logger *slog.Logger) ([]MergedRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	usageTable, err := LoadUsage(cfg)
	if err != nil {
		return nil, fmt.Errorf("load usage table: %w", err)
	}
	econTable, err := LoadEcon(cfg)
	if err != nil {
		return nil, fmt.Errorf("load economic table: %w", err)
	}

	candidates := Reshape(usageTable, cfg)
	usage := CleanUsage(candidates)
	econ := FilterEcon(econTable, cfg)
	merged := Merge(usage, econ)

	logger.Info("dataset pipeline complete",
		slog.Int("usage_rows", usageTable.Rows()),
		slog.Int("usage_candidates", len(candidates)),
		slog.Int("usage_records", len(usage)),
		slog.Int("econ_records", len(econ)),
		slog.Int("merged_records", len(merged)))

	return merged, nil
}
