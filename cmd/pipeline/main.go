// Command pipeline runs the load/reshape/clean/merge pipeline once and writes
// the merged table to a file. Useful for inspecting the dataset without
// starting the server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rapaugustino/global-internet-usage/internal/config"
	"github.com/rapaugustino/global-internet-usage/internal/dataset"
	"github.com/rapaugustino/global-internet-usage/internal/exporter"
	"github.com/rapaugustino/global-internet-usage/internal/infrastructure"
)

func main() {
	usageFile := flag.String("usage", "", "internet usage CSV (defaults to the configured path)")
	econFile := flag.String("econ", "", "economic indicators CSV (defaults to the configured path)")
	out := flag.String("out", "merged.csv", "output path, .csv or .xlsx")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	dsCfg := dataset.Config{
		UsageFile: cfg.Dataset.UsagePath(),
		EconFile:  cfg.Dataset.EconPath(),
		FirstYear: cfg.Dataset.FirstYear,
		LastYear:  cfg.Dataset.LastYear,
	}
	if *usageFile != "" {
		dsCfg.UsageFile = *usageFile
	}
	if *econFile != "" {
		dsCfg.EconFile = *econFile
	}

	records, err := dataset.Build(dsCfg, logger)
	if err != nil {
		logger.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Error("Failed to create output file", "path", *out, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(*out, ".xlsx"):
		err = exporter.WriteExcel(f, records)
	default:
		err = exporter.WriteCSV(f, records)
	}
	if err != nil {
		logger.Error("Failed to write output", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d merged records to %s\n", len(records), *out)
}
