// Package exporter serializes the merged dataset for download, as CSV or as
// an Excel workbook.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rapaugustino/global-internet-usage/internal/dataset"
)

// columns is the export column order, matching the merged table layout.
var columns = []string{
	"Country Name",
	"Country Code",
	"Year",
	"Internet Usage (%)",
	"GDP per Capita",
	"Access to Electricity (%)",
	"Population Total",
}

// WriteCSV writes the merged records as CSV with a UTF-8 BOM so Excel opens
// the file correctly.
func WriteCSV(w io.Writer, records []dataset.MergedRecord) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		row := []string{
			r.CountryName,
			r.CountryCode,
			strconv.Itoa(r.Year),
			formatFloat(r.UsagePct),
			formatNullable(r.GDPPerCapita),
			formatNullable(r.AccessToElectricity),
			formatNullable(r.PopulationTotal),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
