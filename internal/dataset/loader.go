package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// UsageTable holds the raw wide-form usage CSV with its column positions
// resolved from the header row.
type UsageTable struct {
	nameCol  int
	codeCol  int
	yearCols map[int]int // year -> column index
	rows     [][]string
}

// EconTable holds the raw economic indicators CSV with its column positions
// resolved from the header row. Columns the pipeline does not use are
// ignored.
type EconTable struct {
	nameCol        int
	yearCol        int
	gdpCol         int
	electricityCol int
	populationCol  int
	rows           [][]string
}

// Rows returns the number of data rows loaded.
func (t *UsageTable) Rows() int { return len(t.rows) }

// Rows returns the number of data rows loaded.
func (t *EconTable) Rows() int { return len(t.rows) }

// LoadUsage reads the wide per-year internet usage CSV. A missing file or a
// header without the expected columns is a fatal load error.
func LoadUsage(cfg Config) (*UsageTable, error) {
	records, err := readCSV(cfg.UsageFile)
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("usage file %s: empty file", cfg.UsageFile)
	}

	header := records[0]
	table := &UsageTable{
		nameCol:  -1,
		codeCol:  -1,
		yearCols: make(map[int]int, cfg.LastYear-cfg.FirstYear+1),
		rows:     records[1:],
	}

	yearIndex := make(map[string]int, len(header))
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Country Name":
			table.nameCol = i
		case "Country Code":
			table.codeCol = i
		default:
			yearIndex[strings.TrimSpace(col)] = i
		}
	}

	if table.nameCol == -1 || table.codeCol == -1 {
		return nil, fmt.Errorf("usage file %s: missing Country Name / Country Code columns", cfg.UsageFile)
	}

	// The year-column list is configuration, not inference: a column for
	// every configured year must be present.
	for y := cfg.FirstYear; y <= cfg.LastYear; y++ {
		idx, ok := yearIndex[fmt.Sprintf("%d", y)]
		if !ok {
			return nil, fmt.Errorf("usage file %s: missing year column %d", cfg.UsageFile, y)
		}
		table.yearCols[y] = idx
	}

	return table, nil
}

// LoadEcon reads the long-form economic indicators CSV.
func LoadEcon(cfg Config) (*EconTable, error) {
	records, err := readCSV(cfg.EconFile)
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("economic file %s: empty file", cfg.EconFile)
	}

	header := records[0]
	table := &EconTable{
		nameCol:        -1,
		yearCol:        -1,
		gdpCol:         -1,
		electricityCol: -1,
		populationCol:  -1,
		rows:           records[1:],
	}

	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "country_name":
			table.nameCol = i
		case "year":
			table.yearCol = i
		case "gdp_per_capita":
			table.gdpCol = i
		case "access_to_electricity":
			table.electricityCol = i
		case "population_total":
			table.populationCol = i
		}
	}

	if table.nameCol == -1 || table.yearCol == -1 {
		return nil, fmt.Errorf("economic file %s: missing country_name / year columns", cfg.EconFile)
	}
	if table.gdpCol == -1 || table.electricityCol == -1 || table.populationCol == -1 {
		return nil, fmt.Errorf("economic file %s: missing indicator columns", cfg.EconFile)
	}

	return table, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are resolved per column index

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// cell returns the trimmed value at column idx, or "" when the row is too
// short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
