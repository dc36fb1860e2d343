package dataset

import (
	"strconv"
)

// FilterEcon converts the raw economic table into EconRecords, excluding
// aggregate-region rows and rows outside the configured year range. Indicator
// values that fail numeric coercion become null; the row is retained.
func FilterEcon(table *EconTable, cfg Config) []EconRecord {
	records := make([]EconRecord, 0, len(table.rows))
	for _, row := range table.rows {
		name := cell(row, table.nameCol)
		if name == "" || IsAggregateRegion(name) {
			continue
		}

		year, err := strconv.Atoi(cell(row, table.yearCol))
		if err != nil || year < cfg.FirstYear || year > cfg.LastYear {
			continue
		}

		records = append(records, EconRecord{
			CountryName:         name,
			Year:                year,
			GDPPerCapita:        coerceFloat(cell(row, table.gdpCol)),
			AccessToElectricity: coerceFloat(cell(row, table.electricityCol)),
			PopulationTotal:     coerceFloat(cell(row, table.populationCol)),
		})
	}
	return records
}

// coerceFloat parses a plain numeric cell, returning nil when the cell is
// empty or malformed. Unlike usage values, economic cells get no character
// repair: null is an acceptable indicator value.
func coerceFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
