package dataset

import "strconv"

// Config holds the pipeline inputs. The year range is an explicit setting
// rather than something inferred from file headers, so behavior does not
// silently change if the source file grows another year column.
type Config struct {
	UsageFile string
	EconFile  string
	FirstYear int
	LastYear  int
}

// DefaultConfig returns the pipeline configuration used by the dashboard.
func DefaultConfig() Config {
	return Config{
		UsageFile: "data/internet_usage.csv",
		EconFile:  "data/economic_indicators.csv",
		FirstYear: 2000,
		LastYear:  2023,
	}
}

// YearColumns returns the expected usage year-column labels in order.
func (c Config) YearColumns() []string {
	cols := make([]string, 0, c.LastYear-c.FirstYear+1)
	for y := c.FirstYear; y <= c.LastYear; y++ {
		cols = append(cols, strconv.Itoa(y))
	}
	return cols
}

// UsageCandidate is one unpivoted usage cell before numeric cleaning.
type UsageCandidate struct {
	CountryName string
	CountryCode string
	Year        int
	RawValue    string
}

// UsageRecord is a cleaned usage observation. Rows whose value failed
// numeric repair are dropped, never retained as null.
type UsageRecord struct {
	CountryName string
	CountryCode string
	Year        int
	UsagePct    float64
}

// EconRecord is a filtered economic observation. Indicator values that
// failed coercion stay null; the row itself is retained.
type EconRecord struct {
	CountryName         string
	Year                int
	GDPPerCapita        *float64
	AccessToElectricity *float64
	PopulationTotal     *float64
}

// MergedRecord is the inner join of usage and economic data on
// (country name, year). It is the only table the presentation layer reads.
type MergedRecord struct {
	CountryName         string   `json:"country_name"`
	CountryCode         string   `json:"country_code"`
	Year                int      `json:"year"`
	UsagePct            float64  `json:"usage_pct"`
	GDPPerCapita        *float64 `json:"gdp_per_capita"`
	AccessToElectricity *float64 `json:"access_to_electricity"`
	PopulationTotal     *float64 `json:"population_total"`
}
