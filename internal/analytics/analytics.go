// Package analytics provides the relational and statistical operations the
// dashboard pages run over the merged dataset: year/country slicing, grouped
// means, growth rates, rankings, scatter and map projections, and pairwise
// correlations. All functions are pure; they never mutate their input.
package analytics

import (
	"errors"
	"math"
	"sort"

	"github.com/rapaugustino/global-internet-usage/internal/dataset"
)

// ErrNotEnoughData reports that a view has fewer matching rows than the
// statistic it feeds requires. Callers are expected to degrade gracefully
// rather than compute on an empty or singleton set.
var ErrNotEnoughData = errors.New("not enough data")

// YearValue is one point of a per-year series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// FilterYears keeps records with from <= year <= to.
func FilterYears(records []dataset.MergedRecord, from, to int) []dataset.MergedRecord {
	out := make([]dataset.MergedRecord, 0, len(records))
	for _, r := range records {
		if r.Year >= from && r.Year <= to {
			out = append(out, r)
		}
	}
	return out
}

// FilterYear keeps records for a single year.
func FilterYear(records []dataset.MergedRecord, year int) []dataset.MergedRecord {
	return FilterYears(records, year, year)
}

// FilterCountries keeps records whose country name is in names.
func FilterCountries(records []dataset.MergedRecord, names []string) []dataset.MergedRecord {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := make([]dataset.MergedRecord, 0, len(records))
	for _, r := range records {
		if _, ok := wanted[r.CountryName]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Countries returns the sorted distinct country names in the dataset.
func Countries(records []dataset.MergedRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.CountryName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Years returns the sorted distinct years in the dataset.
func Years(records []dataset.MergedRecord) []int {
	seen := make(map[int]struct{})
	for _, r := range records {
		seen[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// MeanUsageByYear groups records by year and averages usage. The result is
// sorted by year and independent of input row order.
func MeanUsageByYear(records []dataset.MergedRecord) []YearValue {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		sums[r.Year] += r.UsagePct
		counts[r.Year]++
	}

	series := make([]YearValue, 0, len(sums))
	for year, sum := range sums {
		series = append(series, YearValue{Year: year, Value: sum / float64(counts[year])})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// UsageSeries returns the per-year usage values for one country, sorted by
// year.
func UsageSeries(records []dataset.MergedRecord, country string) []YearValue {
	series := make([]YearValue, 0, 24)
	for _, r := range records {
		if r.CountryName == country {
			series = append(series, YearValue{Year: r.Year, Value: r.UsagePct})
		}
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// YoYGrowth computes percent change between consecutive points of a series
// sorted by year: [10, 20, 30] yields [100, 50]. Points whose predecessor is
// zero are skipped (undefined growth).
func YoYGrowth(series []YearValue) []YearValue {
	growth := make([]YearValue, 0, len(series))
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Value
		if prev == 0 {
			continue
		}
		growth = append(growth, YearValue{
			Year:  series[i].Year,
			Value: (series[i].Value - prev) / prev * 100,
		})
	}
	return growth
}

// RankEntry is one row of a usage ranking.
type RankEntry struct {
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	UsagePct    float64 `json:"usage_pct"`
}

// Ranking holds the top and bottom N countries for one year.
type Ranking struct {
	Year   int         `json:"year"`
	Top    []RankEntry `json:"top"`
	Bottom []RankEntry `json:"bottom"`
}

// RankByUsage ranks the countries of one year by usage and returns the top
// and bottom n. Ties break on country name so the result is deterministic.
func RankByUsage(records []dataset.MergedRecord, year, n int) (*Ranking, error) {
	rows := FilterYear(records, year)
	if len(rows) == 0 {
		return nil, ErrNotEnoughData
	}

	entries := make([]RankEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, RankEntry{
			CountryName: r.CountryName,
			CountryCode: r.CountryCode,
			UsagePct:    r.UsagePct,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UsagePct != entries[j].UsagePct {
			return entries[i].UsagePct > entries[j].UsagePct
		}
		return entries[i].CountryName < entries[j].CountryName
	})

	if n > len(entries) {
		n = len(entries)
	}
	top := append([]RankEntry(nil), entries[:n]...)

	bottom := append([]RankEntry(nil), entries[len(entries)-n:]...)
	// Bottom list reads worst-first.
	for i, j := 0, len(bottom)-1; i < j; i, j = i+1, j-1 {
		bottom[i], bottom[j] = bottom[j], bottom[i]
	}

	return &Ranking{Year: year, Top: top, Bottom: bottom}, nil
}

// Summary holds the headline cards of the dashboard home page, computed for
// the latest year in the dataset.
type Summary struct {
	LatestYear    int     `json:"latest_year"`
	AverageUsage  float64 `json:"average_usage"`
	TopCountry    string  `json:"top_country"`
	TopUsage      float64 `json:"top_usage"`
	BottomCountry string  `json:"bottom_country"`
	BottomUsage   float64 `json:"bottom_usage"`
	Countries     int     `json:"countries"`
	Records       int     `json:"records"`
}

// Summarize computes the latest-year headline statistics.
func Summarize(records []dataset.MergedRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrNotEnoughData
	}

	latest := records[0].Year
	for _, r := range records {
		if r.Year > latest {
			latest = r.Year
		}
	}

	ranking, err := RankByUsage(records, latest, 1)
	if err != nil {
		return nil, err
	}

	rows := FilterYear(records, latest)
	var sum float64
	for _, r := range rows {
		sum += r.UsagePct
	}

	return &Summary{
		LatestYear:    latest,
		AverageUsage:  sum / float64(len(rows)),
		TopCountry:    ranking.Top[0].CountryName,
		TopUsage:      ranking.Top[0].UsagePct,
		BottomCountry: ranking.Bottom[0].CountryName,
		BottomUsage:   ranking.Bottom[0].UsagePct,
		Countries:     len(Countries(records)),
		Records:       len(records),
	}, nil
}

// ScatterPoint is one country of the usage-vs-GDP scatter view. Null
// indicators render as zero, matching how the chart treats missing bubbles.
type ScatterPoint struct {
	CountryName  string  `json:"country_name"`
	GDPPerCapita float64 `json:"gdp_per_capita"`
	UsagePct     float64 `json:"usage_pct"`
	Population   float64 `json:"population"`
	Electricity  float64 `json:"electricity"`
}

// Scatter holds the scatter points of one year plus the GDP axis cap.
type Scatter struct {
	Year   int            `json:"year"`
	GDPMax float64        `json:"gdp_axis_max"`
	Points []ScatterPoint `json:"points"`
}

// ScatterByYear projects one year onto the usage-vs-GDP plane. The GDP axis
// is capped at the 0.99 quantile to keep outliers from flattening the view.
func ScatterByYear(records []dataset.MergedRecord, year int) (*Scatter, error) {
	rows := FilterYear(records, year)
	if len(rows) == 0 {
		return nil, ErrNotEnoughData
	}

	points := make([]ScatterPoint, 0, len(rows))
	gdps := make([]float64, 0, len(rows))
	for _, r := range rows {
		p := ScatterPoint{CountryName: r.CountryName, UsagePct: r.UsagePct}
		if r.GDPPerCapita != nil {
			p.GDPPerCapita = *r.GDPPerCapita
		}
		if r.PopulationTotal != nil {
			p.Population = *r.PopulationTotal
		}
		if r.AccessToElectricity != nil {
			p.Electricity = *r.AccessToElectricity
		}
		points = append(points, p)
		gdps = append(gdps, p.GDPPerCapita)
	}

	return &Scatter{
		Year:   year,
		GDPMax: Quantile(gdps, 0.99),
		Points: points,
	}, nil
}

// MapPoint is one country of an animated map frame.
type MapPoint struct {
	CountryName string  `json:"country_name"`
	ISOAlpha    string  `json:"iso_alpha"`
	UsagePct    float64 `json:"usage_pct"`
	Population  float64 `json:"population"`
}

// MapFrame is all countries of one year.
type MapFrame struct {
	Year   int        `json:"year"`
	Points []MapPoint `json:"points"`
}

// MapFrames builds the per-year frames of the animated usage map, sorted by
// year. Null populations render as zero.
func MapFrames(records []dataset.MergedRecord) []MapFrame {
	byYear := make(map[int][]MapPoint)
	for _, r := range records {
		p := MapPoint{
			CountryName: r.CountryName,
			ISOAlpha:    r.CountryCode,
			UsagePct:    r.UsagePct,
		}
		if r.PopulationTotal != nil {
			p.Population = *r.PopulationTotal
		}
		byYear[r.Year] = append(byYear[r.Year], p)
	}

	frames := make([]MapFrame, 0, len(byYear))
	for year, points := range byYear {
		sort.Slice(points, func(i, j int) bool { return points[i].CountryName < points[j].CountryName })
		frames = append(frames, MapFrame{Year: year, Points: points})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Year < frames[j].Year })
	return frames
}

// Quantile returns the q-th quantile of values using linear interpolation.
// The input does not need to be sorted.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
