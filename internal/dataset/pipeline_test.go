package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T, usageCSV, econCSV string, firstYear, lastYear int) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		UsageFile: writeFile(t, dir, "internet_usage.csv", usageCSV),
		EconFile:  writeFile(t, dir, "economic_indicators.csv", econCSV),
		FirstYear: firstYear,
		LastYear:  lastYear,
	}
}

func TestReshapeProducesOneCandidatePerRowAndYear(t *testing.T) {
	cfg := testConfig(t,
		"Country Name,Country Code,2000,2001,2002,2003\n"+
			"Aland,ALA,1,2,3,4\n"+
			"Borduria,BOR,5,6,7,8\n"+
			"Syldavia,SYL,9,10,11,12\n",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n",
		2000, 2003)

	table, err := LoadUsage(cfg)
	require.NoError(t, err)

	candidates := Reshape(table, cfg)
	assert.Len(t, candidates, 3*4, "row count after reshape must equal rows x year columns")

	// Row-major order: all years of the first row come first.
	assert.Equal(t, "Aland", candidates[0].CountryName)
	assert.Equal(t, 2000, candidates[0].Year)
	assert.Equal(t, 2003, candidates[3].Year)
	assert.Equal(t, "Borduria", candidates[4].CountryName)
}

func TestRepairNumeric(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{"plain number", "45.5", 45.5, true},
		{"percent suffix", "45.5%", 45.5, true},
		{"thousand separator comma", "1,234", 1234, true},
		{"stray symbols", " ~78.2 ", 78.2, true},
		{"empty", "", 0, false},
		{"letters only", "bad", 0, false},
		{"dots only", "..", 0, false},
		{"multi dot stays unparseable", "12.3.4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RepairNumeric(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRepairNumericIdempotent(t *testing.T) {
	// Re-cleaning an already-clean numeric string yields the same value.
	first, ok := RepairNumeric("63.25%")
	require.True(t, ok)
	second, ok := RepairNumeric("63.25")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestCleanUsageDropsUnparseableRows(t *testing.T) {
	candidates := []UsageCandidate{
		{CountryName: "Aland", CountryCode: "ALA", Year: 2000, RawValue: "12.5"},
		{CountryName: "Aland", CountryCode: "ALA", Year: 2001, RawValue: "n/a"},
		{CountryName: "Aland", CountryCode: "ALA", Year: 2002, RawValue: ""},
		{CountryName: "Aland", CountryCode: "ALA", Year: 2003, RawValue: "20%"},
	}

	records := CleanUsage(candidates)
	require.Len(t, records, 2)
	assert.Equal(t, 2000, records[0].Year)
	assert.Equal(t, 12.5, records[0].UsagePct)
	assert.Equal(t, 2003, records[1].Year)
	assert.Equal(t, 20.0, records[1].UsagePct)
}

func TestFilterEconExcludesAggregateRegions(t *testing.T) {
	cfg := testConfig(t,
		"Country Name,Country Code,2000\n",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n"+
			"World,2000,10000,90,7000000000\n"+
			"OECD members,2010,30000,99,1300000000\n"+
			"Sub-Saharan Africa,2015,1600,45,1000000000\n"+
			"Norway,2000,38000,100,4500000\n",
		2000, 2023)

	table, err := LoadEcon(cfg)
	require.NoError(t, err)

	records := FilterEcon(table, cfg)
	require.Len(t, records, 1)
	assert.Equal(t, "Norway", records[0].CountryName)
}

func TestFilterEconBoundsYears(t *testing.T) {
	cfg := testConfig(t,
		"Country Name,Country Code,2000\n",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n"+
			"Norway,1999,36000,100,4400000\n"+
			"Norway,2000,38000,100,4500000\n"+
			"Norway,2023,90000,100,5500000\n"+
			"Norway,2024,92000,100,5600000\n"+
			"Norway,notayear,1,1,1\n",
		2000, 2023)

	table, err := LoadEcon(cfg)
	require.NoError(t, err)

	records := FilterEcon(table, cfg)
	require.Len(t, records, 2)
	assert.Equal(t, 2000, records[0].Year)
	assert.Equal(t, 2023, records[1].Year)
}

func TestFilterEconNullsMalformedIndicators(t *testing.T) {
	cfg := testConfig(t,
		"Country Name,Country Code,2000\n",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n"+
			"Norway,2000,not-a-number,,4500000\n",
		2000, 2023)

	table, err := LoadEcon(cfg)
	require.NoError(t, err)

	records := FilterEcon(table, cfg)
	require.Len(t, records, 1, "row with malformed indicators is retained")
	assert.Nil(t, records[0].GDPPerCapita)
	assert.Nil(t, records[0].AccessToElectricity)
	require.NotNil(t, records[0].PopulationTotal)
	assert.Equal(t, 4500000.0, *records[0].PopulationTotal)
}

func TestMergeIsStrictInnerJoin(t *testing.T) {
	usage := []UsageRecord{
		{CountryName: "Aland", CountryCode: "ALA", Year: 2000, UsagePct: 10},
		{CountryName: "Aland", CountryCode: "ALA", Year: 2001, UsagePct: 20},
		{CountryName: "Borduria", CountryCode: "BOR", Year: 2000, UsagePct: 30},
	}
	econ := []EconRecord{
		{CountryName: "Aland", Year: 2000},
		{CountryName: "Syldavia", Year: 2000},
	}

	merged := Merge(usage, econ)
	require.Len(t, merged, 1)
	assert.Equal(t, "Aland", merged[0].CountryName)
	assert.Equal(t, 2000, merged[0].Year)
	assert.LessOrEqual(t, len(merged), len(usage))
	assert.LessOrEqual(t, len(merged), len(econ))
}

func TestBuildTestlandScenario(t *testing.T) {
	// One usage row with a valid 2000 value and a broken 2001 value; the 2001
	// record must be dropped before the join, leaving exactly one merged row.
	cfg := testConfig(t,
		"Country Name,Country Code,2000,2001\n"+
			"Testland,TST,45.5%,bad\n",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n"+
			"Testland,2000,1000,80,5000000\n"+
			"Testland,2001,1100,81,5100000\n",
		2000, 2001)

	merged, err := Build(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	require.Len(t, merged, 1)

	got := merged[0]
	assert.Equal(t, "Testland", got.CountryName)
	assert.Equal(t, "TST", got.CountryCode)
	assert.Equal(t, 2000, got.Year)
	assert.Equal(t, 45.5, got.UsagePct)
	require.NotNil(t, got.GDPPerCapita)
	assert.Equal(t, 1000.0, *got.GDPPerCapita)
	require.NotNil(t, got.AccessToElectricity)
	assert.Equal(t, 80.0, *got.AccessToElectricity)
	require.NotNil(t, got.PopulationTotal)
	assert.Equal(t, 5000000.0, *got.PopulationTotal)
}

func TestBuildFailsWhenFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UsageFile = filepath.Join(t.TempDir(), "does-not-exist.csv")
	cfg.EconFile = filepath.Join(t.TempDir(), "also-missing.csv")

	_, err := Build(cfg, nil)
	assert.Error(t, err)
}

func TestStoreMemoizesAndReloads(t *testing.T) {
	dir := t.TempDir()
	usagePath := writeFile(t, dir, "internet_usage.csv",
		"Country Name,Country Code,2000\n"+
			"Testland,TST,45.5\n")
	econPath := writeFile(t, dir, "economic_indicators.csv",
		"country_name,year,gdp_per_capita,access_to_electricity,population_total\n"+
			"Testland,2000,1000,80,5000000\n")

	cfg := Config{UsageFile: usagePath, EconFile: econPath, FirstYear: 2000, LastYear: 2000}
	store := NewStore(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	assert.True(t, store.LoadedAt().IsZero(), "no I/O before first access")

	ctx := context.Background()
	first, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	loadedAt := store.LoadedAt()
	assert.False(t, loadedAt.IsZero())

	// Second read serves the memoized snapshot.
	second, err := store.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, loadedAt, store.LoadedAt())
	assert.Equal(t, &first[0], &second[0], "same backing snapshot")

	// Reload rebuilds from the (changed) files.
	require.NoError(t, os.WriteFile(usagePath, []byte(
		"Country Name,Country Code,2000\n"+
			"Testland,TST,50.0\n"), 0644))
	n, err := store.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := store.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, reloaded[0].UsagePct)
	assert.Equal(t, 1, store.Size())
}
