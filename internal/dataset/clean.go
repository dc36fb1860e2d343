package dataset

import (
	"strconv"
	"strings"
)

// RepairNumeric strips every rune that is not a digit or a decimal point and
// parses what remains as a float. Strings that strip to nothing, or that do
// not parse after stripping, report ok=false.
//
// This is a lossy best-effort repair for inconsistent source formatting
// (stray symbols, percent signs, thousand separators). It is deliberately not
// validated against a numeric grammar: "12.3.4" strips to itself and fails to
// parse, but "1,234" becomes "1234" while "1.234" stays "1.234" - a
// thousands-dot and a decimal-dot cannot be told apart. Known limitation.
func RepairNumeric(raw string) (float64, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	if stripped == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CleanUsage coerces each candidate's raw value through RepairNumeric and
// drops candidates whose value cannot be repaired. Input order is preserved.
func CleanUsage(candidates []UsageCandidate) []UsageRecord {
	records := make([]UsageRecord, 0, len(candidates))
	for _, c := range candidates {
		v, ok := RepairNumeric(c.RawValue)
		if !ok {
			continue
		}
		records = append(records, UsageRecord{
			CountryName: c.CountryName,
			CountryCode: c.CountryCode,
			Year:        c.Year,
			UsagePct:    v,
		})
	}
	return records
}
