package dataset

// mergeKey is the composite join key.
type mergeKey struct {
	country string
	year    int
}

// Merge inner-joins cleaned usage records with filtered economic records on
// (country name, year). Records without a match on the other side are
// silently dropped. Output order follows the usage side, which makes the
// merge deterministic for identical inputs.
func Merge(usage []UsageRecord, econ []EconRecord) []MergedRecord {
	index := make(map[mergeKey]EconRecord, len(econ))
	for _, e := range econ {
		index[mergeKey{country: e.CountryName, year: e.Year}] = e
	}

	merged := make([]MergedRecord, 0, len(usage))
	for _, u := range usage {
		e, ok := index[mergeKey{country: u.CountryName, year: u.Year}]
		if !ok {
			continue
		}
		merged = append(merged, MergedRecord{
			CountryName:         u.CountryName,
			CountryCode:         u.CountryCode,
			Year:                u.Year,
			UsagePct:            u.UsagePct,
			GDPPerCapita:        e.GDPPerCapita,
			AccessToElectricity: e.AccessToElectricity,
			PopulationTotal:     e.PopulationTotal,
		})
	}
	return merged
}
