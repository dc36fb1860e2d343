package dataset

// aggregateRegions lists the World Bank grouping labels that appear in the
// economic indicators file but are not countries. Rows carrying any of these
// names are excluded before the join so that per-country analysis is not
// skewed by aggregates.
var aggregateRegions = map[string]struct{}{
	"Africa Eastern and Southern":                          {},
	"Africa Western and Central":                           {},
	"Arab World":                                           {},
	"Caribbean small states":                               {},
	"Central Europe and the Baltics":                       {},
	"Early-demographic dividend":                           {},
	"East Asia & Pacific":                                  {},
	"East Asia & Pacific (IDA & IBRD countries)":           {},
	"East Asia & Pacific (excluding high income)":          {},
	"Euro area":                                            {},
	"Europe & Central Asia":                                {},
	"Europe & Central Asia (IDA & IBRD countries)":         {},
	"Europe & Central Asia (excluding high income)":        {},
	"European Union":                                       {},
	"Fragile and conflict affected situations":             {},
	"Heavily indebted poor countries (HIPC)":               {},
	"High income":                                          {},
	"IBRD only":                                            {},
	"IDA & IBRD total":                                     {},
	"IDA blend":                                            {},
	"IDA only":                                             {},
	"IDA total":                                            {},
	"Late-demographic dividend":                            {},
	"Latin America & Caribbean":                            {},
	"Latin America & Caribbean (excluding high income)":    {},
	"Latin America & the Caribbean (IDA & IBRD countries)": {},
	"Least developed countries: UN classification":         {},
	"Low & middle income":                                  {},
	"Low income":                                           {},
	"Lower middle income":                                  {},
	"Middle East & North Africa":                           {},
	"Middle East & North Africa (IDA & IBRD countries)":    {},
	"Middle East & North Africa (excluding high income)":   {},
	"Middle income":                                        {},
	"North America":                                        {},
	"Not classified":                                       {},
	"OECD members":                                         {},
	"Other small states":                                   {},
	"Pacific island small states":                          {},
	"Post-demographic dividend":                            {},
	"Pre-demographic dividend":                             {},
	"Small states":                                         {},
	"South Asia":                                           {},
	"South Asia (IDA & IBRD)":                              {},
	"Sub-Saharan Africa":                                   {},
	"Sub-Saharan Africa (IDA & IBRD countries)":            {},
	"Sub-Saharan Africa (excluding high income)":           {},
	"Upper middle income":                                  {},
	"World":                                                {},
}

// IsAggregateRegion reports whether name is a World Bank aggregate label
// rather than an actual country.
func IsAggregateRegion(name string) bool {
	_, ok := aggregateRegions[name]
	return ok
}
