package dataset

// Reshape unpivots the wide usage table into one candidate per
// (row, year column) pair: a table of R rows and Y configured year columns
// always yields exactly R*Y candidates, in row-major order.
func Reshape(table *UsageTable, cfg Config) []UsageCandidate {
	candidates := make([]UsageCandidate, 0, len(table.rows)*(cfg.LastYear-cfg.FirstYear+1))
	for _, row := range table.rows {
		name := cell(row, table.nameCol)
		code := cell(row, table.codeCol)
		for y := cfg.FirstYear; y <= cfg.LastYear; y++ {
			candidates = append(candidates, UsageCandidate{
				CountryName: name,
				CountryCode: code,
				Year:        y,
				RawValue:    cell(row, table.yearCols[y]),
			})
		}
	}
	return candidates
}
