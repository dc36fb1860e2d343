// Package dataset implements the data loading, reshaping, and merge pipeline
// that produces the single table the dashboard reads.
//
// Two CSV files feed the pipeline: a wide per-year internet usage table
// (one column per year) and a long economic indicators table (one row per
// country and year). The pipeline unpivots the usage table, repairs and
// coerces numeric values, drops World Bank aggregate-region pseudo-countries
// from the economic table, bounds years to the configured range, and
// inner-joins both sides on (country name, year).
//
// The merged table is computed once per process through Store and treated as
// read-only afterwards; Store.Reload re-runs the pipeline on demand.
package dataset
