package analytics

import (
	"math"

	"github.com/rapaugustino/global-internet-usage/internal/dataset"
)

// CorrelationVariables names the matrix axes in order.
var CorrelationVariables = []string{
	"Internet Usage",
	"GDP per Capita",
	"Access to Electricity",
	"Population Total",
}

// Correlation holds the pairwise Pearson matrix for one year. Matrix[i][j]
// correlates CorrelationVariables[i] with CorrelationVariables[j].
type Correlation struct {
	Year      int         `json:"year"`
	Variables []string    `json:"variables"`
	Matrix    [][]float64 `json:"matrix"`
	Samples   int         `json:"samples"`
}

// CorrelationByYear computes the pairwise Pearson correlation of usage, GDP,
// electricity access, and population for one year. Rows missing any of the
// four values are dropped first; fewer than two complete rows returns
// ErrNotEnoughData so the caller can show a "not enough data" view instead of
// a degenerate matrix.
func CorrelationByYear(records []dataset.MergedRecord, year int) (*Correlation, error) {
	rows := FilterYear(records, year)

	columns := make([][]float64, len(CorrelationVariables))
	for _, r := range rows {
		if r.GDPPerCapita == nil || r.AccessToElectricity == nil || r.PopulationTotal == nil {
			continue
		}
		columns[0] = append(columns[0], r.UsagePct)
		columns[1] = append(columns[1], *r.GDPPerCapita)
		columns[2] = append(columns[2], *r.AccessToElectricity)
		columns[3] = append(columns[3], *r.PopulationTotal)
	}

	if len(columns[0]) < 2 {
		return nil, ErrNotEnoughData
	}

	matrix := make([][]float64, len(columns))
	for i := range columns {
		matrix[i] = make([]float64, len(columns))
		for j := range columns {
			matrix[i][j] = pearson(columns[i], columns[j])
		}
	}

	return &Correlation{
		Year:      year,
		Variables: CorrelationVariables,
		Matrix:    matrix,
		Samples:   len(columns[0]),
	}, nil
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. A zero-variance series yields 0 rather than NaN.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
