// Package charts renders the dashboard views as PNG images using gonum/plot.
// The HTTP layer streams these to clients that want static images instead of
// the JSON series.
package charts

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rapaugustino/global-internet-usage/internal/analytics"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// TrendPNG renders a per-year series as a line chart.
func TrendPNG(w io.Writer, title string, series []analytics.YearValue) error {
	if len(series) == 0 {
		return fmt.Errorf("empty series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Internet Usage (%)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(series))
	for i, v := range series {
		pts[i].X = float64(v.Year)
		pts[i].Y = v.Value
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	p.Add(line, points)

	return writePNG(w, p)
}

// RankingPNG renders the top entries of a ranking as a bar chart.
func RankingPNG(w io.Writer, ranking *analytics.Ranking) error {
	if ranking == nil || len(ranking.Top) == 0 {
		return fmt.Errorf("empty ranking")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top Countries by Internet Usage, %d", ranking.Year)
	p.Y.Label.Text = "Internet Usage (%)"

	values := make(plotter.Values, len(ranking.Top))
	names := make([]string, len(ranking.Top))
	for i, entry := range ranking.Top {
		values[i] = entry.UsagePct
		names[i] = entry.CountryCode
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return writePNG(w, p)
}

// ScatterPNG renders the usage-vs-GDP scatter for one year. The GDP axis is
// capped at the precomputed quantile so outliers do not flatten the view.
func ScatterPNG(w io.Writer, scatter *analytics.Scatter) error {
	if scatter == nil || len(scatter.Points) == 0 {
		return fmt.Errorf("empty scatter")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Internet Usage vs GDP per Capita, %d", scatter.Year)
	p.X.Label.Text = "GDP per Capita (USD)"
	p.Y.Label.Text = "Internet Usage (%)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(scatter.Points))
	for _, point := range scatter.Points {
		pts = append(pts, plotter.XY{X: point.GDPPerCapita, Y: point.UsagePct})
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)

	if scatter.GDPMax > 0 {
		p.X.Max = scatter.GDPMax
	}
	p.Y.Min = 0

	return writePNG(w, p)
}

func writePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
