package sink

import (
	"fmt"
	"image/color"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
)

var (
	barBlue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	barOrange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	barGreen  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// WriteDashboardPNG renders the static multi-panel dashboard image consumed
// by the PDF report: the same nine panels as the interactive page. Callers
// treat a failure here as a warning, not a fatal error; the run continues
// without the image.
func WriteDashboardPNG(path string, t *dataset.Table, s *aggregate.Summaries) error {
	panels := []func() (*plot.Plot, error){
		func() (*plot.Plot, error) { return topModelsPanel(s) },
		func() (*plot.Plot, error) { return regionPanel(s) },
		func() (*plot.Plot, error) { return fuelPanel(s) },
		func() (*plot.Plot, error) { return yearlyPricePanel(s) },
		func() (*plot.Plot, error) { return priceMileagePanel(t) },
		func() (*plot.Plot, error) { return transmissionPanel(s) },
		func() (*plot.Plot, error) { return topColorsPanel(t) },
		func() (*plot.Plot, error) { return segmentEnginePanel(t) },
		func() (*plot.Plot, error) { return classificationPanel(t) },
	}

	const rows, cols = 3, 3
	plots := make([][]*plot.Plot, rows)
	for r := 0; r < rows; r++ {
		plots[r] = make([]*plot.Plot, cols)
		for c := 0; c < cols; c++ {
			p, err := panels[r*cols+c]()
			if err != nil {
				return fmt.Errorf("build panel %d: %w", r*cols+c+1, err)
			}
			plots[r][c] = p
		}
	}

	img := vgimg.New(vg.Points(1500), vg.Points(1350))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Points(12), PadY: vg.Points(12),
		PadTop: vg.Points(8), PadBottom: vg.Points(8),
		PadLeft: vg.Points(8), PadRight: vg.Points(8),
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard png: %w", err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("encode dashboard png: %w", err)
	}
	return nil
}

func barPanel(title, yLabel string, labels []string, values plotter.Values, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return nil, err
	}
	bars.Color = c
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func topModelsPanel(s *aggregate.Summaries) (*plot.Plot, error) {
	labels := make([]string, 0, len(s.TopModels))
	values := make(plotter.Values, 0, len(s.TopModels))
	for _, r := range s.TopModels {
		labels = append(labels, r.Model)
		values = append(values, float64(r.TotalSales))
	}
	return barPanel("Top 10 Models by Sales", "Total Sales", labels, values, barBlue)
}

func regionPanel(s *aggregate.Summaries) (*plot.Plot, error) {
	labels := make([]string, 0, len(s.Regions))
	values := make(plotter.Values, 0, len(s.Regions))
	for _, r := range s.Regions {
		labels = append(labels, r.Region)
		values = append(values, float64(r.TotalSales))
	}
	return barPanel("Sales by Region", "Total Sales", labels, values, barOrange)
}

func fuelPanel(s *aggregate.Summaries) (*plot.Plot, error) {
	labels := make([]string, 0, len(s.Fuels))
	values := make(plotter.Values, 0, len(s.Fuels))
	for _, r := range s.Fuels {
		labels = append(labels, r.FuelType)
		values = append(values, float64(r.TotalSales))
	}
	return barPanel("Sales by Fuel Type", "Total Sales", labels, values, barGreen)
}

func yearlyPricePanel(s *aggregate.Summaries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Price Trend"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Avg Price (USD)"
	xys := make(plotter.XYs, 0, len(s.Years))
	for _, r := range s.Years {
		xys = append(xys, plotter.XY{X: float64(r.Year), Y: r.AvgPrice})
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	line.Width = vg.Points(2)
	points.Radius = vg.Points(2)
	p.Add(line, points)
	return p, nil
}

func priceMileagePanel(t *dataset.Table) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Price vs Mileage"
	p.X.Label.Text = "Mileage (KM)"
	p.Y.Label.Text = "Price (USD)"
	var xys plotter.XYs
	for i := range t.Records {
		r := &t.Records[i]
		if r.MileageKM.Valid && r.PriceUSD.Valid {
			xys = append(xys, plotter.XY{X: r.MileageKM.Float64, Y: r.PriceUSD.Float64})
		}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	sc.GlyphStyle.Color = barBlue
	p.Add(sc)
	return p, nil
}

// transmissionPanel stacks per-region transmission shares, one bar segment
// per transmission type, mirroring the interactive stacked bar.
func transmissionPanel(s *aggregate.Summaries) (*plot.Plot, error) {
	var regions []string
	seenRegion := map[string]bool{}
	var transmissions []string
	seenTrans := map[string]bool{}
	pct := map[string]map[string]float64{}
	for _, r := range s.Transmissions {
		if !seenRegion[r.Region] {
			seenRegion[r.Region] = true
			regions = append(regions, r.Region)
		}
		if !seenTrans[r.Transmission] {
			seenTrans[r.Transmission] = true
			transmissions = append(transmissions, r.Transmission)
		}
		if pct[r.Transmission] == nil {
			pct[r.Transmission] = map[string]float64{}
		}
		pct[r.Transmission][r.Region] = r.Pct
	}
	sort.Strings(transmissions)

	p := plot.New()
	p.Title.Text = "Transmission by Region"
	p.Y.Label.Text = "Share (%)"
	palette := []color.Color{barBlue, barOrange, barGreen}
	var prev *plotter.BarChart
	for i, trans := range transmissions {
		values := make(plotter.Values, 0, len(regions))
		for _, reg := range regions {
			values = append(values, pct[trans][reg])
		}
		bars, err := plotter.NewBarChart(values, vg.Points(16))
		if err != nil {
			return nil, err
		}
		bars.Color = palette[i%len(palette)]
		bars.LineStyle.Width = 0
		if prev != nil {
			bars.StackOn(prev)
		}
		p.Add(bars)
		p.Legend.Add(trans, bars)
		prev = bars
	}
	p.Legend.Top = true
	p.NominalX(regions...)
	return p, nil
}

func topColorsPanel(t *dataset.Table) (*plot.Plot, error) {
	names, counts := topCounts(t, func(r *dataset.Record) string { return r.Color }, 6)
	values := make(plotter.Values, 0, len(counts))
	for _, c := range counts {
		values = append(values, float64(c))
	}
	return barPanel("Top Colors", "Count", names, values, barGreen)
}

func classificationPanel(t *dataset.Table) (*plot.Plot, error) {
	names, counts := topCounts(t, func(r *dataset.Record) string { return r.Classification }, 0)
	values := make(plotter.Values, 0, len(counts))
	for _, c := range counts {
		values = append(values, float64(c))
	}
	return barPanel("Sales Classification", "Count", names, values, barBlue)
}

func segmentEnginePanel(t *dataset.Table) (*plot.Plot, error) {
	sums := map[string]*meanPair{}
	var order []string
	for i := range t.Records {
		r := &t.Records[i]
		if !r.EngineSize.Valid {
			continue
		}
		a := sums[r.Segment]
		if a == nil {
			a = &meanPair{}
			sums[r.Segment] = a
			order = append(order, r.Segment)
		}
		a.sum += r.EngineSize.Float64
		a.n++
	}
	labels := make([]string, 0, len(order))
	values := make(plotter.Values, 0, len(order))
	for _, seg := range order {
		labels = append(labels, seg)
		values = append(values, sums[seg].sum/float64(sums[seg].n))
	}
	return barPanel("Mean Engine Size by Segment", "Engine Size (L)", labels, values, barOrange)
}

type meanPair struct {
	sum float64
	n   int
}
