package sink

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
)

// WriteDashboardHTML renders the interactive web-viewable dashboard: one page
// with the same panels as the static image plus per-record scatter detail.
func WriteDashboardHTML(path string, t *dataset.Table, s *aggregate.Summaries) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		topModelsBar(s),
		regionPie(s),
		fuelBar(s),
		yearlyPriceLine(s),
		priceMileageScatter(t),
		transmissionStackedBar(s),
		topColorsBar(t),
		segmentEngineBox(t),
		classificationPie(t),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard html: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func chartSize() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: "560px", Height: "340px"})
}

func topModelsBar(s *aggregate.Summaries) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top 10 Models by Sales"}), chartSize())
	names := make([]string, 0, len(s.TopModels))
	data := make([]opts.BarData, 0, len(s.TopModels))
	for _, r := range s.TopModels {
		names = append(names, r.Model)
		data = append(data, opts.BarData{Value: r.TotalSales})
	}
	bar.SetXAxis(names).AddSeries("Total Sales", data)
	return bar
}

func regionPie(s *aggregate.Summaries) components.Charter {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Market Share by Region"}), chartSize())
	data := make([]opts.PieData, 0, len(s.Regions))
	for _, r := range s.Regions {
		data = append(data, opts.PieData{Name: r.Region, Value: r.TotalSales})
	}
	pie.AddSeries("Total Sales", data)
	return pie
}

func fuelBar(s *aggregate.Summaries) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Sales by Fuel Type"}), chartSize())
	names := make([]string, 0, len(s.Fuels))
	data := make([]opts.BarData, 0, len(s.Fuels))
	for _, r := range s.Fuels {
		names = append(names, r.FuelType)
		data = append(data, opts.BarData{Value: r.TotalSales})
	}
	bar.SetXAxis(names).AddSeries("Total Sales", data)
	return bar
}

func yearlyPriceLine(s *aggregate.Summaries) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Average Price Trend"}), chartSize())
	years := make([]int, 0, len(s.Years))
	data := make([]opts.LineData, 0, len(s.Years))
	for _, r := range s.Years {
		years = append(years, r.Year)
		data = append(data, opts.LineData{Value: r.AvgPrice})
	}
	line.SetXAxis(years).AddSeries("Avg Price", data)
	return line
}

func priceMileageScatter(t *dataset.Table) components.Charter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Price vs Mileage"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Mileage (KM)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Price (USD)"}),
		chartSize(),
	)
	data := make([]opts.ScatterData, 0, len(t.Records))
	for i := range t.Records {
		r := &t.Records[i]
		if r.MileageKM.Valid && r.PriceUSD.Valid {
			data = append(data, opts.ScatterData{
				Value:      []any{r.MileageKM.Float64, r.PriceUSD.Float64},
				SymbolSize: 5,
			})
		}
	}
	sc.AddSeries("Price", data)
	return sc
}

func transmissionStackedBar(s *aggregate.Summaries) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Transmission by Region"}), chartSize())

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

	bar.SetXAxis(regions)
	for _, trans := range transmissions {
		data := make([]opts.BarData, 0, len(regions))
		for _, reg := range regions {
			data = append(data, opts.BarData{Value: pct[trans][reg]})
		}
		bar.AddSeries(trans, data, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}
	return bar
}

func topColorsBar(t *dataset.Table) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Colors"}), chartSize())
	names, counts := topCounts(t, func(r *dataset.Record) string { return r.Color }, 6)
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		data = append(data, opts.BarData{Value: c})
	}
	bar.SetXAxis(names).AddSeries("Count", data)
	return bar
}

func segmentEngineBox(t *dataset.Table) components.Charter {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Engine Size by Segment"}), chartSize())
	bySegment := map[string][]float64{}
	var segments []string
	for i := range t.Records {
		r := &t.Records[i]
		if !r.EngineSize.Valid {
			continue
		}
		if _, ok := bySegment[r.Segment]; !ok {
			segments = append(segments, r.Segment)
		}
		bySegment[r.Segment] = append(bySegment[r.Segment], r.EngineSize.Float64)
	}
	sort.Strings(segments)
	data := make([]opts.BoxPlotData, 0, len(segments))
	for _, seg := range segments {
		data = append(data, opts.BoxPlotData{Value: fiveNumber(bySegment[seg])})
	}
	box.SetXAxis(segments).AddSeries("Engine Size (L)", data)
	return box
}

func classificationPie(t *dataset.Table) components.Charter {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Sales Classification"}), chartSize())
	names, counts := topCounts(t, func(r *dataset.Record) string { return r.Classification }, 0)
	data := make([]opts.PieData, 0, len(names))
	for i, n := range names {
		data = append(data, opts.PieData{Name: n, Value: counts[i]})
	}
	pie.AddSeries("Classification", data)
	return pie
}

// topCounts tallies a categorical field, ordered by count descending; limit 0
// keeps everything.
func topCounts(t *dataset.Table, field func(*dataset.Record) string, limit int) ([]string, []int) {
	counts := map[string]int{}
	var order []string
	for i := range t.Records {
		v := field(&t.Records[i])
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]int, len(order))
	for i, v := range order {
		out[i] = counts[v]
	}
	return order, out
}

// fiveNumber computes the min/q1/median/q3/max summary for a box plot.
func fiveNumber(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return []float64{
		quantile(cp, 0),
		quantile(cp, 0.25),
		quantile(cp, 0.5),
		quantile(cp, 0.75),
		quantile(cp, 1),
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
