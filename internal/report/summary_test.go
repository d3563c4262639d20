package report

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
)

func f(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
func i(v int64) sql.NullInt64     { return sql.NullInt64{Int64: v, Valid: true} }

func buildFixture() (*dataset.Table, *aggregate.Summaries) {
	tab := &dataset.Table{Records: []dataset.Record{
		{Model: "X5", Region: "Europe", Color: "Black", FuelType: "Petrol", Transmission: "Automatic", Classification: "High",
			Year: i(2020), PriceUSD: f(50000), MileageKM: f(10000), SalesVolume: i(120)},
		{Model: "X5", Region: "Asia", Color: "White", FuelType: "Petrol", Transmission: "Automatic", Classification: "High",
			Year: i(2021), PriceUSD: f(52000), MileageKM: f(8000), SalesVolume: i(80)},
		{Model: "i3", Region: "Asia", Color: "Black", FuelType: "Electric", Transmission: "Manual", Classification: "Low",
			Year: i(2023), PriceUSD: f(30000), MileageKM: f(3000), SalesVolume: i(60)},
		{Model: "320i", Region: "Europe", Color: "Blue", FuelType: "Diesel", Transmission: "Manual", Classification: "Low",
			Year: i(2019), MileageKM: f(20000), SalesVolume: i(30)},
	}}
	return tab, aggregate.Summarize(tab)
}

func TestBuild(t *testing.T) {
	tab, sums := buildFixture()
	s := Build("run-1", tab, sums)

	if s.RunID != "run-1" {
		t.Fatalf("run id = %q", s.RunID)
	}
	if s.GeneratedAt.IsZero() {
		t.Fatal("generated-at not set")
	}
	if s.TotalRecords != 4 || s.TotalSalesVolume != 290 {
		t.Fatalf("totals = %d/%d, want 4/290", s.TotalRecords, s.TotalSalesVolume)
	}
	if s.MinYear != 2019 || s.MaxYear != 2023 {
		t.Fatalf("years = %d..%d, want 2019..2023", s.MinYear, s.MaxYear)
	}
	// Mean over the three priced rows only.
	if s.AvgPrice != 44000 {
		t.Fatalf("avg price = %v, want 44000", s.AvgPrice)
	}
	if s.TopModel != "X5" || s.TopModelSales != 200 {
		t.Fatalf("top model = %s/%d, want X5/200", s.TopModel, s.TopModelSales)
	}
	if s.TopRegion != "Europe" {
		t.Fatalf("top region = %s, want Europe", s.TopRegion)
	}
	if s.TopFuel != "Petrol" {
		t.Fatalf("top fuel = %s, want Petrol", s.TopFuel)
	}
	if s.TopColor != "Black" {
		t.Fatalf("top color = %s, want Black", s.TopColor)
	}
	if s.AutomaticPct != 50 {
		t.Fatalf("automatic pct = %v, want 50", s.AutomaticPct)
	}
	if len(s.Insights) == 0 {
		t.Fatal("insights empty")
	}
}

func TestBuildEmptyTable(t *testing.T) {
	tab := &dataset.Table{}
	s := Build("run-2", tab, aggregate.Summarize(tab))
	if s.TotalRecords != 0 || s.AvgPrice != 0 || s.AutomaticPct != 0 {
		t.Fatalf("empty-table summary = %+v", s)
	}
	if s.TopModel != "" || s.TopRegion != "" {
		t.Fatalf("empty-table summary carries leaders: %+v", s)
	}
}

func TestLines(t *testing.T) {
	tab, sums := buildFixture()
	lines := Build("run-3", tab, sums).Lines()
	if len(lines) != 10 {
		t.Fatalf("lines = %d, want 10", len(lines))
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"Total Vehicles Analyzed: 4",
		"Total Sales Volume: 290",
		"Date Range: 2019 - 2023",
		"Top Model: X5 (200 units)",
		"Automatic Transmission: 50.0%",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("lines missing %q:\n%s", want, joined)
		}
	}
}
