package stats

import (
	"database/sql"
	"math"
	"testing"

	"github.com/salescope/salescope-cli/internal/dataset"
)

func f(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
func i(v int64) sql.NullInt64     { return sql.NullInt64{Int64: v, Valid: true} }

func colIndex(t *testing.T, m CorrMatrix, name string) int {
	t.Helper()
	for idx, c := range m.Columns {
		if c == name {
			return idx
		}
	}
	t.Fatalf("column %s not in matrix", name)
	return -1
}

func TestCorrelationPerfectLine(t *testing.T) {
	// Price is an exact affine function of mileage.
	tab := &dataset.Table{}
	for n := 0; n < 5; n++ {
		tab.Records = append(tab.Records, dataset.Record{
			MileageKM: f(float64(n) * 1000),
			PriceUSD:  f(60000 - float64(n)*2000),
			Year:      i(int64(2018 + n)),
		})
	}
	m := correlationMatrix(tab)
	pi := colIndex(t, m, "Price_USD")
	mi := colIndex(t, m, "Mileage_KM")
	if got := m.Values[pi][mi]; math.Abs(got-(-1)) > 1e-9 {
		t.Fatalf("corr(price, mileage) = %v, want -1", got)
	}
	if m.Values[pi][mi] != m.Values[mi][pi] {
		t.Fatal("matrix not symmetric")
	}
	for idx := range m.Columns {
		if m.Values[idx][idx] != 1 {
			t.Fatalf("diagonal[%d] = %v, want 1", idx, m.Values[idx][idx])
		}
	}
}

func TestCorrelationDegeneratePairIsZero(t *testing.T) {
	// Engine size is constant; its correlations are defined as 0, not NaN.
	tab := &dataset.Table{Records: []dataset.Record{
		{EngineSize: f(2.0), PriceUSD: f(10000)},
		{EngineSize: f(2.0), PriceUSD: f(20000)},
		{EngineSize: f(2.0), PriceUSD: f(30000)},
	}}
	m := correlationMatrix(tab)
	ei := colIndex(t, m, "Engine_Size_L")
	pi := colIndex(t, m, "Price_USD")
	if got := m.Values[ei][pi]; got != 0 {
		t.Fatalf("corr with zero-variance column = %v, want 0", got)
	}
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	// The row missing a price must not poison the mileage/year pair.
	tab := &dataset.Table{Records: []dataset.Record{
		{MileageKM: f(1000), Year: i(2020), PriceUSD: f(30000)},
		{MileageKM: f(2000), Year: i(2021)},
		{MileageKM: f(3000), Year: i(2022), PriceUSD: f(20000)},
	}}
	m := correlationMatrix(tab)
	mi := colIndex(t, m, "Mileage_KM")
	yi := colIndex(t, m, "Year")
	if got := m.Values[mi][yi]; math.Abs(got-1) > 1e-9 {
		t.Fatalf("corr(mileage, year) = %v, want 1", got)
	}
}

func TestRegressionExactLine(t *testing.T) {
	tab := &dataset.Table{}
	for n := 0; n < 6; n++ {
		x := float64(n) * 5000
		tab.Records = append(tab.Records, dataset.Record{
			MileageKM: f(x),
			PriceUSD:  f(55000 - 0.3*x),
		})
	}
	r := priceMileageRegression(tab)
	if r.Skipped {
		t.Fatalf("regression skipped: %s", r.Reason)
	}
	if math.Abs(r.Slope-(-0.3)) > 1e-9 {
		t.Fatalf("slope = %v, want -0.3", r.Slope)
	}
	if math.Abs(r.Intercept-55000) > 1e-6 {
		t.Fatalf("intercept = %v, want 55000", r.Intercept)
	}
	if math.Abs(r.R2-1) > 1e-9 {
		t.Fatalf("r2 = %v, want 1", r.R2)
	}
	if r.N != 6 {
		t.Fatalf("n = %d, want 6", r.N)
	}
}

func TestRegressionSkips(t *testing.T) {
	tests := []struct {
		name string
		tab  *dataset.Table
	}{
		{"too few rows", &dataset.Table{Records: []dataset.Record{
			{MileageKM: f(1), PriceUSD: f(2)},
			{MileageKM: f(3), PriceUSD: f(4)},
		}}},
		{"zero mileage variance", &dataset.Table{Records: []dataset.Record{
			{MileageKM: f(5), PriceUSD: f(1)},
			{MileageKM: f(5), PriceUSD: f(2)},
			{MileageKM: f(5), PriceUSD: f(3)},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := priceMileageRegression(tt.tab)
			if !r.Skipped || r.Reason == "" {
				t.Fatalf("want skipped with reason, got %+v", r)
			}
		})
	}
}

func TestTTestSeparatedSamples(t *testing.T) {
	tab := &dataset.Table{}
	for _, p := range []float64{90000, 91000, 92000, 93000} {
		tab.Records = append(tab.Records, dataset.Record{Classification: "High", PriceUSD: f(p)})
	}
	for _, p := range []float64{20000, 21000, 22000, 23000} {
		tab.Records = append(tab.Records, dataset.Record{Classification: "Low", PriceUSD: f(p)})
	}
	r := priceTTest(tab)
	if r.Skipped {
		t.Fatalf("t-test skipped: %s", r.Reason)
	}
	if r.HighN != 4 || r.LowN != 4 {
		t.Fatalf("sample sizes = %d/%d, want 4/4", r.HighN, r.LowN)
	}
	if r.T <= 0 {
		t.Fatalf("t = %v, want positive for high > low", r.T)
	}
	if !r.Significant || r.P >= Alpha {
		t.Fatalf("widely separated samples not significant: p = %v", r.P)
	}
}

func TestTTestSkips(t *testing.T) {
	tests := []struct {
		name string
		tab  *dataset.Table
	}{
		{"empty group", &dataset.Table{Records: []dataset.Record{
			{Classification: "High", PriceUSD: f(1)},
			{Classification: "High", PriceUSD: f(2)},
			{Classification: "Low", PriceUSD: f(3)},
		}}},
		{"unpriced rows excluded", &dataset.Table{Records: []dataset.Record{
			{Classification: "High", PriceUSD: f(1)},
			{Classification: "High", PriceUSD: f(2)},
			{Classification: "Low", PriceUSD: f(3)},
			{Classification: "Low"},
		}}},
		{"zero variance in both groups", &dataset.Table{Records: []dataset.Record{
			{Classification: "High", PriceUSD: f(9)},
			{Classification: "High", PriceUSD: f(9)},
			{Classification: "Low", PriceUSD: f(4)},
			{Classification: "Low", PriceUSD: f(4)},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := priceTTest(tt.tab)
			if !r.Skipped || r.Reason == "" {
				t.Fatalf("want skipped with reason, got %+v", r)
			}
			if r.Significant {
				t.Fatal("skipped test must not claim significance")
			}
		})
	}
}

func TestEngineTrend(t *testing.T) {
	tab := &dataset.Table{Records: []dataset.Record{
		{Year: i(2019), EngineSize: f(3.0)},
		{Year: i(2019), EngineSize: f(2.0)},
		{Year: i(2021), EngineSize: f(1.5)},
		{Year: i(2023), EngineSize: f(1.0)},
		{Year: i(2023), EngineSize: f(2.0)},
		{Year: i(2022)}, // no engine size, must not count
	}}
	r := engineTrend(tab)
	if r.Skipped {
		t.Fatalf("trend skipped: %s", r.Reason)
	}
	if r.FirstYear != 2019 || r.LastYear != 2023 {
		t.Fatalf("years = %d..%d, want 2019..2023", r.FirstYear, r.LastYear)
	}
	if r.FirstMean != 2.5 || r.LastMean != 1.5 {
		t.Fatalf("means = %v/%v, want 2.5/1.5", r.FirstMean, r.LastMean)
	}
}

func TestEngineTrendSkipsWithoutUsableRows(t *testing.T) {
	tab := &dataset.Table{Records: []dataset.Record{
		{Year: i(2020)},
		{EngineSize: f(2.0)},
	}}
	r := engineTrend(tab)
	if !r.Skipped || r.Reason == "" {
		t.Fatalf("want skipped with reason, got %+v", r)
	}
}

func TestAnalyzePopulatesAllSections(t *testing.T) {
	tab := &dataset.Table{}
	for n := 0; n < 8; n++ {
		class := "High"
		if n%2 == 0 {
			class = "Low"
		}
		tab.Records = append(tab.Records, dataset.Record{
			Classification: class,
			Year:           i(int64(2018 + n%4)),
			EngineSize:     f(1.5 + float64(n)*0.2),
			MileageKM:      f(float64(n) * 7000),
			PriceUSD:       f(65000 - float64(n)*3000),
			SalesVolume:    i(int64(100 + n)),
		})
	}
	r := Analyze(tab)
	if len(r.Correlation.Columns) != len(dataset.NumericColumns) {
		t.Fatalf("correlation columns = %d, want %d", len(r.Correlation.Columns), len(dataset.NumericColumns))
	}
	if r.Regression.Skipped {
		t.Fatalf("regression skipped: %s", r.Regression.Reason)
	}
	if r.PriceTTest.Skipped {
		t.Fatalf("t-test skipped: %s", r.PriceTTest.Reason)
	}
	if r.EngineTrend.Skipped {
		t.Fatalf("trend skipped: %s", r.EngineTrend.Reason)
	}
}

func TestRound3(t *testing.T) {
	if got := Round3(0.123456); got != 0.123 {
		t.Fatalf("Round3 = %v, want 0.123", got)
	}
	if got := Round3(-0.9996); got != -1.0 {
		t.Fatalf("Round3 = %v, want -1", got)
	}
}
