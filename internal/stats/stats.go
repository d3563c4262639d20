// Package stats computes the descriptive statistics of a run: the Pearson
// correlation matrix over the core numeric columns, an ordinary-least-squares
// regression of price on mileage, a two-sample t-test of prices between High
// and Low classified sales, and the engine-size trend between the first and
// last calendar year of the data. Results are returned as a structured record
// so any presentation layer can consume them; nothing here writes output.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// Alpha is the fixed significance threshold of the t-test conclusion.
const Alpha = 0.05

// CorrMatrix is a symmetric Pearson correlation matrix, row-major.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Regression holds the OLS fit of price on mileage. The slope sign reads as a
// price change per kilometer driven.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
	StdErr    float64 `json:"std_err"`
	N         int     `json:"n"`
	Skipped   bool    `json:"skipped,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// TTest holds the two-sample comparison of High vs Low classified prices.
// When either sample is too small the test is skipped with a reason instead
// of producing NaN.
type TTest struct {
	T           float64 `json:"t_statistic"`
	P           float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	HighN       int     `json:"high_n"`
	LowN        int     `json:"low_n"`
	Skipped     bool    `json:"skipped,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// EngineTrend compares mean engine size in the earliest and latest calendar
// year present in the data, located by explicit year lookup.
type EngineTrend struct {
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	FirstMean float64 `json:"first_mean"`
	LastMean  float64 `json:"last_mean"`
	Skipped   bool    `json:"skipped,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// Results is the structured output of the analyzer.
type Results struct {
	Correlation CorrMatrix  `json:"correlation"`
	Regression  Regression  `json:"regression_price_vs_mileage"`
	PriceTTest  TTest       `json:"ttest_high_vs_low_price"`
	EngineTrend EngineTrend `json:"engine_size_trend"`
}

// Analyze computes all statistics over the enriched table.
func Analyze(t *dataset.Table) *Results {
	return &Results{
		Correlation: correlationMatrix(t),
		Regression:  priceMileageRegression(t),
		PriceTTest:  priceTTest(t),
		EngineTrend: engineTrend(t),
	}
}

// numericValue returns the named numeric column of a record.
func numericValue(r *dataset.Record, col string) (float64, bool) {
	switch col {
	case "Year":
		return float64(r.Year.Int64), r.Year.Valid
	case "Engine_Size_L":
		return r.EngineSize.Float64, r.EngineSize.Valid
	case "Mileage_KM":
		return r.MileageKM.Float64, r.MileageKM.Valid
	case "Price_USD":
		return r.PriceUSD.Float64, r.PriceUSD.Valid
	case "Sales_Volume":
		return float64(r.SalesVolume.Int64), r.SalesVolume.Valid
	case "Price_per_KM":
		return r.PricePerKM.Float64, r.PricePerKM.Valid
	case "Vehicle_Age":
		return float64(r.VehicleAge.Int64), r.VehicleAge.Valid
	}
	return 0, false
}

// correlationMatrix computes pairwise-complete Pearson correlations over the
// core numeric columns. Degenerate pairs (fewer than two complete rows, or a
// zero-variance column) yield 0 rather than NaN.
func correlationMatrix(t *dataset.Table) CorrMatrix {
	cols := dataset.NumericColumns
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var xs, ys []float64
			for k := range t.Records {
				r := &t.Records[k]
				x, okx := numericValue(r, cols[i])
				y, oky := numericValue(r, cols[j])
				if okx && oky {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			var rho float64
			if len(xs) >= 2 {
				rho = stat.Correlation(xs, ys, nil)
				if math.IsNaN(rho) || math.IsInf(rho, 0) {
					rho = 0
				}
			}
			mat[i][j] = rho
			mat[j][i] = rho
		}
	}
	return CorrMatrix{Columns: cols, Values: mat}
}

func priceMileageRegression(t *dataset.Table) Regression {
	var xs, ys []float64
	for i := range t.Records {
		r := &t.Records[i]
		if r.MileageKM.Valid && r.PriceUSD.Valid {
			xs = append(xs, r.MileageKM.Float64)
			ys = append(ys, r.PriceUSD.Float64)
		}
	}
	n := len(xs)
	if n < 3 {
		return Regression{N: n, Skipped: true, Reason: "insufficient data: need at least 3 complete rows"}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	// Standard error of the slope from the residuals.
	xmean := stat.Mean(xs, nil)
	var sse, sxx float64
	for i := range xs {
		resid := ys[i] - (alpha + beta*xs[i])
		sse += resid * resid
		dx := xs[i] - xmean
		sxx += dx * dx
	}
	if sxx == 0 {
		return Regression{N: n, Skipped: true, Reason: "degenerate input: mileage has zero variance"}
	}
	se := math.Sqrt(sse / float64(n-2) / sxx)
	p := 0.0
	if se > 0 {
		tStat := beta / se
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * dist.Survival(math.Abs(tStat))
	}
	return Regression{Slope: beta, Intercept: alpha, R2: r2, PValue: p, StdErr: se, N: n}
}

// priceTTest runs an independent two-sample t-test with pooled variance over
// the priced rows of each classification group.
func priceTTest(t *dataset.Table) TTest {
	var high, low []float64
	for i := range t.Records {
		r := &t.Records[i]
		if !r.PriceUSD.Valid {
			continue
		}
		switch r.Classification {
		case "High":
			high = append(high, r.PriceUSD.Float64)
		case "Low":
			low = append(low, r.PriceUSD.Float64)
		}
	}
	res := TTest{HighN: len(high), LowN: len(low)}
	if len(high) < 2 || len(low) < 2 {
		res.Skipped = true
		res.Reason = "insufficient data: each classification group needs at least 2 priced rows"
		return res
	}
	n1, n2 := float64(len(high)), float64(len(low))
	m1, m2 := stat.Mean(high, nil), stat.Mean(low, nil)
	v1, v2 := stat.Variance(high, nil), stat.Variance(low, nil)
	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	if pooled == 0 {
		res.Skipped = true
		res.Reason = "degenerate input: both samples have zero variance"
		return res
	}
	res.T = (m1 - m2) / math.Sqrt(pooled*(1/n1+1/n2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res.P = 2 * dist.Survival(math.Abs(res.T))
	res.Significant = res.P < Alpha
	return res
}

// engineTrend finds min and max year among rows carrying both a year and an
// engine size, then averages engine size within each. No positional indexing
// of the yearly table is involved.
func engineTrend(t *dataset.Table) EngineTrend {
	sums := map[int]*struct {
		sum float64
		n   int
	}{}
	for i := range t.Records {
		r := &t.Records[i]
		if !r.Year.Valid || !r.EngineSize.Valid {
			continue
		}
		y := int(r.Year.Int64)
		a := sums[y]
		if a == nil {
			a = &struct {
				sum float64
				n   int
			}{}
			sums[y] = a
		}
		a.sum += r.EngineSize.Float64
		a.n++
	}
	if len(sums) == 0 {
		return EngineTrend{Skipped: true, Reason: "insufficient data: no rows with both year and engine size"}
	}
	first, last := 0, 0
	for y := range sums {
		if first == 0 || y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	return EngineTrend{
		FirstYear: first,
		LastYear:  last,
		FirstMean: sums[first].sum / float64(sums[first].n),
		LastMean:  sums[last].sum / float64(sums[last].n),
	}
}

// Round3 rounds to three decimal places for rendering correlation values.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
