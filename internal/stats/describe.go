package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// ColumnDescribe holds per-column descriptive statistics for the workbook's
// summary sheet. Numeric columns carry count/mean/std/min/max; categorical
// columns carry the distinct-value count and the modal value.
type ColumnDescribe struct {
	Column  string  `json:"column"`
	Kind    string  `json:"kind"` // numeric | categorical
	Count   int     `json:"count"`
	Mean    float64 `json:"mean,omitempty"`
	Std     float64 `json:"std,omitempty"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Unique  int     `json:"unique,omitempty"`
	Top     string  `json:"top,omitempty"`
	TopFreq int     `json:"top_freq,omitempty"`
}

// Describe computes descriptive statistics over every source and derived
// column, excluding missing values.
func Describe(t *dataset.Table) []ColumnDescribe {
	cols := append(append([]string{}, dataset.Columns...), dataset.DerivedColumns...)
	out := make([]ColumnDescribe, 0, len(cols))
	for _, col := range cols {
		if isNumeric(col) {
			out = append(out, describeNumeric(t, col))
		} else {
			out = append(out, describeCategorical(t, col))
		}
	}
	return out
}

func isNumeric(col string) bool {
	if col == "Price_per_KM" || col == "Vehicle_Age" {
		return true
	}
	for _, c := range dataset.NumericColumns {
		if c == col {
			return true
		}
	}
	return false
}

func describeNumeric(t *dataset.Table, col string) ColumnDescribe {
	var vals []float64
	for i := range t.Records {
		if v, ok := numericValue(&t.Records[i], col); ok {
			vals = append(vals, v)
		}
	}
	d := ColumnDescribe{Column: col, Kind: "numeric", Count: len(vals)}
	if len(vals) == 0 {
		return d
	}
	d.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		d.Std = stat.StdDev(vals, nil)
	}
	d.Min, d.Max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	return d
}

func describeCategorical(t *dataset.Table, col string) ColumnDescribe {
	counts := map[string]int{}
	var order []string
	for i := range t.Records {
		v := categoricalValue(&t.Records[i], col)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	d := ColumnDescribe{Column: col, Kind: "categorical", Unique: len(counts)}
	for _, v := range order {
		d.Count += counts[v]
		if counts[v] > d.TopFreq {
			d.Top = v
			d.TopFreq = counts[v]
		}
	}
	return d
}

func categoricalValue(r *dataset.Record, col string) string {
	switch col {
	case "Model":
		return r.Model
	case "Region":
		return r.Region
	case "Color":
		return r.Color
	case "Fuel_Type":
		return r.FuelType
	case "Transmission":
		return r.Transmission
	case "Sales_Classification":
		return r.Classification
	case "Model_Segment":
		return r.Segment
	}
	return ""
}
