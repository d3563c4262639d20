// Package enrich attaches the derived columns to a loaded table: the
// price-per-distance ratio, the vehicle age relative to a reference year,
// and the model segment label.
package enrich

import (
	"database/sql"
	"strings"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// ReferenceYear resolves the age horizon. A positive configured year wins;
// otherwise the maximum year present in the data is used, so ages stay
// meaningful as newer datasets arrive.
func ReferenceYear(t *dataset.Table, configured int) int {
	if configured > 0 {
		return configured
	}
	max := 0
	for i := range t.Records {
		if y := t.Records[i].Year; y.Valid && int(y.Int64) > max {
			max = int(y.Int64)
		}
	}
	return max
}

// Derive computes the three derived fields for every record, in place.
// It is pure and row-wise: no existing column is mutated or dropped, and
// re-running it yields identical results.
func Derive(t *dataset.Table, refYear int) {
	for i := range t.Records {
		r := &t.Records[i]
		if r.PriceUSD.Valid && r.MileageKM.Valid {
			// The +1 offset keeps zero-mileage rows finite.
			r.PricePerKM = sql.NullFloat64{Float64: r.PriceUSD.Float64 / (r.MileageKM.Float64 + 1), Valid: true}
		} else {
			r.PricePerKM = sql.NullFloat64{}
		}
		if r.Year.Valid {
			r.VehicleAge = sql.NullInt64{Int64: int64(refYear) - r.Year.Int64, Valid: true}
		} else {
			r.VehicleAge = sql.NullInt64{}
		}
		r.Segment = Segment(r.Model)
	}
}

// Segment classifies a model identifier by its first character. Rule order is
// X, then i, then M, first match wins, case-sensitive; anything else is a
// Sedan and a missing model is Other.
func Segment(model string) string {
	m := strings.TrimSpace(model)
	switch {
	case m == "":
		return "Other"
	case strings.HasPrefix(m, "X"):
		return "SUV"
	case strings.HasPrefix(m, "i"):
		return "i-Series"
	case strings.HasPrefix(m, "M"):
		return "M-Series"
	default:
		return "Sedan"
	}
}
