package sink

import (
	"database/sql"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
	"github.com/salescope/salescope-cli/internal/stats"
)

func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
func ni(v int64) sql.NullInt64     { return sql.NullInt64{Int64: v, Valid: true} }

// sinkFixture returns an enriched three-row table, with the last row carrying
// missing numerics, plus its summaries and statistics.
func sinkFixture() (*dataset.Table, *aggregate.Summaries, *stats.Results) {
	t := &dataset.Table{
		Records: []dataset.Record{
			{Model: "X5", Region: "Europe", Color: "Black", FuelType: "Petrol", Transmission: "Automatic", Classification: "High",
				Year: ni(2020), EngineSize: nf(3.0), MileageKM: nf(10000), PriceUSD: nf(50000), SalesVolume: ni(120),
				PricePerKM: nf(4.9995), VehicleAge: ni(4), Segment: "SUV"},
			{Model: "i3", Region: "Asia", Color: "White", FuelType: "Electric", Transmission: "Automatic", Classification: "Low",
				Year: ni(2021), EngineSize: nf(0.6), MileageKM: nf(0), PriceUSD: nf(30000), SalesVolume: ni(60),
				PricePerKM: nf(30000), VehicleAge: ni(3), Segment: "i-Series"},
			{Model: "320i", Region: "Europe", Color: "Blue", FuelType: "Diesel", Transmission: "Manual", Classification: "Low",
				Segment: "Sedan"},
		},
		Quality: dataset.Quality{Rows: 3, Invalid: map[string]int{"Year": 1}},
	}
	return t, aggregate.Summarize(t), stats.Analyze(t)
}
