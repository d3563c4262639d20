package dataset

import "database/sql"

// Columns is the required column set of the source file, in canonical order.
// The loader rejects inputs missing any of these; extra columns are ignored
// and recorded in the quality report.
var Columns = []string{
	"Model",
	"Year",
	"Region",
	"Color",
	"Fuel_Type",
	"Transmission",
	"Engine_Size_L",
	"Mileage_KM",
	"Price_USD",
	"Sales_Volume",
	"Sales_Classification",
}

// DerivedColumns are appended by the enrichment stage and carried by every
// full-fidelity export.
var DerivedColumns = []string{
	"Price_per_KM",
	"Vehicle_Age",
	"Model_Segment",
}

// NumericColumns are the columns subject to the coerce-don't-fail policy and
// the inputs of the correlation matrix.
var NumericColumns = []string{
	"Year",
	"Engine_Size_L",
	"Mileage_KM",
	"Price_USD",
	"Sales_Volume",
}

// Record is one observed sale transaction. Numeric fields use database/sql
// null types: an unparseable or empty cell becomes an invalid value rather
// than an error, and aggregates exclude it.
type Record struct {
	Model          string
	Year           sql.NullInt64
	Region         string
	Color          string
	FuelType       string
	Transmission   string
	EngineSize     sql.NullFloat64
	MileageKM      sql.NullFloat64
	PriceUSD       sql.NullFloat64
	SalesVolume    sql.NullInt64
	Classification string

	// Derived fields, attached once by enrich.Derive.
	PricePerKM sql.NullFloat64
	VehicleAge sql.NullInt64
	Segment    string
}

// Quality summarizes data-quality findings from a load: per-column counts of
// non-empty cells that failed numeric coercion, plus any unexpected columns
// that were ignored.
type Quality struct {
	Rows    int
	Invalid map[string]int
	Ignored []string
}

// InvalidTotal returns the total number of coerced-to-missing cells.
func (q Quality) InvalidTotal() int {
	n := 0
	for _, c := range q.Invalid {
		n += c
	}
	return n
}

// Table is the in-memory record set. It is mutated in place by enrichment and
// treated as read-only by every later stage.
type Table struct {
	Records []Record
	Quality Quality
}

// TotalSalesVolume sums the sales-volume column, treating missing as zero.
func (t *Table) TotalSalesVolume() int64 {
	var total int64
	for i := range t.Records {
		if t.Records[i].SalesVolume.Valid {
			total += t.Records[i].SalesVolume.Int64
		}
	}
	return total
}
