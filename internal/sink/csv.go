// Package sink holds the report sinks: every writer consumes the enriched
// table and/or the summary tables and contributes no analysis logic of its
// own. Outputs are fully overwritten on each run.
package sink

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// WriteCSV writes the full-fidelity export of the enriched table: every
// source column plus the three derived columns, missing values as empty
// cells.
func WriteCSV(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, dataset.Columns...), dataset.DerivedColumns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Records {
		r := &t.Records[i]
		row := []string{
			r.Model,
			fmtInt(r.Year),
			r.Region,
			r.Color,
			r.FuelType,
			r.Transmission,
			fmtFloat(r.EngineSize),
			fmtFloat(r.MileageKM),
			fmtFloat(r.PriceUSD),
			fmtInt(r.SalesVolume),
			r.Classification,
			fmtFloat(r.PricePerKM),
			fmtInt(r.VehicleAge),
			r.Segment,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func fmtFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func fmtInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}
