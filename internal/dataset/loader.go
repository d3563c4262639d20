package dataset

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Resolve locates the input file, trying the two accepted name variants:
// the base name with a .csv extension, then the bare base name. The returned
// error lists both attempted paths.
func Resolve(base string) (string, error) {
	trimmed := strings.TrimSuffix(base, ".csv")
	candidates := []string{trimmed + ".csv", trimmed}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("input file not found; tried:\n  %s\n  %s", candidates[0], candidates[1])
}

// Load parses a delimited sales file into a Table. Numeric cells that fail to
// parse become invalid values and are counted in the quality report; only a
// missing file, an unreadable stream, or an incomplete header is an error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input %s is empty", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("input %s missing required columns: %s", path, strings.Join(missing, ", "))
	}

	t := &Table{Quality: Quality{Invalid: make(map[string]int)}}
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}
	for _, h := range header {
		if name := strings.TrimSpace(h); name != "" && !known[name] {
			t.Quality.Ignored = append(t.Quality.Ignored, name)
		}
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", t.Quality.Rows+1, err)
		}
		t.Quality.Rows++
		row := Record{
			Model:          cell(rec, idx["Model"]),
			Region:         cell(rec, idx["Region"]),
			Color:          cell(rec, idx["Color"]),
			FuelType:       cell(rec, idx["Fuel_Type"]),
			Transmission:   cell(rec, idx["Transmission"]),
			Classification: cell(rec, idx["Sales_Classification"]),
		}
		row.Year = t.coerceInt(cell(rec, idx["Year"]), "Year")
		row.EngineSize = t.coerceFloat(cell(rec, idx["Engine_Size_L"]), "Engine_Size_L")
		row.MileageKM = t.coerceFloat(cell(rec, idx["Mileage_KM"]), "Mileage_KM")
		row.PriceUSD = t.coerceFloat(cell(rec, idx["Price_USD"]), "Price_USD")
		row.SalesVolume = t.coerceInt(cell(rec, idx["Sales_Volume"]), "Sales_Volume")
		t.Records = append(t.Records, row)
	}
	return t, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// coerceFloat maps an unparseable non-empty cell to an invalid value and
// counts it; empty cells are missing but not counted as invalid. Literal
// NaN/Inf cells parse but are not finite numbers, so they coerce to invalid
// too; otherwise a single such cell would poison every downstream mean and
// the JSON results encoding.
func (t *Table) coerceFloat(s, col string) sql.NullFloat64 {
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		t.Quality.Invalid[col]++
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (t *Table) coerceInt(s, col string) sql.NullInt64 {
	if s == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Accept integral floats like "2020.0" the way a numeric coercion would.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != float64(int64(f)) {
			t.Quality.Invalid[col]++
			return sql.NullInt64{}
		}
		n = int64(f)
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
