// Package aggregate derives the five named summary tables from the enriched
// record set. Each table is independent, fully regenerated per run, and
// read-only downstream. Means exclude missing values from both numerator and
// denominator; sums treat missing as zero.
package aggregate

import (
	"math"
	"sort"

	"github.com/salescope/salescope-cli/internal/dataset"
)

// TopModelsLimit is the row cap of the top_models table.
const TopModelsLimit = 10

// ModelRow is one row of the top_models table.
type ModelRow struct {
	Model      string  `json:"model"`
	TotalSales int64   `json:"total_sales"`
	AvgPrice   float64 `json:"avg_price"`
	Count      int     `json:"transaction_count"`
}

// RegionRow is one row of the regional_performance table.
type RegionRow struct {
	Region     string  `json:"region"`
	TotalSales int64   `json:"total_sales"`
	AvgPrice   float64 `json:"avg_price"`
	AvgEngine  float64 `json:"avg_engine"`
	Count      int     `json:"transaction_count"`
	HighCount  int     `json:"high_sales_count"`
}

// FuelRow is one row of the fuel_analysis table.
type FuelRow struct {
	FuelType   string  `json:"fuel_type"`
	TotalSales int64   `json:"total_sales"`
	AvgPrice   float64 `json:"avg_price"`
	Count      int     `json:"transaction_count"`
}

// YearRow is one row of the yearly_trends table, ordered by year ascending.
type YearRow struct {
	Year       int     `json:"year"`
	TotalSales int64   `json:"total_sales"`
	AvgPrice   float64 `json:"avg_price"`
	AvgMileage float64 `json:"avg_mileage"`
	AvgEngine  float64 `json:"avg_engine"`
	Count      int     `json:"transaction_count"`
}

// TransmissionRow is one row of the transmission_by_region table. Pct is the
// row's share of its region partition, rounded to two decimal places.
type TransmissionRow struct {
	Region       string  `json:"region"`
	Transmission string  `json:"transmission"`
	Count        int     `json:"count"`
	Pct          float64 `json:"pct"`
}

// Summaries holds the five summary tables.
type Summaries struct {
	TopModels     []ModelRow        `json:"top_models"`
	Regions       []RegionRow       `json:"regional_performance"`
	Fuels         []FuelRow         `json:"fuel_analysis"`
	Years         []YearRow         `json:"yearly_trends"`
	Transmissions []TransmissionRow `json:"transmission_by_region"`
}

// meanAcc accumulates a missing-excluding mean.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) { a.sum += v; a.n++ }

func (a *meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// Summarize computes all five summary tables. The tables share only read
// access to the table and are computable in any order.
func Summarize(t *dataset.Table) *Summaries {
	return &Summaries{
		TopModels:     topModels(t, TopModelsLimit),
		Regions:       regionalPerformance(t),
		Fuels:         fuelAnalysis(t),
		Years:         yearlyTrends(t),
		Transmissions: transmissionByRegion(t),
	}
}

// topModels keeps the limit highest-volume models, ordered by summed sales
// volume descending with ties broken by input order.
func topModels(t *dataset.Table, limit int) []ModelRow {
	rows := modelSummaries(t)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func modelSummaries(t *dataset.Table) []ModelRow {
	type acc struct {
		sales int64
		price meanAcc
		count int
	}
	byModel := map[string]*acc{}
	var order []string
	for i := range t.Records {
		r := &t.Records[i]
		a := byModel[r.Model]
		if a == nil {
			a = &acc{}
			byModel[r.Model] = a
			order = append(order, r.Model)
		}
		a.count++
		if r.SalesVolume.Valid {
			a.sales += r.SalesVolume.Int64
		}
		if r.PriceUSD.Valid {
			a.price.add(r.PriceUSD.Float64)
		}
	}
	rows := make([]ModelRow, 0, len(order))
	for _, m := range order {
		a := byModel[m]
		rows = append(rows, ModelRow{Model: m, TotalSales: a.sales, AvgPrice: a.price.mean(), Count: a.count})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalSales > rows[j].TotalSales })
	return rows
}

func regionalPerformance(t *dataset.Table) []RegionRow {
	type acc struct {
		sales  int64
		price  meanAcc
		engine meanAcc
		count  int
		high   int
	}
	byRegion := map[string]*acc{}
	var order []string
	for i := range t.Records {
		r := &t.Records[i]
		a := byRegion[r.Region]
		if a == nil {
			a = &acc{}
			byRegion[r.Region] = a
			order = append(order, r.Region)
		}
		a.count++
		if r.SalesVolume.Valid {
			a.sales += r.SalesVolume.Int64
		}
		if r.PriceUSD.Valid {
			a.price.add(r.PriceUSD.Float64)
		}
		if r.EngineSize.Valid {
			a.engine.add(r.EngineSize.Float64)
		}
		if r.Classification == "High" {
			a.high++
		}
	}
	rows := make([]RegionRow, 0, len(order))
	for _, reg := range order {
		a := byRegion[reg]
		rows = append(rows, RegionRow{
			Region:     reg,
			TotalSales: a.sales,
			AvgPrice:   a.price.mean(),
			AvgEngine:  a.engine.mean(),
			Count:      a.count,
			HighCount:  a.high,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalSales > rows[j].TotalSales })
	return rows
}

func fuelAnalysis(t *dataset.Table) []FuelRow {
	type acc struct {
		sales int64
		price meanAcc
		count int
	}
	byFuel := map[string]*acc{}
	var order []string
	for i := range t.Records {
		r := &t.Records[i]
		a := byFuel[r.FuelType]
		if a == nil {
			a = &acc{}
			byFuel[r.FuelType] = a
			order = append(order, r.FuelType)
		}
		a.count++
		if r.SalesVolume.Valid {
			a.sales += r.SalesVolume.Int64
		}
		if r.PriceUSD.Valid {
			a.price.add(r.PriceUSD.Float64)
		}
	}
	rows := make([]FuelRow, 0, len(order))
	for _, fuel := range order {
		a := byFuel[fuel]
		rows = append(rows, FuelRow{FuelType: fuel, TotalSales: a.sales, AvgPrice: a.price.mean(), Count: a.count})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalSales > rows[j].TotalSales })
	return rows
}

// yearlyTrends groups rows with a valid year; rows with a missing year have
// no grouping key and are excluded, matching the exclude-missing policy.
func yearlyTrends(t *dataset.Table) []YearRow {
	type acc struct {
		sales   int64
		price   meanAcc
		mileage meanAcc
		engine  meanAcc
		count   int
	}
	byYear := map[int]*acc{}
	for i := range t.Records {
		r := &t.Records[i]
		if !r.Year.Valid {
			continue
		}
		y := int(r.Year.Int64)
		a := byYear[y]
		if a == nil {
			a = &acc{}
			byYear[y] = a
		}
		a.count++
		if r.SalesVolume.Valid {
			a.sales += r.SalesVolume.Int64
		}
		if r.PriceUSD.Valid {
			a.price.add(r.PriceUSD.Float64)
		}
		if r.MileageKM.Valid {
			a.mileage.add(r.MileageKM.Float64)
		}
		if r.EngineSize.Valid {
			a.engine.add(r.EngineSize.Float64)
		}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	rows := make([]YearRow, 0, len(years))
	for _, y := range years {
		a := byYear[y]
		rows = append(rows, YearRow{
			Year:       y,
			TotalSales: a.sales,
			AvgPrice:   a.price.mean(),
			AvgMileage: a.mileage.mean(),
			AvgEngine:  a.engine.mean(),
			Count:      a.count,
		})
	}
	return rows
}

func transmissionByRegion(t *dataset.Table) []TransmissionRow {
	type key struct{ region, transmission string }
	counts := map[key]int{}
	regionTotals := map[string]int{}
	for i := range t.Records {
		r := &t.Records[i]
		counts[key{r.Region, r.Transmission}]++
		regionTotals[r.Region]++
	}
	rows := make([]TransmissionRow, 0, len(counts))
	for k, c := range counts {
		pct := 100.0 * float64(c) / float64(regionTotals[k.region])
		rows = append(rows, TransmissionRow{
			Region:       k.region,
			Transmission: k.transmission,
			Count:        c,
			Pct:          math.Round(pct*100) / 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Transmission < rows[j].Transmission
	})
	return rows
}
