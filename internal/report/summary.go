// Package report composes the narrative executive summary consumed by the
// PDF report and the console "key findings" block.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
)

// Summary is the executive-summary block: headline counts, the top
// model/region/fuel/color, and a fixed set of interpretive bullet points.
type Summary struct {
	RunID            string    `json:"run_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	TotalRecords     int       `json:"total_records"`
	TotalSalesVolume int64     `json:"total_sales_volume"`
	MinYear          int       `json:"min_year"`
	MaxYear          int       `json:"max_year"`
	AvgPrice         float64   `json:"avg_price"`
	AvgMileage       float64   `json:"avg_mileage"`
	TopModel         string    `json:"top_model"`
	TopModelSales    int64     `json:"top_model_sales"`
	TopRegion        string    `json:"top_region"`
	TopFuel          string    `json:"top_fuel"`
	TopColor         string    `json:"top_color"`
	AutomaticPct     float64   `json:"automatic_pct"`
	Insights         []string  `json:"insights"`
}

// insights is the hand-authored interpretive bullet list carried verbatim
// into every report.
var insights = []string{
	"Strong negative correlation between price and mileage",
	"Automatic transmission dominates across regions",
	"SUV (X-series) models command the highest prices and sales volumes",
	"Hybrid and electric fuel types show an increasing trend in later years",
}

// Build derives the executive summary from the enriched table and the
// summary tables.
func Build(runID string, t *dataset.Table, s *aggregate.Summaries) *Summary {
	sum := &Summary{
		RunID:            runID,
		GeneratedAt:      time.Now(),
		TotalRecords:     len(t.Records),
		TotalSalesVolume: t.TotalSalesVolume(),
		Insights:         insights,
	}

	var priceSum, mileageSum float64
	var priceN, mileageN, automatic int
	colorCounts := map[string]int{}
	var colorOrder []string
	for i := range t.Records {
		r := &t.Records[i]
		if r.Year.Valid {
			y := int(r.Year.Int64)
			if sum.MinYear == 0 || y < sum.MinYear {
				sum.MinYear = y
			}
			if y > sum.MaxYear {
				sum.MaxYear = y
			}
		}
		if r.PriceUSD.Valid {
			priceSum += r.PriceUSD.Float64
			priceN++
		}
		if r.MileageKM.Valid {
			mileageSum += r.MileageKM.Float64
			mileageN++
		}
		if r.Transmission == "Automatic" {
			automatic++
		}
		if r.Color != "" {
			if colorCounts[r.Color] == 0 {
				colorOrder = append(colorOrder, r.Color)
			}
			colorCounts[r.Color]++
		}
	}
	if priceN > 0 {
		sum.AvgPrice = priceSum / float64(priceN)
	}
	if mileageN > 0 {
		sum.AvgMileage = mileageSum / float64(mileageN)
	}
	if len(t.Records) > 0 {
		sum.AutomaticPct = 100 * float64(automatic) / float64(len(t.Records))
	}

	sort.SliceStable(colorOrder, func(i, j int) bool {
		return colorCounts[colorOrder[i]] > colorCounts[colorOrder[j]]
	})
	if len(colorOrder) > 0 {
		sum.TopColor = colorOrder[0]
	}
	if len(s.TopModels) > 0 {
		sum.TopModel = s.TopModels[0].Model
		sum.TopModelSales = s.TopModels[0].TotalSales
	}
	if len(s.Regions) > 0 {
		sum.TopRegion = s.Regions[0].Region
	}
	if len(s.Fuels) > 0 {
		sum.TopFuel = s.Fuels[0].FuelType
	}
	return sum
}

// Lines renders the summary as the bullet list embedded in the PDF and
// printed by inspect.
func (s *Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Total Vehicles Analyzed: %d", s.TotalRecords),
		fmt.Sprintf("Total Sales Volume: %d", s.TotalSalesVolume),
		fmt.Sprintf("Date Range: %d - %d", s.MinYear, s.MaxYear),
		fmt.Sprintf("Average Price: $%.0f", s.AvgPrice),
		fmt.Sprintf("Average Mileage: %.0f km", s.AvgMileage),
		fmt.Sprintf("Top Model: %s (%d units)", s.TopModel, s.TopModelSales),
		fmt.Sprintf("Top Region: %s", s.TopRegion),
		fmt.Sprintf("Dominant Fuel Type: %s", s.TopFuel),
		fmt.Sprintf("Most Popular Color: %s", s.TopColor),
		fmt.Sprintf("Automatic Transmission: %.1f%%", s.AutomaticPct),
	}
}
