package sink

import (
	"database/sql"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
	"github.com/salescope/salescope-cli/internal/stats"
)

// Workbook sheet names.
const (
	sheetRaw           = "Raw_Data"
	sheetTopModels     = "Top_Models"
	sheetRegions       = "Regional_Performance"
	sheetFuel          = "Fuel_Analysis"
	sheetYearly        = "Yearly_Trends"
	sheetTransmissions = "Transmission_by_Region"
	sheetDescribe      = "Summary_Statistics"
	sheetCorrelation   = "Correlation_Matrix"
)

// WriteWorkbook writes the comprehensive multi-sheet analysis workbook:
// the enriched table, each summary table, descriptive statistics, and the
// correlation matrix.
func WriteWorkbook(path string, t *dataset.Table, s *aggregate.Summaries, res *stats.Results) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRaw); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRawSheet(f, t); err != nil {
		return err
	}
	if err := writeRows(f, sheetTopModels, [][]any{{"Model", "Total_Sales", "Avg_Price", "Transaction_Count"}}, func() (rows [][]any) {
		for _, r := range s.TopModels {
			rows = append(rows, []any{r.Model, r.TotalSales, r.AvgPrice, r.Count})
		}
		return rows
	}()); err != nil {
		return err
	}
	if err := writeRows(f, sheetRegions, [][]any{{"Region", "Total_Sales", "Avg_Price", "Avg_Engine", "Transaction_Count", "High_Sales_Count"}}, func() (rows [][]any) {
		for _, r := range s.Regions {
			rows = append(rows, []any{r.Region, r.TotalSales, r.AvgPrice, r.AvgEngine, r.Count, r.HighCount})
		}
		return rows
	}()); err != nil {
		return err
	}
	if err := writeRows(f, sheetFuel, [][]any{{"Fuel_Type", "Total_Sales", "Avg_Price", "Transaction_Count"}}, func() (rows [][]any) {
		for _, r := range s.Fuels {
			rows = append(rows, []any{r.FuelType, r.TotalSales, r.AvgPrice, r.Count})
		}
		return rows
	}()); err != nil {
		return err
	}
	if err := writeRows(f, sheetYearly, [][]any{{"Year", "Total_Sales", "Avg_Price", "Avg_Mileage", "Avg_Engine", "Transaction_Count"}}, func() (rows [][]any) {
		for _, r := range s.Years {
			rows = append(rows, []any{r.Year, r.TotalSales, r.AvgPrice, r.AvgMileage, r.AvgEngine, r.Count})
		}
		return rows
	}()); err != nil {
		return err
	}
	if err := writeRows(f, sheetTransmissions, [][]any{{"Region", "Transmission", "Count", "Pct"}}, func() (rows [][]any) {
		for _, r := range s.Transmissions {
			rows = append(rows, []any{r.Region, r.Transmission, r.Count, r.Pct})
		}
		return rows
	}()); err != nil {
		return err
	}
	if err := writeDescribeSheet(f, t); err != nil {
		return err
	}
	if err := writeCorrelationSheet(f, res.Correlation); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRawSheet(f *excelize.File, t *dataset.Table) error {
	header := make([]any, 0, len(dataset.Columns)+len(dataset.DerivedColumns))
	for _, c := range append(append([]string{}, dataset.Columns...), dataset.DerivedColumns...) {
		header = append(header, c)
	}
	if err := setRow(f, sheetRaw, 1, header); err != nil {
		return err
	}
	for i := range t.Records {
		r := &t.Records[i]
		row := []any{
			r.Model, cellInt(r.Year), r.Region, r.Color, r.FuelType, r.Transmission,
			cellFloat(r.EngineSize), cellFloat(r.MileageKM), cellFloat(r.PriceUSD),
			cellInt(r.SalesVolume), r.Classification,
			cellFloat(r.PricePerKM), cellInt(r.VehicleAge), r.Segment,
		}
		if err := setRow(f, sheetRaw, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header [][]any, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	n := 1
	for _, h := range header {
		if err := setRow(f, sheet, n, h); err != nil {
			return err
		}
		n++
	}
	for _, r := range rows {
		if err := setRow(f, sheet, n, r); err != nil {
			return err
		}
		n++
	}
	return nil
}

func writeDescribeSheet(f *excelize.File, t *dataset.Table) error {
	rows := [][]any{}
	for _, d := range stats.Describe(t) {
		switch d.Kind {
		case "numeric":
			rows = append(rows, []any{d.Column, d.Kind, d.Count, d.Mean, d.Std, d.Min, d.Max, nil, nil})
		default:
			rows = append(rows, []any{d.Column, d.Kind, d.Count, nil, nil, nil, nil, d.Unique, d.Top})
		}
	}
	return writeRows(f, sheetDescribe,
		[][]any{{"Column", "Kind", "Count", "Mean", "Std", "Min", "Max", "Unique", "Top"}}, rows)
}

func writeCorrelationSheet(f *excelize.File, m stats.CorrMatrix) error {
	header := append([]any{""}, toAnys(m.Columns)...)
	rows := [][]any{}
	for i, col := range m.Columns {
		row := []any{col}
		for _, v := range m.Values[i] {
			row = append(row, stats.Round3(v))
		}
		rows = append(rows, row)
	}
	return writeRows(f, sheetCorrelation, [][]any{header}, rows)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// cellFloat and cellInt map missing values to blank cells.
func cellFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func cellInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func toAnys(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
