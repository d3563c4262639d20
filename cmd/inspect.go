package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
	"github.com/salescope/salescope-cli/internal/enrich"
	"github.com/salescope/salescope-cli/internal/report"
	"github.com/salescope/salescope-cli/internal/stats"
)

var inspectRefYear int

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Load the dataset and print overview, quality findings, and statistics",
	Long: `Inspect runs the loader, the metric deriver, the aggregation engine, and
the statistical analyzer, then prints the results to stdout. No report
artifacts are written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		input := c.InputPath
		if len(args) == 1 {
			input = args[0]
		}
		path, err := dataset.Resolve(input)
		if err != nil {
			return err
		}
		t, err := dataset.Load(path)
		if err != nil {
			return err
		}
		refYear := inspectRefYear
		if refYear == 0 {
			refYear = c.ReferenceYear
		}
		resolved := enrich.ReferenceYear(t, refYear)
		enrich.Derive(t, resolved)

		summaries := aggregate.Summarize(t)
		results := stats.Analyze(t)
		printInspect(path, t, resolved, summaries, results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectRefYear, "ref-year", 0, "reference year for vehicle age (0 = max year in data)")
}

func printInspect(path string, t *dataset.Table, refYear int, s *aggregate.Summaries, res *stats.Results) {
	section("DATA OVERVIEW")
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Records: %d\n", len(t.Records))
	fmt.Printf("Total sales volume: %d\n", t.TotalSalesVolume())
	fmt.Printf("Reference year: %d\n", refYear)
	if n := t.Quality.InvalidTotal(); n > 0 {
		fmt.Printf("Data quality: %d invalid cells coerced to missing\n", n)
		for col, cnt := range t.Quality.Invalid {
			fmt.Printf("  %d of %d rows had an invalid %s\n", cnt, t.Quality.Rows, col)
		}
	}

	section("TOP MODELS")
	for _, r := range s.TopModels {
		fmt.Printf("%-10s total=%d avg_price=$%.0f n=%d\n", r.Model, r.TotalSales, r.AvgPrice, r.Count)
	}

	section("REGIONAL PERFORMANCE")
	for _, r := range s.Regions {
		fmt.Printf("%-15s total=%d avg_price=$%.0f high=%d n=%d\n", r.Region, r.TotalSales, r.AvgPrice, r.HighCount, r.Count)
	}

	section("CORRELATION MATRIX")
	fmt.Printf("%-22s", "")
	for _, c := range res.Correlation.Columns {
		fmt.Printf("%14s", c)
	}
	fmt.Println()
	for i, c := range res.Correlation.Columns {
		fmt.Printf("%-22s", c)
		for _, v := range res.Correlation.Values[i] {
			fmt.Printf("%14.3f", stats.Round3(v))
		}
		fmt.Println()
	}

	section("REGRESSION: PRICE VS MILEAGE")
	if res.Regression.Skipped {
		fmt.Printf("Skipped: %s\n", res.Regression.Reason)
	} else {
		fmt.Printf("R-squared: %.3f\n", res.Regression.R2)
		fmt.Printf("P-value: %.4f\n", res.Regression.PValue)
		fmt.Printf("Slope: %.3f (price change per km)\n", res.Regression.Slope)
	}

	section("T-TEST: HIGH VS LOW SALES PRICES")
	if res.PriceTTest.Skipped {
		fmt.Printf("Skipped: %s\n", res.PriceTTest.Reason)
	} else {
		fmt.Printf("T-statistic: %.3f, P-value: %.3f\n", res.PriceTTest.T, res.PriceTTest.P)
		if res.PriceTTest.Significant {
			fmt.Println("→ Significant difference in prices")
		} else {
			fmt.Println("→ No significant difference")
		}
	}

	if !res.EngineTrend.Skipped {
		section("ENGINE SIZE TREND")
		fmt.Printf("%d: %.2fL → %d: %.2fL\n",
			res.EngineTrend.FirstYear, res.EngineTrend.FirstMean,
			res.EngineTrend.LastYear, res.EngineTrend.LastMean)
	}

	sum := report.Build("", t, s)
	section("KEY FINDINGS")
	for _, line := range sum.Lines() {
		fmt.Printf("• %s\n", line)
	}
}

func section(title string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", 40))
}
