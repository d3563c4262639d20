package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope-cli/internal/logger"
	"github.com/salescope/salescope-cli/internal/pipeline"
)

var (
	runInput         string
	runOutputDir     string
	runRefYear       int
	runSkipDashboard bool
	runSkipPDF       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline and write all report artifacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		if runInput != "" {
			c.InputPath = runInput
		}
		if runOutputDir != "" {
			c.OutputDir = runOutputDir
		}
		if cmd.Flags().Changed("ref-year") {
			c.ReferenceYear = runRefYear
		}
		if cmd.Flags().Changed("skip-dashboard") {
			c.SkipDashboard = runSkipDashboard
		}
		if cmd.Flags().Changed("skip-pdf") {
			c.SkipPDF = runSkipPDF
		}

		log := logger.New(debug)
		res, err := pipeline.Run(cmd.Context(), c, log)
		if err != nil {
			return err
		}

		fmt.Printf("\n✓ Analyzed %d records (run %s)\n", res.Rows, res.RunID)
		fmt.Printf("✓ Outputs saved in '%s':\n", c.OutputDir)
		for _, a := range res.Artifacts {
			fmt.Printf("  %s\n", a)
		}
		for _, w := range res.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input dataset path (tried with and without .csv)")
	runCmd.Flags().StringVarP(&runOutputDir, "out-dir", "o", "", "output directory for report artifacts")
	runCmd.Flags().IntVar(&runRefYear, "ref-year", 0, "reference year for vehicle age (0 = max year in data)")
	runCmd.Flags().BoolVar(&runSkipDashboard, "skip-dashboard", false, "skip dashboard rendering (HTML and PNG)")
	runCmd.Flags().BoolVar(&runSkipPDF, "skip-pdf", false, "skip the PDF report")
}
