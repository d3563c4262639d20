package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/salescope/salescope-cli/internal/config"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "Salescope: one-shot vehicle sales analysis and report generator",
	Long: `Salescope loads a vehicle sales dataset, derives per-record metrics,
computes summary tables and descriptive statistics, and emits a report bundle:
CSV export, SQLite snapshot, Excel workbook, dashboards, and a PDF report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.salescope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// effectiveConfig returns the loaded configuration, falling back to a fresh
// load when initialization was skipped.
func effectiveConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	return cfgpkg.Load(cfgFile)
}
