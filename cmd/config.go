package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/salescope/salescope-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set salescope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("input_path: %s\n", cfg.InputPath)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("reference_year: %d\n", cfg.ReferenceYear)
		fmt.Printf("snapshot_table: %s\n", cfg.SnapshotTable)
		fmt.Printf("skip_dashboard: %t\n", cfg.SkipDashboard)
		fmt.Printf("skip_pdf: %t\n", cfg.SkipPDF)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "input_path":
			cfg.InputPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "reference_year":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for reference_year: %v", val)
			}
			cfg.ReferenceYear = i
		case "snapshot_table":
			cfg.SnapshotTable = val
		case "skip_dashboard":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for skip_dashboard: %v", val)
			}
			cfg.SkipDashboard = b
		case "skip_pdf":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for skip_pdf: %v", val)
			}
			cfg.SkipPDF = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
