package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// InputPath is the dataset base path; the loader tries it with and
	// without a .csv extension.
	InputPath string `mapstructure:"input_path" yaml:"input_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// ReferenceYear anchors the vehicle-age computation. 0 means derive it
	// from the maximum year present in the data.
	ReferenceYear int `mapstructure:"reference_year" yaml:"reference_year"`

	// SnapshotTable is the relation name of the SQLite snapshot.
	SnapshotTable string `mapstructure:"snapshot_table" yaml:"snapshot_table"`

	SkipDashboard bool `mapstructure:"skip_dashboard" yaml:"skip_dashboard"`
	SkipPDF       bool `mapstructure:"skip_pdf" yaml:"skip_pdf"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".salescope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_path", "vehicle_sales_data")
	v.SetDefault("output_dir", "sales_analysis_results")
	v.SetDefault("reference_year", 0)
	v.SetDefault("snapshot_table", "vehicle_sales")
	v.SetDefault("skip_dashboard", false)
	v.SetDefault("skip_pdf", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".salescope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
