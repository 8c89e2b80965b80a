// Package config loads and validates pipeline configuration.
//
// Configuration comes from three layers, later layers winning:
// built-in defaults, an optional YAML file, and SALES_-prefixed
// environment variables. Stages receive resolved values, never the
// Config itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourcesConfig names the three input files. A missing file is a
// source-level diagnostic at run time, not a configuration error.
type SourcesConfig struct {
	SalesCSV     string `yaml:"sales_csv" envconfig:"SALES_CSV" validate:"required"`
	ProductsJSON string `yaml:"products_json" envconfig:"PRODUCTS_JSON" validate:"required"`
	RegionsXLSX  string `yaml:"regions_xlsx" envconfig:"REGIONS_XLSX" validate:"required"`
}

// OutputConfig contains report and database destinations.
type OutputConfig struct {
	ReportDir    string `yaml:"report_dir" envconfig:"REPORT_DIR" validate:"required"`
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration. configFile may be empty, in which case
// only defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	// Environment variables override defaults and file values. Unset
	// variables leave the current value untouched.
	if err := envconfig.Process("SALES", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			SalesCSV:     "data/sales_data.csv",
			ProductsJSON: "data/product_metadata.json",
			RegionsXLSX:  "data/region_info.xlsx",
		},
		Output: OutputConfig{
			ReportDir:    "output/reports",
			DatabaseFile: "output/sales.db",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/pipeline.log",
		},
	}
}

// Validate checks the configuration with struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EnsureOutputDirs creates the report, database, and log directories.
func (c *Config) EnsureOutputDirs() error {
	dirs := []string{
		c.Output.ReportDir,
		filepath.Dir(c.Output.DatabaseFile),
	}
	if c.Logging.Output != "stdout" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
