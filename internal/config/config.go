// =============================================================================
// Order Document Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration: where templates live, where results and history go, how
// logging behaves, and which field coercion rules run before a conversion.
//
// CONFIGURATION FILE:
//   config.yaml (path overridable with --config). When the default file is
//   absent the built-in defaults are used, so the tool runs out of the box
//   against ./templates and ./output.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// TemplatesDir is the directory holding the vendor template files.
	// Default: "./templates"
	TemplatesDir string `yaml:"templates_dir"`

	// OutputDir is where generated documents are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// HistoryDB is the sqlite file holding the job history and saved inputs.
	// Default: "./data/history.db"
	HistoryDB string `yaml:"history_db"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Empty disables the
	// file and logs to the console only.
	// Default: "./logs/orderdoc.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// Timezone is used for filename date prefixes and timestamps.
	// Default: "Asia/Seoul"
	Timezone string `yaml:"timezone"`

	// FilenameMaxLength caps generated filenames, in characters.
	// Default: 240
	FilenameMaxLength int `yaml:"filename_max_length"`

	// ResultRetentionDays removes results older than this many days from
	// the output directory on every run. 0 keeps everything.
	ResultRetentionDays int `yaml:"result_retention_days"`

	// InputRetentionHours is how long saved form inputs are kept.
	// Default: 24
	InputRetentionHours int `yaml:"input_retention_hours"`

	// =========================================================================
	// TEMPLATES AND REFERENCE DATA
	// =========================================================================

	Templates TemplateFiles `yaml:"templates"`

	Catalog CatalogConfig `yaml:"catalog"`

	// FieldRules are coercion rules applied to input fields before a
	// conversion, keyed by vendor ("wholesale", "payment").
	FieldRules map[string][]FieldRule `yaml:"field_rules"`
}

// TemplateFiles names the template files inside TemplatesDir.
type TemplateFiles struct {
	WholesaleOrder      string `yaml:"wholesale_order"`
	WholesaleReceipt    string `yaml:"wholesale_receipt"`
	PaymentOptionSample string `yaml:"payment_option_sample"`
}

// CatalogConfig locates the furniture reference catalog.
type CatalogConfig struct {
	// Path to the catalog workbook or CSV file.
	Path string `yaml:"path"`

	// SheetIndex is the 0-based sheet holding the catalog rows.
	// Default: 2 (the third sheet)
	SheetIndex *int `yaml:"sheet_index"`

	// Format is "xlsx" or "csv". Empty selects by file extension.
	Format string `yaml:"format"`
}

// Sheet returns the configured sheet index.
func (c CatalogConfig) Sheet() int {
	if c.SheetIndex == nil {
		return DefaultCatalogSheet
	}
	return *c.SheetIndex
}

// DefaultCatalogSheet is the catalog sheet used when none is configured.
const DefaultCatalogSheet = 2

// =============================================================================
// FIELD RULES
// =============================================================================

// FieldRule defines coercion actions for one input field.
//
// EXAMPLE (YAML):
//
//	field_rules:
//	  wholesale:
//	    - field: phone
//	      actions:
//	        - type: digits_only
//	    - field: payment_amount
//	      actions:
//	        - type: strip_separators
type FieldRule struct {
	// Field is the input field name the rule applies to.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []FieldAction `yaml:"actions"`
}

// FieldAction is a single coercion step.
type FieldAction struct {
	// Type is the action name (see the fieldrules package).
	Type string `yaml:"type"`

	// Value is the action argument, if any.
	Value string `yaml:"value"`

	// Find is the search text for "replace".
	Find string `yaml:"find"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadMainConfig loads the main configuration file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed. A missing file
//     yields an error wrapping fs.ErrNotExist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Load reads configPath. When the file does not exist and allowMissing is
// set, the defaults are returned instead.
func Load(configPath string, allowMissing bool) (*MainConfig, error) {
	cfg, err := LoadMainConfig(configPath)
	if err == nil {
		return cfg, nil
	}
	if allowMissing && errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return nil, err
}

// Default returns the built-in configuration.
func Default() (*MainConfig, error) {
	var config MainConfig
	applyMainConfigDefaults(&config)
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.TemplatesDir == "" {
		config.TemplatesDir = "./templates"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.HistoryDB == "" {
		config.HistoryDB = "./data/history.db"
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/orderdoc.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Timezone == "" {
		config.Timezone = "Asia/Seoul"
	}
	if config.FilenameMaxLength == 0 {
		config.FilenameMaxLength = 240
	}
	if config.InputRetentionHours == 0 {
		config.InputRetentionHours = 24
	}

	if config.Templates.WholesaleOrder == "" {
		config.Templates.WholesaleOrder = "주문내역 body 태그 전체.txt"
	}
	if config.Templates.WholesaleReceipt == "" {
		config.Templates.WholesaleReceipt = "카드영수증 body 태그 전체.txt"
	}
	if config.Templates.PaymentOptionSample == "" {
		config.Templates.PaymentOptionSample = "옵션 여러 개 샘플코드(사은품없음).txt"
	}

	if config.Catalog.Path == "" {
		config.Catalog.Path = filepath.Join(config.TemplatesDir, "하우저 양식 변환.xlsx")
	}
	if config.Catalog.Format == "" {
		if strings.EqualFold(filepath.Ext(config.Catalog.Path), ".csv") {
			config.Catalog.Format = "csv"
		} else {
			config.Catalog.Format = "xlsx"
		}
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if config.FilenameMaxLength < 0 {
		return fmt.Errorf("filename_max_length must be positive, got %d", config.FilenameMaxLength)
	}
	if config.Catalog.Sheet() < 0 {
		return fmt.Errorf("catalog.sheet_index must not be negative, got %d", config.Catalog.Sheet())
	}
	switch config.Catalog.Format {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("catalog.format must be xlsx or csv, got %q", config.Catalog.Format)
	}
	for vendor, rules := range config.FieldRules {
		for i, r := range rules {
			if r.Field == "" {
				return fmt.Errorf("field_rules.%s[%d]: field is required", vendor, i)
			}
		}
	}

	// Create the directories the tool writes into.
	dirs := []string{
		config.OutputDir,
		filepath.Dir(config.HistoryDB),
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// Location returns the configured time zone. If the zone database is
// unavailable, Asia/Seoul falls back to a fixed +09:00 zone.
func (c *MainConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// TemplatePath joins a template file name onto TemplatesDir.
func (c *MainConfig) TemplatePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.TemplatesDir, name)
}
