// =============================================================================
// OTM Order Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// three layers, later layers winning:
//   1. YAML file (ordergen.yaml)
//   2. Environment (.env is loaded first and never overrides real variables)
//   3. Command-line flags (applied by the cmd package)
//
// ENVIRONMENT VARIABLES:
//   OTM_URL, OTM_USER, OTM_PASS  - submission endpoint and credentials
//   APP_PASS                     - passcode required before any command runs
//   ORDERGEN_LOG_LEVEL           - debug, info, warn, error
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when --config is not given.
// A missing file at this path is not an error.
const DefaultPath = "ordergen.yaml"

const (
	EnvURL      = "OTM_URL"
	EnvUser     = "OTM_USER"
	EnvPassword = "OTM_PASS"
	EnvPasscode = "APP_PASS"
	EnvLogLevel = "ORDERGEN_LOG_LEVEL"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DOCUMENT SETTINGS
	// =========================================================================

	// Domain is the GID domain written on every identifier.
	// Default: "THG"
	Domain string `yaml:"domain"`

	// Currency is used when a line does not carry its own.
	// Default: "USD"
	Currency string `yaml:"currency"`

	// SuffixInGID appends "_R{n}" to the order identifier.
	SuffixInGID bool `yaml:"suffix_gid"`

	// SuffixInLineIDs appends "_R{n}" to derived sales line identifiers.
	SuffixInLineIDs bool `yaml:"suffix_line_ids"`

	// PurchaseHeader overrides the purchase-order header defaults.
	PurchaseHeader xmlwriter.PurchaseHeader `yaml:"purchase_header"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir receives the ZIP archive, reports and optional XML files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveNameFormat defines the archive file name.
	// Placeholders:
	//   {prefix}    - otm_orders or otm_orders_import
	//   {timestamp} - Unix seconds of the run
	//   {uuid}      - the run id
	// Default: "{prefix}_{timestamp}.zip"
	ArchiveNameFormat string `yaml:"archive_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SUBMISSION SETTINGS
	// =========================================================================

	Endpoint EndpointConfig `yaml:"endpoint"`

	// DryRun builds documents without posting them.
	DryRun bool `yaml:"dry_run"`

	// Passcode is read from APP_PASS only.
	Passcode string `yaml:"-"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	CSV  CSVSettings  `yaml:"csv"`
	XLSX XLSXSettings `yaml:"xlsx"`

	// ColumnRules are applied to imported cells before orders are built.
	ColumnRules []TransformationRule `yaml:"column_rules"`

	// =========================================================================
	// GENERATOR SETTINGS
	// =========================================================================

	Generator GeneratorConfig `yaml:"generator"`
}

// EndpointConfig describes the submission target.
type EndpointConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Gzip compresses request bodies.
	Gzip bool `yaml:"gzip"`

	// Timeout bounds a single POST.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the field separator.
	// Common values: "," (comma), "|" (pipe), "\t" or "tab", ";"
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XLSXSettings contains settings for reading workbooks.
type XLSXSettings struct {
	// Sheet is the worksheet holding the order table.
	// Default: the first sheet.
	Sheet string `yaml:"sheet"`
}

// GeneratorConfig holds the defaults for random order generation. Every
// range is inclusive.
type GeneratorConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`

	MinLines int `yaml:"min_lines"`
	MaxLines int `yaml:"max_lines"`
	MinQty   int `yaml:"min_qty"`
	MaxQty   int `yaml:"max_qty"`
	MinValue int `yaml:"min_value"`
	MaxValue int `yaml:"max_value"`

	SalesBaseID    string `yaml:"sales_base_id"`
	PurchaseBaseID string `yaml:"purchase_base_id"`

	// ShipFrom is the shipping DC for sales orders.
	ShipFrom string `yaml:"ship_from"`

	// SalesShipTo is the customer pool for sales orders.
	SalesShipTo []string `yaml:"sales_ship_to"`

	// PurchaseShipTo lists receiving DCs; the first entry is used.
	PurchaseShipTo []string `yaml:"purchase_ship_to"`

	Items     []string `yaml:"items"`
	Suppliers []string `yaml:"suppliers"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines the transformations applied to one import column.
type TransformationRule struct {
	// Field is the column header, matched case-insensitively.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of SupportedActions.
	Type string `yaml:"type"`

	// Value is the parameter for the transformation:
	//   - "prepend_string" / "append_string": the string to add
	//   - "pad_zeros_to_length"              : the target length, e.g. "12"
	//   - "replace" / "regex_replace"        : the replacement
	Value string `yaml:"value"`

	// Find is the substring or pattern for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable maps input values to output values for "lookup".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// SupportedActions lists the transformation types understood by the importer.
var SupportedActions = []string{
	"trim",
	"uppercase",
	"lowercase",
	"prepend_string",
	"append_string",
	"pad_zeros_to_length",
	"replace",
	"regex_replace",
	"lookup",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Domain:            "THG",
		Currency:          "USD",
		OutputDir:         "./output",
		ArchiveNameFormat: "{prefix}_{timestamp}.zip",
		LogLevel:          "info",
		Endpoint: EndpointConfig{
			Timeout: 60 * time.Second,
		},
		CSV: CSVSettings{
			Delimiter: ",",
		},
		Generator: GeneratorConfig{
			Count:          2,
			Seed:           42,
			MinLines:       2,
			MaxLines:       3,
			MinQty:         500,
			MaxQty:         3000,
			MinValue:       1000,
			MaxValue:       15000,
			SalesBaseID:    "SO_09000-1128",
			PurchaseBaseID: "PO_09000-1128",
			ShipFrom:       "110",
			SalesShipTo:    []string{"10000000000013", "10000000000027"},
			PurchaseShipTo: []string{"110"},
			Items:          []string{"400000002438186", "300000005438196"},
			Suppliers:      []string{"300000016179177", "300000016179200"},
		},
	}
}

// Load loads the configuration from a YAML file and applies environment
// overrides.
//
// The file is decoded over Default(), so keys missing from the file keep
// their defaults and explicit zeros (seed: 0, min_value: 0) are kept.
//
// PARAMETERS:
//   - path: The configuration file. An empty path, or a missing file at
//     DefaultPath, yields the defaults.
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env style files into the process
// environment. Existing variables are never overridden and missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// applyEnv copies environment overrides into cfg.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvURL); ok && v != "" {
		cfg.Endpoint.URL = v
	}
	if v, ok := os.LookupEnv(EnvUser); ok && v != "" {
		cfg.Endpoint.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok && v != "" {
		cfg.Endpoint.Password = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	cfg.Passcode = os.Getenv(EnvPasscode)
}

// applyDefaults restores defaults for text and list options the file set
// to blank or null. Numbers are left alone since zero is a valid value.
func applyDefaults(cfg *Config) {
	def := Default()

	setString(&cfg.Domain, def.Domain)
	setString(&cfg.Currency, def.Currency)
	setString(&cfg.OutputDir, def.OutputDir)
	setString(&cfg.ArchiveNameFormat, def.ArchiveNameFormat)
	setString(&cfg.LogLevel, def.LogLevel)
	setString(&cfg.CSV.Delimiter, def.CSV.Delimiter)

	g, dg := &cfg.Generator, def.Generator
	setString(&g.SalesBaseID, dg.SalesBaseID)
	setString(&g.PurchaseBaseID, dg.PurchaseBaseID)
	setString(&g.ShipFrom, dg.ShipFrom)
	setList(&g.SalesShipTo, dg.SalesShipTo)
	setList(&g.PurchaseShipTo, dg.PurchaseShipTo)
	setList(&g.Items, dg.Items)
	setList(&g.Suppliers, dg.Suppliers)
}

func setString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

func setList(field *[]string, fallback []string) {
	if len(*field) == 0 {
		*field = fallback
	}
}

// Validate checks values that defaults cannot repair.
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	if strings.TrimSpace(cfg.Domain) == "" {
		return fmt.Errorf("domain must not be blank")
	}
	if cfg.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint.timeout must not be negative")
	}

	for i, rule := range cfg.ColumnRules {
		if strings.TrimSpace(rule.Field) == "" {
			return fmt.Errorf("column_rules[%d]: field is required", i)
		}
		for j, action := range rule.Actions {
			if !isSupportedAction(action.Type) {
				return fmt.Errorf("column_rules[%d].actions[%d]: unsupported type %q", i, j, action.Type)
			}
		}
	}

	return nil
}

func isSupportedAction(t string) bool {
	for _, s := range SupportedActions {
		if s == t {
			return true
		}
	}
	return false
}
