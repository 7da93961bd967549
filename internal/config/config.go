package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the two yearly source files
type InputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" default:"."`
	FirstPath   string `yaml:"first_path" envconfig:"FIRST_PATH" default:"Prenoms2003.csv" validate:"required"`
	FirstLabel  string `yaml:"first_label" envconfig:"FIRST_LABEL" default:"2003" validate:"required"`
	SecondPath  string `yaml:"second_path" envconfig:"SECOND_PATH" default:"Prenoms2004.csv" validate:"required"`
	SecondLabel string `yaml:"second_label" envconfig:"SECOND_LABEL" default:"2004" validate:"required"`
	Delimiter   string `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"required,delimiter"`
	Encoding    string `yaml:"encoding" envconfig:"ENCODING" default:"utf-8" validate:"required,encoding"`
}

// OutputConfig describes the exported files
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" default:"."`
	MergedPath   string `yaml:"merged_path" envconfig:"MERGED_PATH" default:"Prenoms2003-2004.csv" validate:"required"`
	GroupedPath  string `yaml:"grouped_path" envconfig:"GROUPED_PATH" default:"Prenoms2003-2004_Jointure.csv" validate:"required"`
	WorkbookPath string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH"`
	Delimiter    string `yaml:"delimiter" envconfig:"DELIMITER" default:";" validate:"required,delimiter"`
	Encoding     string `yaml:"encoding" envconfig:"ENCODING" default:"utf-8" validate:"required,encoding"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"false"`
}

// ReportConfig controls the ranking report
type ReportConfig struct {
	TopN        int    `yaml:"top_n" envconfig:"TOP_N" default:"10" validate:"min=1"`
	MergedLabel string `yaml:"merged_label" envconfig:"MERGED_LABEL" default:"2003-2004" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"prenoms_processing.log"`
}

// TelemetryConfig enables the optional trace and metrics files.
// Empty paths disable the corresponding signal.
type TelemetryConfig struct {
	TraceFile   string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// an absent file means defaults and environment only
		case err != nil:
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		default:
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	// a negative ratio marks sample_ratio as absent from the file
	cfg := Config{Telemetry: TelemetryConfig{SampleRatio: -1}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config.
// An explicitly set environment variable wins; otherwise a value from the
// file replaces the envconfig default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick := func(dst *string, fileValue, envName string) {
		if _, set := os.LookupEnv(EnvPrefix + "_" + envName); set || fileValue == "" {
			return
		}
		*dst = fileValue
	}

	pick(&envConfig.Input.Dir, fileConfig.Input.Dir, "INPUT_DIR")
	pick(&envConfig.Input.FirstPath, fileConfig.Input.FirstPath, "INPUT_FIRST_PATH")
	pick(&envConfig.Input.FirstLabel, fileConfig.Input.FirstLabel, "INPUT_FIRST_LABEL")
	pick(&envConfig.Input.SecondPath, fileConfig.Input.SecondPath, "INPUT_SECOND_PATH")
	pick(&envConfig.Input.SecondLabel, fileConfig.Input.SecondLabel, "INPUT_SECOND_LABEL")
	pick(&envConfig.Input.Delimiter, fileConfig.Input.Delimiter, "INPUT_DELIMITER")
	pick(&envConfig.Input.Encoding, fileConfig.Input.Encoding, "INPUT_ENCODING")

	pick(&envConfig.Output.Dir, fileConfig.Output.Dir, "OUTPUT_DIR")
	pick(&envConfig.Output.MergedPath, fileConfig.Output.MergedPath, "OUTPUT_MERGED_PATH")
	pick(&envConfig.Output.GroupedPath, fileConfig.Output.GroupedPath, "OUTPUT_GROUPED_PATH")
	pick(&envConfig.Output.WorkbookPath, fileConfig.Output.WorkbookPath, "OUTPUT_WORKBOOK_PATH")
	pick(&envConfig.Output.Delimiter, fileConfig.Output.Delimiter, "OUTPUT_DELIMITER")
	pick(&envConfig.Output.Encoding, fileConfig.Output.Encoding, "OUTPUT_ENCODING")
	if _, set := os.LookupEnv(EnvPrefix + "_OUTPUT_BOM_PREFIX"); !set && fileConfig.Output.BOMPrefix {
		envConfig.Output.BOMPrefix = true
	}

	if _, set := os.LookupEnv(EnvPrefix + "_REPORT_TOP_N"); !set && fileConfig.Report.TopN > 0 {
		envConfig.Report.TopN = fileConfig.Report.TopN
	}
	pick(&envConfig.Report.MergedLabel, fileConfig.Report.MergedLabel, "REPORT_MERGED_LABEL")

	pick(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	pick(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	pick(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	pick(&envConfig.Telemetry.TraceFile, fileConfig.Telemetry.TraceFile, "TELEMETRY_TRACE_FILE")
	pick(&envConfig.Telemetry.MetricsFile, fileConfig.Telemetry.MetricsFile, "TELEMETRY_METRICS_FILE")
	if _, set := os.LookupEnv(EnvPrefix + "_TELEMETRY_SAMPLE_RATIO"); !set && fileConfig.Telemetry.SampleRatio >= 0 {
		envConfig.Telemetry.SampleRatio = fileConfig.Telemetry.SampleRatio
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	// logs are always JSON; unknown outputs fall back to both
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	v := validator.New()
	if err := v.RegisterValidation("delimiter", isDelimiter); err != nil {
		return err
	}
	if err := v.RegisterValidation("encoding", isEncoding); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// isDelimiter accepts exactly one rune that encoding/csv can use as a separator
func isDelimiter(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

// isEncoding accepts any WHATWG encoding label
func isEncoding(fl validator.FieldLevel) bool {
	_, err := htmlindex.Get(fl.Field().String())
	return err == nil
}

// InputDelimiter returns the input field separator as a rune
func (c *Config) InputDelimiter() rune {
	return firstRune(c.Input.Delimiter, ',')
}

// OutputDelimiter returns the export field separator as a rune
func (c *Config) OutputDelimiter() rune {
	return firstRune(c.Output.Delimiter, ';')
}

func firstRune(s string, fallback rune) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return fallback
	}
	return r
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG_FILE")); explicit != "" {
		return explicit
	}

	// Check for config file in common locations
	locations := []string{
		"prenoms.yaml",
		"configs/prenoms.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:         ".",
			FirstPath:   "Prenoms2003.csv",
			FirstLabel:  "2003",
			SecondPath:  "Prenoms2004.csv",
			SecondLabel: "2004",
			Delimiter:   ",",
			Encoding:    DefaultEncoding,
		},
		Output: OutputConfig{
			Dir:         ".",
			MergedPath:  "Prenoms2003-2004.csv",
			GroupedPath: "Prenoms2003-2004_Jointure.csv",
			Delimiter:   ";",
			Encoding:    DefaultEncoding,
		},
		Report: ReportConfig{
			TopN:        DefaultTopN,
			MergedLabel: "2003-2004",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			SampleRatio: 1,
		},
	}
}
