// Package config provides configuration management for the prenoms command.
// Every setting has a default that reproduces the fixed run over
// Prenoms2003.csv and Prenoms2004.csv, so no configuration is required.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file: $PRENOMS_CONFIG_FILE, ./prenoms.yaml or ./configs/prenoms.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// Variables are named PRENOMS_<SECTION>_<KEY>:
//
//	PRENOMS_INPUT_DIR=/data/insee
//	PRENOMS_INPUT_ENCODING=latin1
//	PRENOMS_OUTPUT_DELIMITER=;
//	PRENOMS_REPORT_TOP_N=20
//	PRENOMS_TELEMETRY_METRICS_FILE=prenoms.prom
//
// # Path Management
//
// GetPaths resolves every file of a run against the working directory and
// the configured input and output directories:
//
//	paths, err := config.GetPaths(cfg)
//	merged := paths.MergedCSV
//
// # Validation
//
// Load rejects delimiters that are not a single character usable by
// encoding/csv, encodings unknown to golang.org/x/text, a non-positive
// ranking size and unknown log levels.
package config
