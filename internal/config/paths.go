package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the file paths of a run.
// Relative file names are resolved against the configured directories,
// which themselves default to the working directory.
type Paths struct {
	WorkDir   string
	InputDir  string
	OutputDir string

	FirstInput  string
	SecondInput string

	MergedCSV   string
	GroupedCSV  string
	WorkbookXLS string // empty when the workbook export is disabled

	LogFile     string
	TraceFile   string
	MetricsFile string
}

// GetPaths resolves every path of the configuration
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	inputDir := resolve(wd, cfg.Input.Dir)
	outputDir := resolve(wd, cfg.Output.Dir)

	paths := &Paths{
		WorkDir:     wd,
		InputDir:    inputDir,
		OutputDir:   outputDir,
		FirstInput:  resolve(inputDir, cfg.Input.FirstPath),
		SecondInput: resolve(inputDir, cfg.Input.SecondPath),
		MergedCSV:   resolve(outputDir, cfg.Output.MergedPath),
		GroupedCSV:  resolve(outputDir, cfg.Output.GroupedPath),
		LogFile:     resolve(wd, cfg.Logging.FilePath),
	}
	if cfg.Output.WorkbookPath != "" {
		paths.WorkbookXLS = resolve(outputDir, cfg.Output.WorkbookPath)
	}
	if cfg.Telemetry.TraceFile != "" {
		paths.TraceFile = resolve(wd, cfg.Telemetry.TraceFile)
	}
	if cfg.Telemetry.MetricsFile != "" {
		paths.MetricsFile = resolve(wd, cfg.Telemetry.MetricsFile)
	}

	return paths, nil
}

// GetOutputPath returns a file path inside the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return resolve(p.OutputDir, filename)
}

// GetInputPath returns a file path inside the input directory
func (p *Paths) GetInputPath(filename string) string {
	return resolve(p.InputDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.String("work_dir", p.WorkDir),
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("first_input", p.FirstInput),
		slog.String("second_input", p.SecondInput),
		slog.String("merged_csv", p.MergedCSV),
		slog.String("grouped_csv", p.GroupedCSV),
		slog.String("workbook", p.WorkbookXLS),
		slog.String("log_file", p.LogFile))
}

func resolve(base, name string) string {
	if name == "" {
		return base
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(base, name)
}
