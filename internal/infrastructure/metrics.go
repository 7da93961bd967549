package infrastructure

import (
	"context"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during a run
type PipelineMetrics struct {
	recordsLoaded    metric.Int64Counter
	unmappedSexCodes metric.Int64Counter
	exports          metric.Int64Counter
	stageDuration    metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on the given meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	recordsLoaded, err := meter.Int64Counter(
		"prenoms_records_loaded_total",
		metric.WithDescription("Total number of records loaded per source"),
	)
	if err != nil {
		return nil, err
	}

	unmappedSexCodes, err := meter.Int64Counter(
		"prenoms_unmapped_sex_codes_total",
		metric.WithDescription("Records whose sex code was neither 1 nor 2"),
	)
	if err != nil {
		return nil, err
	}

	exports, err := meter.Int64Counter(
		"prenoms_exports_total",
		metric.WithDescription("Export attempts by file and outcome"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"prenoms_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		recordsLoaded:    recordsLoaded,
		unmappedSexCodes: unmappedSexCodes,
		exports:          exports,
		stageDuration:    stageDuration,
	}, nil
}

// RecordLoad counts the records and unmapped sex codes of a loaded source
func (m *PipelineMetrics) RecordLoad(ctx context.Context, label string, records, unmapped int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", label))
	m.recordsLoaded.Add(ctx, int64(records), attrs)
	m.unmappedSexCodes.Add(ctx, int64(unmapped), attrs)
}

// RecordExport counts an export attempt
func (m *PipelineMetrics) RecordExport(ctx context.Context, path string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.exports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("file", filepath.Base(path)),
		attribute.String("outcome", outcome),
	))
}

// ObserveStage records the duration of a pipeline stage started at start
func (m *PipelineMetrics) ObserveStage(ctx context.Context, stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)))
}
