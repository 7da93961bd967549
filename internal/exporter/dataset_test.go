package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prenomscli/internal/config"
	"prenomscli/internal/dataprocessing"
	"prenomscli/internal/errors"
	"prenomscli/pkg/contracts/domain"
)

func newTestExporter(t *testing.T, outDir string) *DatasetExporter {
	t.Helper()
	cfg := config.Default().Output
	return NewDatasetExporter(cfg, &config.Paths{OutputDir: outDir}, slog.Default())
}

func TestDatasetExporter_ExportDataset(t *testing.T) {
	outDir := t.TempDir()
	exp := newTestExporter(t, outDir)

	ds := &domain.Dataset{Records: []domain.Record{
		{Sex: domain.SexMale, Name: "Jean", Count: 5},
		{Sex: domain.SexFemale, Name: "Marie", Count: 7},
		{Sex: domain.SexMale, Name: "Jean", Count: 3},
	}}

	require.NoError(t, exp.ExportDataset(context.Background(), ds, "Prenoms2003-2004.csv"))

	got, err := os.ReadFile(filepath.Join(outDir, "Prenoms2003-2004.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sexe;Prenom;Nombre\nM;Jean;5\nF;Marie;7\nM;Jean;3\n", string(got))
}

func TestDatasetExporter_ExportTotals(t *testing.T) {
	outDir := t.TempDir()
	exp := newTestExporter(t, outDir)

	totals := []domain.NameTotal{{Name: "Jean", Total: 8}, {Name: "Marie", Total: 7}}
	require.NoError(t, exp.ExportTotals(context.Background(), totals, "Prenoms2003-2004_Jointure.csv"))

	got, err := os.ReadFile(filepath.Join(outDir, "Prenoms2003-2004_Jointure.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Prenom;Nombre\nJean;8\nMarie;7\n", string(got))
}

func TestDatasetExporter_EmptyDataset(t *testing.T) {
	outDir := t.TempDir()
	exp := newTestExporter(t, outDir)

	require.NoError(t, exp.ExportDataset(context.Background(), nil, "empty.csv"))

	got, err := os.ReadFile(filepath.Join(outDir, "empty.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sexe;Prenom;Nombre\n", string(got))
}

func TestDatasetExporter_RoundTrip(t *testing.T) {
	outDir := t.TempDir()
	exp := newTestExporter(t, outDir)

	ds := &domain.Dataset{Records: []domain.Record{
		{Sex: domain.SexMale, Name: "Jean-Luc", Count: 12},
		{Sex: domain.SexFemale, Name: "Zoé", Count: 7},
		{Sex: domain.SexUnknown, Name: "Camille", Count: 2},
		{Sex: domain.SexFemale, Name: "Anne;Marie", Count: 1},
	}}
	path := filepath.Join(outDir, "merged.csv")
	require.NoError(t, exp.ExportDataset(context.Background(), ds, path))

	loader := dataprocessing.NewLoader(slog.Default())
	reloaded, err := loader.Load(context.Background(), path, dataprocessing.LoadOptions{
		Delimiter: DefaultDelimiter,
		Schema:    dataprocessing.CanonicalSchema,
	})
	require.NoError(t, err)

	assert.Equal(t, ds.Records, reloaded.Records)
	assert.Equal(t, 1, reloaded.UnmappedSex)
}

func TestDatasetExporter_GroupedRoundTrip(t *testing.T) {
	outDir := t.TempDir()
	exp := newTestExporter(t, outDir)

	records := []domain.Record{
		{Sex: domain.SexMale, Name: "Jean", Count: 5},
		{Sex: domain.SexFemale, Name: "Marie", Count: 7},
		{Sex: domain.SexMale, Name: "Jean", Count: 3},
	}
	table := dataprocessing.GroupTable(records)
	path := filepath.Join(outDir, "grouped.csv")
	require.NoError(t, exp.ExportTotals(context.Background(), table, path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Prenom;Nombre\nJean;8\nMarie;7\n", string(got))
}

func TestDatasetExporter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	exp := newTestExporter(t, dir)

	// a directory cannot be opened for writing
	err := exp.ExportDataset(context.Background(), &domain.Dataset{}, dir)
	require.Error(t, err)

	assert.True(t, errors.IsType(err, errors.ErrTypeExport))
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.False(t, appErr.Fatal())
	assert.Equal(t, dir, appErr.Context[errors.ContextFile])
}

func TestNewDatasetExporter_Delimiter(t *testing.T) {
	cfg := config.Default().Output
	cfg.Delimiter = "|"
	outDir := t.TempDir()
	exp := NewDatasetExporter(cfg, &config.Paths{OutputDir: outDir}, nil)

	require.NoError(t, exp.ExportTotals(context.Background(), []domain.NameTotal{{Name: "Jean", Total: 1}}, "t.csv"))

	got, err := os.ReadFile(filepath.Join(outDir, "t.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Prenom|Nombre\nJean|1\n", string(got))
}
