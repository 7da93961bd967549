package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"prenomscli/internal/errors"
	"prenomscli/pkg/contracts/domain"
)

// Schema names the three required columns of an input file and how its sex
// column is decoded. Column names are matched case-sensitively.
type Schema struct {
	Name        string
	SexColumn   string
	NameColumn  string
	CountColumn string
	DecodeSex   func(string) domain.Sex
}

// SourceSchema reads the published yearly files: sexe,prenom,nombre with
// sex coded 1/2.
var SourceSchema = Schema{
	Name:        "source",
	SexColumn:   "sexe",
	NameColumn:  "prenom",
	CountColumn: "nombre",
	DecodeSex:   domain.DecodeSexCode,
}

// CanonicalSchema reads files written by the exporter: Sexe,Prenom,Nombre
// with sex already decoded to M/F.
var CanonicalSchema = Schema{
	Name:        "canonical",
	SexColumn:   domain.ColumnSex,
	NameColumn:  domain.ColumnName,
	CountColumn: domain.ColumnCount,
	DecodeSex:   domain.ParseSex,
}

// Columns returns the required column names in schema order
func (s Schema) Columns() []string {
	return []string{s.SexColumn, s.NameColumn, s.CountColumn}
}

// columnIndex holds the header positions of the required columns
type columnIndex struct {
	sex, name, count int
}

// resolve finds every required column in header and returns the names that
// are missing, in schema order.
func (s Schema) resolve(header []string) (columnIndex, []string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	var missing []string
	lookup := func(col string) int {
		i, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			return -1
		}
		return i
	}

	idx := columnIndex{
		sex:   lookup(s.SexColumn),
		name:  lookup(s.NameColumn),
		count: lookup(s.CountColumn),
	}
	return idx, missing
}

// convert turns table rows into records. It returns the number of rows whose
// sex could not be decoded.
func (s Schema) convert(file string, table *Table, idx columnIndex) ([]domain.Record, int, error) {
	decode := s.DecodeSex
	if decode == nil {
		decode = domain.DecodeSexCode
	}

	records := make([]domain.Record, 0, len(table.Rows))
	unmapped := 0

	for i, row := range table.Rows {
		line := i + 1

		name := cell(row, idx.name)
		if strings.TrimSpace(name) == "" {
			return nil, 0, errors.NewParsingError(
				fmt.Sprintf("error parsing %s: empty %s on data row %d", file, s.NameColumn, line), nil).
				WithContext(errors.ContextFile, file).
				WithContext(errors.ContextRow, line).
				WithContext(errors.ContextColumn, s.NameColumn)
		}

		raw := strings.TrimSpace(cell(row, idx.count))
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || count < 0 {
			if err == nil {
				err = fmt.Errorf("negative count %d", count)
			}
			return nil, 0, errors.NewParsingError(
				fmt.Sprintf("error parsing %s: invalid %s %q on data row %d", file, s.CountColumn, raw, line), err).
				WithContext(errors.ContextFile, file).
				WithContext(errors.ContextRow, line).
				WithContext(errors.ContextColumn, s.CountColumn)
		}

		sex := decode(cell(row, idx.sex))
		if !sex.IsMapped() {
			unmapped++
		}

		records = append(records, domain.Record{Sex: sex, Name: name, Count: count})
	}

	return records, unmapped, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
