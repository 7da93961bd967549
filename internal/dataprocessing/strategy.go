package dataprocessing

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when a file has no header row
var ErrNoHeader = stderrors.New("no header row")

// ErrTooManyFields is returned when a row has more cells than the header
var ErrTooManyFields = stderrors.New("too many fields")

// Table is the raw result of parsing a delimited file
type Table struct {
	Header   []string
	Rows     [][]string
	Strategy string
}

// ParseStrategy parses decoded file contents into a Table.
// Strategies are tried in order until one succeeds.
type ParseStrategy interface {
	Name() string
	Parse(data []byte, delimiter rune) (*Table, error)
}

// StrategyError records why one parse strategy failed
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s parse failed: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// DefaultStrategies returns the fast strict parser followed by the lenient one
func DefaultStrategies() []ParseStrategy {
	return []ParseStrategy{StrictStrategy{}, PermissiveStrategy{}}
}

// StrictStrategy follows RFC 4180 and requires every row to have as many
// fields as the header.
type StrictStrategy struct{}

func (StrictStrategy) Name() string { return "strict" }

func (s StrictStrategy) Parse(data []byte, delimiter rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = 0

	records, err := r.ReadAll()
	if err != nil {
		return nil, &StrategyError{Strategy: s.Name(), Err: err}
	}
	if len(records) == 0 {
		return nil, &StrategyError{Strategy: s.Name(), Err: ErrNoHeader}
	}

	return &Table{
		Header:   trimHeader(records[0]),
		Rows:     records[1:],
		Strategy: s.Name(),
	}, nil
}

// PermissiveStrategy accepts stray quotes and short rows. Short rows are
// padded with empty cells and rows made only of empty cells are skipped.
// A row longer than the header is still an error.
type PermissiveStrategy struct{}

func (PermissiveStrategy) Name() string { return "permissive" }

func (s PermissiveStrategy) Parse(data []byte, delimiter rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &StrategyError{Strategy: s.Name(), Err: ErrNoHeader}
	}
	if err != nil {
		return nil, &StrategyError{Strategy: s.Name(), Err: err}
	}
	header = trimHeader(header)

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &StrategyError{Strategy: s.Name(), Err: err}
		}
		if isEmptyRow(record) {
			continue
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, &StrategyError{
				Strategy: s.Name(),
				Err: fmt.Errorf("line %d: expected %d fields, saw %d: %w",
					line, len(header), len(record), ErrTooManyFields),
			}
		}
		rows = append(rows, padRow(record, len(header)))
	}

	return &Table{Header: header, Rows: rows, Strategy: s.Name()}, nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isEmptyRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func padRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
