package target

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

const keyColumn = "cell"

// Table is the editable rectangular target grid: one row per cell key, one
// column per target label. It is a plain mutable value owned by the session
// editing it; nothing in the core holds onto one.
type Table struct {
	Keys    []string
	Columns []string
	Rows    [][]float64
}

func NewTable(columns []string) *Table {
	return &Table{Columns: columns}
}

// Set writes one cell of the grid. A new key appends a row padded with NaN.
func (t *Table) Set(key string, col int, v float64) error {
	if col < 0 || col >= len(t.Columns) {
		return apperr.NewValidationf("column %d out of range, table has %d columns", col, len(t.Columns))
	}
	i := t.index(key)
	if i < 0 {
		row := make([]float64, len(t.Columns))
		for j := range row {
			row[j] = math.NaN()
		}
		t.Keys = append(t.Keys, key)
		t.Rows = append(t.Rows, row)
		i = len(t.Rows) - 1
	}
	t.Rows[i][col] = v
	return nil
}

// Row returns the target list stored under the key.
func (t *Table) Row(key string) ([]float64, bool) {
	i := t.index(key)
	if i < 0 {
		return nil, false
	}
	return t.Rows[i], true
}

func (t *Table) index(key string) int {
	for i, k := range t.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// WriteCSV exports the grid with a "cell" key column followed by the target
// columns.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{keyColumn}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write target table header: %w", err)
	}
	for i, key := range t.Keys {
		rec := make([]string, 0, len(t.Columns)+1)
		rec = append(rec, key)
		for _, v := range t.Rows[i] {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write target table row %q: %w", key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a grid previously produced by WriteCSV (or edited by hand;
// only the column count matters, not the order of rows).
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, apperr.NewValidationWrap("target table csv has no header", err)
	}
	if len(header) < 2 {
		return nil, apperr.NewValidation("target table csv needs a key column and at least one target column")
	}

	t := NewTable(header[1:])
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.NewValidationWrap("malformed target table csv", err)
		}
		row := make([]float64, len(rec)-1)
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, apperr.NewValidationWrap(fmt.Sprintf("target table row %q: bad number %q", rec[0], field), err)
			}
			row[i] = v
		}
		t.Keys = append(t.Keys, rec[0])
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// MergeCSV applies an imported grid to the table. A matching column count
// updates rows by key (unknown keys append); a different column count
// replaces the whole table, columns included.
func (t *Table) MergeCSV(r io.Reader) error {
	in, err := ReadCSV(r)
	if err != nil {
		return err
	}

	if len(in.Columns) != len(t.Columns) {
		t.Keys = in.Keys
		t.Columns = in.Columns
		t.Rows = in.Rows
		return nil
	}

	for i, key := range in.Keys {
		j := t.index(key)
		if j < 0 {
			t.Keys = append(t.Keys, key)
			t.Rows = append(t.Rows, in.Rows[i])
			continue
		}
		t.Rows[j] = in.Rows[i]
	}
	return nil
}
