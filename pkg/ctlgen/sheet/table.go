package sheet

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Record is a typed row with a lookup key.
type Record interface {
	Key() string
}

// DecodeFunc builds one record from a row's cells.
type DecodeFunc[R Record] func(c *Cells) R

// Table is an ordered collection of records of one kind.
type Table[R Record] struct {
	layout Layout
	decode DecodeFunc[R]
	cols   ColumnMap
	rows   []R
}

// NewTable returns an empty table for layout.
func NewTable[R Record](layout Layout, decode DecodeFunc[R]) *Table[R] {
	return &Table[R]{layout: layout, decode: decode}
}

// Name returns the table name.
func (t *Table[R]) Name() string {
	return t.layout.Name
}

// Layout returns the table layout.
func (t *Table[R]) Layout() Layout {
	return t.layout
}

// Columns returns the column map used by the last successful import.
func (t *Table[R]) Columns() ColumnMap {
	return t.cols
}

// Rows returns the imported records in sheet order.
func (t *Table[R]) Rows() []R {
	return t.rows
}

// Len returns the number of imported records.
func (t *Table[R]) Len() int {
	return len(t.rows)
}

// Import reads s into the table, replacing any previous rows. Rows before the
// first data row and rows whose key is blank or a spare marker are skipped.
// Variable layouts resolve their headers first; if that fails the table is
// left empty and the error is returned.
func (t *Table[R]) Import(s Sheet, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	t.rows = nil
	t.cols = nil

	cols, err := t.columns(s)
	if err != nil {
		return fmt.Errorf("table %s: %w", t.layout.Name, err)
	}
	if _, ok := cols[t.layout.KeyField]; !ok {
		return fmt.Errorf("table %s: key field %q has no column", t.layout.Name, t.layout.KeyField)
	}

	first := t.layout.FirstDataRow
	if first <= t.layout.HeaderRow {
		first = t.layout.HeaderRow + 1
	}

	var rows []R
	skipped := 0
	for _, row := range s.Rows {
		if row.Index < first {
			continue
		}
		cells := NewCells(s.Name, row, cols, logger)
		if cells.IsBlankKey(t.layout.KeyField) {
			skipped++
			continue
		}
		// Keys such as "abc" or "0.4" only turn out to be zero once decoded.
		rec := t.decode(cells)
		if strings.TrimSpace(rec.Key()) == "0" {
			logger.Debug("row key decoded to zero, row skipped",
				zap.String("table", t.layout.Name),
				zap.Int("row", row.Index),
				zap.String("key", cells.Text(t.layout.KeyField)))
			skipped++
			continue
		}
		rows = append(rows, rec)
	}

	t.rows = rows
	t.cols = cols

	logger.Debug("imported table",
		zap.String("table", t.layout.Name),
		zap.String("sheet", s.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped))

	return nil
}

func (t *Table[R]) columns(s Sheet) (ColumnMap, error) {
	if t.layout.Fixed() {
		return FixedColumns(t.layout.Columns), nil
	}

	header, ok := s.Row(t.layout.HeaderRow)
	if !ok {
		return nil, &MissingColumnsError{Sheet: s.Name, Headers: requiredHeaders(t.layout.Columns)}
	}

	cols, err := ResolveHeaders(header, t.layout.Columns)
	if err != nil {
		var missing *MissingColumnsError
		if errors.As(err, &missing) {
			missing.Sheet = s.Name
		}
		return nil, err
	}
	return cols, nil
}

func requiredHeaders(columns []Column) []string {
	var headers []string
	for _, c := range columns {
		if c.Required {
			headers = append(headers, c.Header)
		}
	}
	return headers
}

// Lookup returns the first record whose key equals key, ignoring surrounding
// whitespace and case. A blank key never matches.
func (t *Table[R]) Lookup(key string) (R, bool) {
	var zero R
	key = strings.TrimSpace(key)
	if key == "" {
		return zero, false
	}
	for _, r := range t.rows {
		if strings.EqualFold(r.Key(), key) {
			return r, true
		}
	}
	return zero, false
}

// Find is Lookup returning the record as a Record.
func (t *Table[R]) Find(key string) (Record, bool) {
	r, ok := t.Lookup(key)
	if !ok {
		return nil, false
	}
	return r, true
}

// Each calls fn for every record in order as a Record.
func (t *Table[R]) Each(fn func(Record)) {
	for _, r := range t.rows {
		fn(r)
	}
}
