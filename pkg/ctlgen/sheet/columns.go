package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn indicates that a required header was not found.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnsError lists every required header absent from a header row.
type MissingColumnsError struct {
	Sheet   string
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("sheet %q: missing required columns: %s", e.Sheet, strings.Join(e.Headers, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumn
}

// Column describes where one field of a row lives.
type Column struct {
	// Field is the logical name decoders ask for.
	Field string
	// Header is the header text for variable layouts.
	Header string
	// Aliases are alternative header spellings seen in older workbooks.
	Aliases []string
	// Position is the 1-based column for fixed layouts.
	Position int
	// Required columns must resolve or the import fails.
	Required bool
}

// Layout describes how one table sits in its worksheet.
type Layout struct {
	// Name is the table name used for store lookups.
	Name string
	// Sheet is the worksheet name the table is read from.
	Sheet string
	// HeaderRow is the 1-based header row; 0 means a fixed layout.
	HeaderRow int
	// FirstDataRow is the 1-based row where data starts.
	FirstDataRow int
	// KeyField is the field that must be present for a row to be imported.
	KeyField string
	Columns  []Column
}

// Fixed reports whether columns are addressed by position.
func (l Layout) Fixed() bool {
	return l.HeaderRow == 0
}

// ColumnMap maps a field name to its 1-based column.
type ColumnMap map[string]int

// FixedColumns builds a ColumnMap from column positions.
func FixedColumns(columns []Column) ColumnMap {
	cols := make(ColumnMap, len(columns))
	for _, c := range columns {
		if c.Position > 0 {
			cols[c.Field] = c.Position
		}
	}
	return cols
}

// HeaderIndex maps normalized header text to its 1-based column. Blank
// header cells are named ColumnN. The first occurrence of a header wins.
func HeaderIndex(header Row) map[string]int {
	idx := make(map[string]int, len(header.Cells))
	for i := range header.Cells {
		col := i + 1
		name, ok := header.Cell(col)
		if !ok {
			name = "Column" + strconv.Itoa(col)
		}
		key := normalizeHeader(name)
		if _, seen := idx[key]; !seen {
			idx[key] = col
		}
	}
	return idx
}

// ResolveHeaders matches each column's header (or one of its aliases)
// against the header row, ignoring case and repeated whitespace. It fails
// if any required column is not found.
func ResolveHeaders(header Row, columns []Column) (ColumnMap, error) {
	idx := HeaderIndex(header)
	cols := make(ColumnMap, len(columns))
	var missing []string

	for _, c := range columns {
		pos, ok := lookupHeader(idx, c)
		if !ok {
			if c.Required {
				missing = append(missing, c.Header)
			}
			continue
		}
		cols[c.Field] = pos
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Headers: missing}
	}
	return cols, nil
}

func lookupHeader(idx map[string]int, c Column) (int, bool) {
	if pos, ok := idx[normalizeHeader(c.Header)]; ok {
		return pos, true
	}
	for _, alias := range c.Aliases {
		if pos, ok := idx[normalizeHeader(alias)]; ok {
			return pos, true
		}
	}
	return 0, false
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ColumnLetter converts a 1-based column index to its letter name ("A",
// "AB"). It returns false outside the range excelize supports.
func ColumnLetter(index int) (string, bool) {
	name, err := excelize.ColumnNumberToName(index)
	if err != nil {
		return "", false
	}
	return name, true
}

// ColumnIndex converts a column letter name to its 1-based index. It returns
// false for invalid or out of range names.
func ColumnIndex(letters string) (int, bool) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(letters))
	if err != nil {
		return 0, false
	}
	return n, true
}
