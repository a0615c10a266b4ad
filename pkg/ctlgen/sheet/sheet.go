// Package sheet models the tabular data read from a configuration workbook:
// raw rows, column maps resolved from fixed positions or header text, typed
// cell access and generic typed tables.
package sheet

import "strings"

// Row is one worksheet row.
type Row struct {
	// Index is the 1-based row number in the worksheet.
	Index int
	// Cells holds the cell text; missing trailing cells are blank.
	Cells []string
}

// Cell returns the trimmed text of the 1-based column col. The second result
// is false when the cell is absent or blank.
func (r Row) Cell(col int) (string, bool) {
	if col < 1 || col > len(r.Cells) {
		return "", false
	}
	v := strings.TrimSpace(r.Cells[col-1])
	return v, v != ""
}

// Text returns the trimmed text of column col, "" when absent.
func (r Row) Text(col int) string {
	v, _ := r.Cell(col)
	return v
}

// Raw returns the untrimmed text of column col, "" when absent.
func (r Row) Raw(col int) string {
	if col < 1 || col > len(r.Cells) {
		return ""
	}
	return r.Cells[col-1]
}

// Blank reports whether every cell in the row is blank.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Sheet is an ordered set of rows from one worksheet.
type Sheet struct {
	Name string
	Rows []Row
}

// Row returns the row with the given 1-based index.
func (s Sheet) Row(index int) (Row, bool) {
	if index >= 1 && index <= len(s.Rows) && s.Rows[index-1].Index == index {
		return s.Rows[index-1], true
	}
	for _, r := range s.Rows {
		if r.Index == index {
			return r, true
		}
	}
	return Row{}, false
}

// FirstNonBlank returns the first row that has any text in it.
func (s Sheet) FirstNonBlank() (Row, bool) {
	for _, r := range s.Rows {
		if !r.Blank() {
			return r, true
		}
	}
	return Row{}, false
}

// Width returns the widest row length in the sheet.
func (s Sheet) Width() int {
	width := 0
	for _, r := range s.Rows {
		if len(r.Cells) > width {
			width = len(r.Cells)
		}
	}
	return width
}
