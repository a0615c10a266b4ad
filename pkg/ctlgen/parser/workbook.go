// Package parser reads configuration and template workbooks with excelize.
package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// Workbook is the text content of every worksheet of one file, in document
// order.
type Workbook struct {
	Path   string
	sheets []sheet.Sheet
	widths map[string]int
	areas  map[string][]Area
}

// OpenWorkbook reads every worksheet of the file at path and closes it.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := ReadWorkbook(f)
	if err != nil {
		return nil, err
	}
	wb.Path = path
	return wb, nil
}

// ReadWorkbook reads every worksheet of an open file.
func ReadWorkbook(f *excelize.File) (*Workbook, error) {
	areas, err := ExtractPrintAreas(f)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{
		widths: make(map[string]int),
		areas:  areas,
	}

	for _, name := range f.GetSheetList() {
		s, err := ReadSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.sheets = append(wb.sheets, s)
		wb.widths[name] = width(s, areas[name])
	}

	return wb, nil
}

// width prefers the print area right edge over the used range.
func width(s sheet.Sheet, areas []Area) int {
	if edge := RightEdge(areas); edge > 0 {
		return edge
	}
	if b, ok := DataBounds(s); ok {
		return b.MaxCol
	}
	return 0
}

// Sheet returns the named worksheet. Names match exactly first, then
// ignoring case.
func (wb *Workbook) Sheet(name string) (sheet.Sheet, bool) {
	for _, s := range wb.sheets {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range wb.sheets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return sheet.Sheet{}, false
}

// Sheets returns every worksheet in document order.
func (wb *Workbook) Sheets() []sheet.Sheet {
	return wb.sheets
}

// Width returns the data width of the named worksheet: the right edge of its
// print area when one is defined, otherwise the last used column.
func (wb *Workbook) Width(name string) int {
	return wb.widths[name]
}

// Widths returns the data width of every worksheet.
func (wb *Workbook) Widths() map[string]int {
	return wb.widths
}

// PrintAreas returns the print areas defined for the named worksheet.
func (wb *Workbook) PrintAreas(name string) []Area {
	return wb.areas[name]
}
