package parser

import (
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// ReadSheet reads every row of a worksheet as displayed text. Blank rows
// are kept as empty rows so that row numbers match the worksheet.
func ReadSheet(f *excelize.File, sheetName string) (sheet.Sheet, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return sheet.Sheet{}, err
	}

	result := sheet.Sheet{Name: sheetName, Rows: make([]sheet.Row, len(rows))}
	for rowIdx, row := range rows {
		result.Rows[rowIdx] = sheet.Row{
			Index: rowIdx + 1, // 1-based row index
			Cells: row,
		}
	}

	return result, nil
}
