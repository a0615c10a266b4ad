package parser

import "github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"

// Bounds is the 1-based bounding box of the non-empty cells of a sheet.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// DataBounds finds the bounding box of non-blank cells. It returns false for
// a sheet with no data.
func DataBounds(s sheet.Sheet) (Bounds, bool) {
	b := Bounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}

	for _, row := range s.Rows {
		for colIdx := range row.Cells {
			col := colIdx + 1
			if _, ok := row.Cell(col); !ok {
				continue
			}
			if b.MinRow < 0 || row.Index < b.MinRow {
				b.MinRow = row.Index
			}
			if b.MaxRow < 0 || row.Index > b.MaxRow {
				b.MaxRow = row.Index
			}
			if b.MinCol < 0 || col < b.MinCol {
				b.MinCol = col
			}
			if b.MaxCol < 0 || col > b.MaxCol {
				b.MaxCol = col
			}
		}
	}

	if b.MinRow < 0 {
		return Bounds{}, false
	}
	return b, true
}
