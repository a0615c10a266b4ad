package sheet

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/point"
)

// Key values that mark a spare or unused row.
var blankKeywords = map[string]bool{
	"SPARE": true,
	"N/A":   true,
	"-":     true,
	"BLANK": true,
}

// Spreadsheet error values, treated as blank.
var errorValues = map[string]bool{
	"#N/A":    true,
	"#VALUE!": true,
	"#REF!":   true,
	"#DIV/0!": true,
	"#NUM!":   true,
	"#NAME?":  true,
	"#NULL!":  true,
}

// Cells gives typed access to the fields of one row through a column map.
// Values that cannot be coerced are logged and replaced by the type default.
type Cells struct {
	Sheet  string
	Row    Row
	cols   ColumnMap
	logger *zap.Logger
}

// NewCells binds row to cols. A nil logger discards coercion warnings.
func NewCells(sheetName string, row Row, cols ColumnMap, logger *zap.Logger) *Cells {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cells{Sheet: sheetName, Row: row, cols: cols, logger: logger}
}

func (c *Cells) raw(field string) (string, bool) {
	col, ok := c.cols[field]
	if !ok {
		return "", false
	}
	v, ok := c.Row.Cell(col)
	if !ok || errorValues[strings.ToUpper(v)] {
		return "", false
	}
	return v, true
}

// Has reports whether field is mapped and non-blank.
func (c *Cells) Has(field string) bool {
	_, ok := c.raw(field)
	return ok
}

// Text returns the trimmed cell text, "" when blank.
func (c *Cells) Text(field string) string {
	v, _ := c.raw(field)
	return v
}

// Int returns the cell as an integer. Whole floats such as "12.0" are
// accepted and thousands separators are ignored.
func (c *Cells) Int(field string) int {
	v, ok := c.raw(field)
	if !ok {
		return 0
	}
	s := strings.ReplaceAll(v, ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		return int(f)
	}
	c.warn(field, v, "int")
	return 0
}

// Float returns the cell as a float64.
func (c *Cells) Float(field string) float64 {
	v, ok := c.raw(field)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		c.warn(field, v, "float")
		return 0
	}
	return f
}

// Bool returns the cell as a boolean. TRUE, YES, Y, 1, X and ON are true;
// FALSE, NO, N, 0 and OFF are false. Anything else is logged and false.
func (c *Cells) Bool(field string) bool {
	v, ok := c.raw(field)
	if !ok {
		return false
	}
	switch strings.ToUpper(v) {
	case "TRUE", "YES", "Y", "1", "X", "ON":
		return true
	case "FALSE", "NO", "N", "0", "OFF":
		return false
	}
	c.warn(field, v, "bool")
	return false
}

// Point parses the cell as a point identifier. Malformed identifiers are
// logged and returned unparsed with their raw text.
func (c *Cells) Point(field string) point.Identifier {
	v, ok := c.raw(field)
	if !ok {
		return point.Identifier{}
	}
	id, err := point.Parse(v)
	if err != nil {
		c.logger.Warn("unparsed point identifier",
			zap.String("sheet", c.Sheet),
			zap.Int("row", c.Row.Index),
			zap.String("field", field),
			zap.Error(err))
	}
	return id
}

// IsBlankKey reports whether field is unusable as a row key: blank, zero,
// or a spare marker such as SPARE or N/A.
func (c *Cells) IsBlankKey(field string) bool {
	v, ok := c.raw(field)
	if !ok {
		return true
	}
	if blankKeywords[strings.ToUpper(v)] {
		return true
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil && f == 0 {
		return true
	}
	return false
}

func (c *Cells) warn(field, value, kind string) {
	c.logger.Warn("cell value coerced to default",
		zap.String("sheet", c.Sheet),
		zap.Int("row", c.Row.Index),
		zap.String("field", field),
		zap.String("value", value),
		zap.String("type", kind))
}
