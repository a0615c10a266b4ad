// Package template parses template worksheets into group trees.
//
// A template worksheet starts with the header row TYPE, SUBTYPE, RULE, DATA.
// Each following row is a directive or a data line:
//
//	SETTING         FILENAME: or IGNORE SHEET:, value in the DATA column
//	COMMENT         ignored
//	HEADER, FOOTER  text emitted once for the current group
//	GROUPBY_INPUT   open a group iterated by the renderers
//	GROUPBY_OUTPUT  open a group whose data lines expand per record
//	GROUPBY_SINGLE  open a group whose data lines render once
//	END_GROUP       close the current group
//
// Any other TYPE is a data line routed to the renderer of that type.
package template

import (
	"errors"
	"strings"
)

var (
	// ErrNotTemplate indicates a worksheet without the template header row.
	ErrNotTemplate = errors.New("not a template sheet")
	// ErrUnbalancedGroup indicates END_GROUP without an open group.
	ErrUnbalancedGroup = errors.New("END_GROUP without open group")
)

// Directive keywords.
const (
	TypeSetting       = "SETTING"
	TypeComment       = "COMMENT"
	TypeHeader        = "HEADER"
	TypeFooter        = "FOOTER"
	TypeGroupByInput  = "GROUPBY_INPUT"
	TypeGroupByOutput = "GROUPBY_OUTPUT"
	TypeGroupBySingle = "GROUPBY_SINGLE"
	TypeEndGroup      = "END_GROUP"
)

// Setting keys, matched case-insensitively.
const (
	SettingFilename    = "FILENAME:"
	SettingIgnoreSheet = "IGNORE SHEET:"
)

// Column positions of a template row.
const (
	colType    = 1
	colSubType = 2
	colRule    = 3
	colData    = 4
)

var headerRow = []string{"TYPE", "SUBTYPE", "RULE", "DATA"}

// Mode is how a group iterates its data.
type Mode int

const (
	// Singleton renders each data line once.
	Singleton Mode = iota
	// ByInput lets every renderer emit its matching records.
	ByInput
	// ByOutput expands each data line once per matching record.
	ByOutput
)

func (m Mode) String() string {
	switch m {
	case ByInput:
		return "ByInput"
	case ByOutput:
		return "ByOutput"
	default:
		return "Singleton"
	}
}

// Line is one template row.
type Line struct {
	Type    string
	SubType string
	// Rule gates the line; empty means always.
	Rule   string
	Tokens []string
	// Row is the 1-based worksheet row, for diagnostics.
	Row int
}

// Joined returns the tokens joined by sep.
func (l *Line) Joined(sep string) string {
	return strings.Join(l.Tokens, sep)
}

// Group is a scoped region of a template sheet.
type Group struct {
	Mode    Mode
	Headers []*Line
	Footers []*Line
	Data    []*Line
	Groups  []*Group
	// Parent is nil for the sheet's root group.
	Parent *Group
	Sheet  *Sheet
}

// Depth returns 0 for the root group.
func (g *Group) Depth() int {
	d := 0
	for p := g.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// DataOfType returns the group's data lines of type typ, in order.
func (g *Group) DataOfType(typ string) []*Line {
	var lines []*Line
	for _, l := range g.Data {
		if l.Type == typ {
			lines = append(lines, l)
		}
	}
	return lines
}

// Sheet is a parsed template worksheet.
type Sheet struct {
	// Name is the worksheet name.
	Name string
	// OutputName is set by FILENAME: and defaults to Name.
	OutputName string
	// Ignore is set by IGNORE SHEET:.
	Ignore bool
	Root   *Group
}
