package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

func makeSheet(name string, cells ...[]string) sheet.Sheet {
	rows := make([]sheet.Row, len(cells))
	for i, c := range cells {
		rows[i] = sheet.Row{Index: i + 1, Cells: c}
	}
	return sheet.Sheet{Name: name, Rows: rows}
}

var header = []string{"TYPE", "SUBTYPE", "RULE", "DATA"}

// ignoreLinks drops the back references so trees compare by content.
var ignoreLinks = cmpopts.IgnoreFields(Group{}, "Parent", "Sheet")

func TestParseGroupByOutput(t *testing.T) {
	s := makeSheet("Tags",
		header,
		[]string{"HEADER", "", "", "Name", "Point"},
		[]string{"ALM", "", "", "{TAG}", "{POINT}"},
		[]string{"GROUPBY_OUTPUT"},
		[]string{"ANLG", "", "Contains('{UNITS}', '%')", "{TAG}", "", "x"},
		[]string{"END_GROUP"},
		[]string{"TIMER", "", "", "{TAG}"},
		[]string{"FOOTER", "", "", "END"},
	)

	parsed, err := Parse(s, 6, nil)
	require.NoError(t, err)

	expected := &Group{
		Mode:    Singleton,
		Headers: []*Line{{Type: "HEADER", Tokens: []string{"Name", "Point"}, Row: 2}},
		Data: []*Line{
			{Type: "ALM", Tokens: []string{"{TAG}", "{POINT}", ""}, Row: 3},
			{Type: "TIMER", Tokens: []string{"{TAG}", "", ""}, Row: 7},
		},
		Groups: []*Group{{
			Mode: ByOutput,
			Data: []*Line{
				{Type: "ANLG", Rule: "Contains('{UNITS}', '%')", Tokens: []string{"{TAG}", "", "x"}, Row: 5},
			},
		}},
		Footers: []*Line{{Type: "FOOTER", Tokens: []string{"END"}, Row: 8}},
	}

	if diff := cmp.Diff(expected, parsed.Root, ignoreLinks); diff != "" {
		t.Errorf("Parse() tree mismatch (-want +got):\n%s", diff)
	}

	child := parsed.Root.Groups[0]
	assert.Same(t, parsed.Root, child.Parent)
	assert.Same(t, parsed, child.Sheet)
	assert.Nil(t, parsed.Root.Parent)
	assert.Equal(t, 1, child.Depth())
}

func TestParseHeaderStopsAtBlank(t *testing.T) {
	s := makeSheet("S",
		header,
		[]string{"HEADER", "", "", "A", "B", "", "C"},
		[]string{"DATA", "", "", "A", "B", "", "C"},
	)

	parsed, err := Parse(s, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, parsed.Root.Headers[0].Tokens)
	assert.Equal(t, []string{"A", "B", "", "C"}, parsed.Root.Data[0].Tokens)
}

func TestParseNestedModes(t *testing.T) {
	s := makeSheet("S",
		header,
		[]string{"GROUPBY_INPUT"},
		[]string{"HEADER", "", "", "inputs"},
		[]string{"GROUPBY_SINGLE"},
		[]string{"TEXT", "", "", "once"},
		[]string{"END_GROUP"},
		[]string{"END_GROUP"},
		[]string{"GROUPBY_OUTPUT"},
		[]string{"END_GROUP"},
	)

	parsed, err := Parse(s, 4, nil)
	require.NoError(t, err)

	root := parsed.Root
	require.Len(t, root.Groups, 2)
	assert.Equal(t, ByInput, root.Groups[0].Mode)
	assert.Equal(t, ByOutput, root.Groups[1].Mode)

	inner := root.Groups[0].Groups
	require.Len(t, inner, 1)
	assert.Equal(t, Singleton, inner[0].Mode)
	assert.Equal(t, 2, inner[0].Depth())
	assert.Equal(t, []string{"once"}, inner[0].Data[0].Tokens)
}

func TestParseSettings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	s := makeSheet("Sheet1",
		header,
		[]string{"SETTING", "filename:", "", "tags.csv"},
		[]string{"SETTING", "IGNORE SHEET:", "", "true"},
		[]string{"SETTING", "COLOR:", "", "red"},
		[]string{"COMMENT", "", "", "ignored"},
	)

	parsed, err := Parse(s, 0, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "tags.csv", parsed.OutputName)
	assert.True(t, parsed.Ignore)
	assert.Empty(t, parsed.Root.Data)
	assert.Equal(t, 1, logs.FilterMessage("unknown template setting").Len())
}

func TestParseOutputNameDefaultsToSheet(t *testing.T) {
	parsed, err := Parse(makeSheet("Sheet1", header), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", parsed.OutputName)
	assert.False(t, parsed.Ignore)
}

func TestParseNotTemplate(t *testing.T) {
	tests := [][]string{
		{"TYPE", "SUBTYPE", "RULE"},
		{"type", "subtype", "rule", "data"},
		{"Tag", "Point"},
	}

	for _, h := range tests {
		_, err := Parse(makeSheet("X", h), 0, nil)
		if !errors.Is(err, ErrNotTemplate) {
			t.Errorf("Parse(header %q) error = %v, expected ErrNotTemplate", h, err)
		}
	}

	_, err := Parse(sheet.Sheet{Name: "empty"}, 0, nil)
	assert.ErrorIs(t, err, ErrNotTemplate)
}

func TestParseHeaderAfterBlankRows(t *testing.T) {
	s := sheet.Sheet{Name: "S", Rows: []sheet.Row{
		{Index: 1},
		{Index: 2, Cells: []string{"", ""}},
		{Index: 3, Cells: header},
		{Index: 4, Cells: []string{"ALM", "", "", "{TAG}"}},
	}}

	parsed, err := Parse(s, 4, nil)
	require.NoError(t, err)
	require.Len(t, parsed.Root.Data, 1)
	assert.Equal(t, 4, parsed.Root.Data[0].Row)
}

func TestParseUnbalancedEndGroup(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	s := makeSheet("Bad",
		header,
		[]string{"GROUPBY_OUTPUT"},
		[]string{"END_GROUP"},
		[]string{"END_GROUP"},
	)

	_, err := Parse(s, 0, zap.New(core))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalancedGroup)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(4), logs.All()[0].ContextMap()["row"])
}

func TestParseUnclosedGroup(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	s := makeSheet("Open",
		header,
		[]string{"GROUPBY_OUTPUT"},
		[]string{"GROUPBY_SINGLE"},
		[]string{"ALM", "", "", "x"},
	)

	parsed, err := Parse(s, 0, zap.New(core))
	require.NoError(t, err)
	require.Len(t, parsed.Root.Groups, 1)

	entries := logs.FilterMessage("groups left open at end of sheet").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["open"])
}

func TestParseDocument(t *testing.T) {
	sheets := []sheet.Sheet{
		makeSheet("First", header, []string{"ALM", "", "", "a", "b", "c"}),
		makeSheet("Notes", []string{"just", "notes"}),
		makeSheet("Broken", header, []string{"END_GROUP"}),
		makeSheet("Last", header, []string{"TIMER", "", "", "t"}),
	}

	parsed, err := ParseDocument(sheets, map[string]int{"First": 4}, nil)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)
	assert.ErrorIs(t, err, ErrUnbalancedGroup)

	require.Len(t, parsed, 2)
	assert.Equal(t, "First", parsed[0].Name)
	assert.Equal(t, "Last", parsed[1].Name)
	assert.Equal(t, []string{"a"}, parsed[0].Root.Data[0].Tokens)
}

func TestDataOfType(t *testing.T) {
	g := &Group{Data: []*Line{{Type: "ALM", Row: 1}, {Type: "SD", Row: 2}, {Type: "ALM", Row: 3}}}

	lines := g.DataOfType("ALM")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[1].Row)
	assert.Empty(t, g.DataOfType("TIMER"))
}

func TestLineJoined(t *testing.T) {
	l := &Line{Tokens: []string{"a", "", "c"}}
	assert.Equal(t, "a;;c", l.Joined(";"))
}
