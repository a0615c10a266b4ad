package sheet

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/point"
)

type testRow struct {
	Number int
	Tag    string
	Value  float64
	Point  point.Identifier
}

func (r testRow) Key() string { return strconv.Itoa(r.Number) }

func decodeTestRow(c *Cells) testRow {
	return testRow{
		Number: c.Int("number"),
		Tag:    c.Text("tag"),
		Value:  c.Float("value"),
		Point:  c.Point("point"),
	}
}

var fixedLayout = Layout{
	Name:         "test",
	FirstDataRow: 3,
	KeyField:     "number",
	Columns: []Column{
		{Field: "number", Position: 1},
		{Field: "tag", Position: 2},
		{Field: "value", Position: 3},
		{Field: "point", Position: 4},
	},
}

func rows(cells ...[]string) []Row {
	out := make([]Row, len(cells))
	for i, c := range cells {
		out[i] = Row{Index: i + 1, Cells: c}
	}
	return out
}

func TestTableImportFixed(t *testing.T) {
	s := Sheet{Name: "Alarms", Rows: rows(
		[]string{"Alarm List"},
		[]string{"No", "Tag", "Value", "Point"},
		[]string{"1", "LT-5801", "12.5", "DI-01/03"},
		[]string{"", "", "", ""},
		[]string{"0", "ZERO", "", ""},
		[]string{"SPARE", "spare row", "", ""},
		[]string{"n/a"},
		[]string{"3", "PT-100", "1,200", "AI102_CH07"},
	)}

	table := NewTable(fixedLayout, decodeTestRow)
	require.NoError(t, table.Import(s, nil))
	require.Equal(t, 2, table.Len())

	first := table.Rows()[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "LT-5801", first.Tag)
	assert.Equal(t, 12.5, first.Value)
	assert.Equal(t, "DI01_CH03", first.Point.Canonical())

	second := table.Rows()[1]
	assert.Equal(t, 1200.0, second.Value)
	assert.Equal(t, "AI102_CH07", second.Point.Canonical())
}

func TestTableImportSkipsKeysDecodedToZero(t *testing.T) {
	s := Sheet{Name: "Alarms", Rows: rows(
		nil,
		nil,
		[]string{"abc", "TEXT KEY"},
		[]string{"0.4", "FRACTION"},
		[]string{"0.0", "ZERO FLOAT"},
		[]string{"2", "LT-2"},
	)}

	table := NewTable(fixedLayout, decodeTestRow)
	require.NoError(t, table.Import(s, nil))
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "LT-2", table.Rows()[0].Tag)

	_, ok := table.Lookup("0")
	assert.False(t, ok)
}

func TestTableImportReplacesRows(t *testing.T) {
	table := NewTable(fixedLayout, decodeTestRow)
	s := Sheet{Name: "Alarms", Rows: rows(
		nil,
		nil,
		[]string{"1", "A"},
		[]string{"2", "B"},
	)}

	require.NoError(t, table.Import(s, nil))
	require.NoError(t, table.Import(s, nil))
	assert.Equal(t, 2, table.Len())
}

func TestTableImportMissingHeader(t *testing.T) {
	layout := Layout{
		Name:         "analog",
		HeaderRow:    1,
		FirstDataRow: 2,
		KeyField:     "point",
		Columns: []Column{
			{Field: "point", Header: "Point", Required: true},
			{Field: "tag", Header: "Tag", Required: true},
			{Field: "units", Header: "Units", Required: true},
		},
	}
	decode := func(c *Cells) testRow { return testRow{Tag: c.Text("tag")} }

	table := NewTable(layout, decode)
	good := Sheet{Name: "AI", Rows: rows(
		[]string{"Point", "Tag", "Units"},
		[]string{"AI-101/01", "FT-1", "m3/h"},
	)}
	require.NoError(t, table.Import(good, nil))
	require.Equal(t, 1, table.Len())

	bad := Sheet{Name: "AI", Rows: rows(
		[]string{"Point", "Tag"},
		[]string{"AI-101/01", "FT-1"},
	)}
	err := table.Import(bad, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "AI", missing.Sheet)
	assert.Equal(t, []string{"Units"}, missing.Headers)
	assert.Equal(t, 0, table.Len())
}

func TestTableImportHeaderRowAbsent(t *testing.T) {
	layout := Layout{
		Name:      "analog",
		HeaderRow: 4,
		KeyField:  "point",
		Columns:   []Column{{Field: "point", Header: "Point", Required: true}},
	}
	table := NewTable(layout, decodeTestRow)

	err := table.Import(Sheet{Name: "AI", Rows: rows([]string{"Point"})}, nil)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestTableLookup(t *testing.T) {
	table := NewTable(fixedLayout, decodeTestRow)
	require.NoError(t, table.Import(Sheet{Name: "Alarms", Rows: rows(
		nil,
		nil,
		[]string{"7", "A"},
		[]string{"12", "B"},
	)}, nil))

	r, ok := table.Lookup(" 12 ")
	require.True(t, ok)
	assert.Equal(t, "B", r.Tag)

	_, ok = table.Lookup("99")
	assert.False(t, ok)

	rec, ok := table.Find("7")
	require.True(t, ok)
	assert.Equal(t, "7", rec.Key())

	rec, ok = table.Find("8")
	assert.False(t, ok)
	assert.Nil(t, rec)
}

func TestCellsCoercion(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	cols := ColumnMap{"i": 1, "f": 2, "b": 3, "p": 4, "err": 5, "wf": 6}
	row := Row{Index: 9, Cells: []string{"12.0", "abc", "Yes", "XX-1", "#N/A", "1.5"}}
	c := NewCells("Timers", row, cols, logger)

	assert.Equal(t, 12, c.Int("i"))
	assert.Equal(t, 0.0, c.Float("f"))
	assert.True(t, c.Bool("b"))
	assert.False(t, c.Point("p").Parsed)
	assert.Equal(t, "XX-1", c.Point("p").Raw)
	assert.Equal(t, "", c.Text("err"))
	assert.False(t, c.Has("err"))
	assert.Equal(t, 0, c.Int("wf"))
	assert.Equal(t, 0, c.Int("missing"))

	// float, point (twice) and whole-number coercion failures
	assert.Equal(t, 4, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cell value coerced to default", entry.Message)
	assert.Equal(t, "Timers", entry.ContextMap()["sheet"])
	assert.Equal(t, int64(9), entry.ContextMap()["row"])
}

func TestCellsIsBlankKey(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"0", true},
		{"0.0", true},
		{"spare", true},
		{"N/A", true},
		{"-", true},
		{"blank", true},
		{"#REF!", true},
		{"1", false},
		{"DI-01/03", false},
	}

	for _, tt := range tests {
		c := NewCells("s", Row{Index: 1, Cells: []string{tt.value}}, ColumnMap{"key": 1}, nil)
		if result := c.IsBlankKey("key"); result != tt.expected {
			t.Errorf("IsBlankKey(%q) = %v, expected %v", tt.value, result, tt.expected)
		}
	}
}

func TestSheetRow(t *testing.T) {
	s := Sheet{Rows: []Row{{Index: 1}, {Index: 3, Cells: []string{"x"}}}}

	r, ok := s.Row(3)
	require.True(t, ok)
	assert.Equal(t, "x", r.Text(1))

	_, ok = s.Row(2)
	assert.False(t, ok)

	first, ok := s.FirstNonBlank()
	require.True(t, ok)
	assert.Equal(t, 3, first.Index)
	assert.Equal(t, 1, s.Width())
}
