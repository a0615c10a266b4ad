package ctlgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/rule"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/store"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/template"
)

type fixtureSheet struct {
	name string
	rows [][]string
}

func writeWorkbook(t *testing.T, path string, sheets ...fixtureSheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			for c, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr(s.name, cell, value))
			}
		}
	}

	require.NoError(t, f.SaveAs(path))
}

func dataWorkbook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "data.xlsx")
	writeWorkbook(t, path,
		fixtureSheet{"Alarms", [][]string{
			{"Alarm list"},
			{"No", "Tag", "Description", "Point"},
			{"1", "LAH-5801", "Level high", "AI-101/02", "85", "%", "2", "", "", "Y"},
			{"2", "PAL-7", "Pressure low", "AI-101/05", "1.5", "bar", "1", "", "", "Y"},
			{"SPARE"},
		}},
		fixtureSheet{"Analog Inputs", [][]string{
			{"Point ID", "Tag Name", "Description", "LRV", "URV", "EU"},
			{"AI-101/02", "LT-5801", "Tank level", "0", "100", "%"},
		}},
	)
	return path
}

var templateHeader = []string{"TYPE", "SUBTYPE", "RULE", "DATA"}

func templateWorkbook(t *testing.T, dir string, extra ...fixtureSheet) string {
	t.Helper()
	path := filepath.Join(dir, "template.xlsx")
	sheets := append([]fixtureSheet{
		{"Alarm Export", [][]string{
			templateHeader,
			{"SETTING", "FILENAME:", "", "alarms.txt"},
			{"HEADER", "", "", "No", "Tag", "Point"},
			{"GROUPBY_OUTPUT"},
			{"ALM", "", "", "{NUMBER}", "{TAG}", "{POINT}"},
			{"END_GROUP"},
		}},
		{"Notes", [][]string{{"free text"}}},
		{"Disabled", [][]string{
			templateHeader,
			{"SETTING", "IGNORE SHEET:", "", "TRUE"},
			{"TEXT", "", "", "never"},
		}},
		{"Inputs", [][]string{
			templateHeader,
			{"ANLG", "", "", "{TAG}", "{RANGE_HIGH}", "{UNITS}"},
		}},
	}, extra...)
	writeWorkbook(t, path, sheets...)
	return path
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Logger = zaptest.NewLogger(t)

	res, err := Convert(context.Background(), dataWorkbook(t, dir), templateWorkbook(t, dir), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Tables[store.TableAlarms])
	assert.Equal(t, 1, res.Tables[store.TableAnalogInputs])
	assert.Equal(t, 0, res.Tables[store.TableTimers])

	// Notes has no template header and is not parsed
	require.Len(t, res.Templates, 3)

	require.Len(t, res.Outputs, 2)
	assert.Equal(t, "Alarm Export", res.Outputs[0].Sheet)
	assert.Equal(t, "alarms.txt", res.Outputs[0].Name)
	assert.Equal(t, "No,Tag,Point\n1,LAH-5801,AI101_CH02\n2,PAL-7,AI101_CH05", res.Outputs[0].Text)

	assert.Equal(t, "Inputs", res.Outputs[1].Name)
	assert.Equal(t, "LT-5801,100,%", res.Outputs[1].Text)
}

func TestConvertSeparatorAndWorkers(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Separator: ";", Workers: 4}

	res, err := Convert(context.Background(), dataWorkbook(t, dir), templateWorkbook(t, dir), opts)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)
	assert.Equal(t, "LT-5801;100;%", res.Outputs[1].Text)
}

func TestConvertOverride(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Overrides = map[string]store.Override{
		store.TableAlarms: {FirstDataRow: 4},
	}

	res, err := Convert(context.Background(), dataWorkbook(t, dir), templateWorkbook(t, dir), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Tables[store.TableAlarms])
}

func TestConvertFileNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := Convert(context.Background(), filepath.Join(dir, "missing.xlsx"), templateWorkbook(t, dir), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, ComponentData, convErr.Component)
}

func TestConvertInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "template.xlsx")
	require.NoError(t, os.WriteFile(bogus, []byte("not a workbook"), 0644))

	_, err := Convert(context.Background(), dataWorkbook(t, dir), bogus, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, ComponentTemplate, convErr.Component)
}

func TestConvertBrokenSheet(t *testing.T) {
	dir := t.TempDir()
	tpl := templateWorkbook(t, dir, fixtureSheet{"Broken", [][]string{
		templateHeader,
		{"TEXT", "", "", "x"},
		{"END_GROUP"},
	}})

	res, err := Convert(context.Background(), dataWorkbook(t, dir), tpl, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, template.ErrUnbalancedGroup))

	// The other sheets still render
	require.NotNil(t, res)
	assert.Len(t, res.Outputs, 2)
}

func TestConvertCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Convert(ctx, dataWorkbook(t, dir), templateWorkbook(t, dir), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	tpl := templateWorkbook(t, dir, fixtureSheet{"Rules", [][]string{
		templateHeader,
		{"TEXT", "", "TRUE AND", "x"},
		{"GROUPBY_OUTPUT"},
		{"ALM", "", "{ENABLED} AND", "{TAG}"},
		{"TEXT", "", "NOT (FALSE", "y"},
		{"END_GROUP"},
	}})

	res, err := Check(dataWorkbook(t, dir), tpl, DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, res.Outputs)
	assert.Equal(t, 2, res.Tables[store.TableAlarms])

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "Rules", convErr.SheetName)
	assert.True(t, errors.Is(err, rule.ErrSyntax))

	// Rules with placeholders are only known per record
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "row 5")
	assert.NotContains(t, err.Error(), "row 4")
}

func TestCheckClean(t *testing.T) {
	dir := t.TempDir()
	res, err := Check(dataWorkbook(t, dir), templateWorkbook(t, dir), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Templates, 3)
}

func TestConversionError(t *testing.T) {
	inner := errors.New("boom")

	err := NewConversionError("Alarms", ComponentRender, inner)
	assert.Equal(t, `conversion error in sheet "Alarms" (render): boom`, err.Error())
	assert.True(t, errors.Is(err, inner))

	err = NewConversionError("", ComponentTables, inner)
	assert.Equal(t, "conversion error (tables): boom", err.Error())
}
