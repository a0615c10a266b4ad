package sheet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{703, "AAA"},
		{16384, "XFD"},
	}

	for _, tt := range tests {
		result, ok := ColumnLetter(tt.index)
		if !ok || result != tt.expected {
			t.Errorf("ColumnLetter(%d) = %q, %v, expected %q", tt.index, result, ok, tt.expected)
		}
	}
}

func TestColumnLetterRoundTrip(t *testing.T) {
	for i := 1; i <= excelize.MaxColumns; i++ {
		letters, ok := ColumnLetter(i)
		if !ok {
			t.Fatalf("ColumnLetter(%d) not found", i)
		}
		back, ok := ColumnIndex(letters)
		if !ok || back != i {
			t.Fatalf("ColumnIndex(%q) = %d, %v, expected %d", letters, back, ok, i)
		}
	}
}

func TestColumnOutOfRange(t *testing.T) {
	for _, index := range []int{0, -1, excelize.MaxColumns + 1} {
		if letters, ok := ColumnLetter(index); ok {
			t.Errorf("ColumnLetter(%d) = %q, expected not found", index, letters)
		}
	}
	for _, letters := range []string{"", "XFE", "A1", "?"} {
		if index, ok := ColumnIndex(letters); ok {
			t.Errorf("ColumnIndex(%q) = %d, expected not found", letters, index)
		}
	}
}

func TestColumnIndexCaseInsensitive(t *testing.T) {
	if n, ok := ColumnIndex("ab"); !ok || n != 28 {
		t.Errorf("ColumnIndex(\"ab\") = %d, %v, expected 28", n, ok)
	}
}

func TestHeaderIndex(t *testing.T) {
	header := Row{Index: 1, Cells: []string{"Tag", "", "  Point   ID ", "TAG"}}
	idx := HeaderIndex(header)

	expected := map[string]int{
		"tag":      1,
		"column2":  2,
		"point id": 3,
	}
	if !reflect.DeepEqual(idx, expected) {
		t.Errorf("HeaderIndex() = %v, expected %v", idx, expected)
	}
}

func TestResolveHeaders(t *testing.T) {
	header := Row{Index: 2, Cells: []string{"POINT", "tag name", "", "Units"}}
	columns := []Column{
		{Field: "point", Header: "Point", Required: true},
		{Field: "tag", Header: "Tag", Aliases: []string{"Tag Name"}, Required: true},
		{Field: "units", Header: "units"},
		{Field: "spare", Header: "Column3"},
		{Field: "desc", Header: "Description"},
	}

	cols, err := ResolveHeaders(header, columns)
	if err != nil {
		t.Fatalf("ResolveHeaders failed: %v", err)
	}

	expected := ColumnMap{"point": 1, "tag": 2, "spare": 3, "units": 4}
	if !reflect.DeepEqual(cols, expected) {
		t.Errorf("ResolveHeaders() = %v, expected %v", cols, expected)
	}
}

func TestResolveHeadersMissing(t *testing.T) {
	header := Row{Index: 1, Cells: []string{"Point"}}
	columns := []Column{
		{Field: "point", Header: "Point", Required: true},
		{Field: "tag", Header: "Tag", Required: true},
		{Field: "range", Header: "Range High", Required: true},
		{Field: "units", Header: "Units"},
	}

	cols, err := ResolveHeaders(header, columns)
	if cols != nil {
		t.Errorf("expected nil column map, got %v", cols)
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingColumnsError, got %T", err)
	}
	if !reflect.DeepEqual(missing.Headers, []string{"Tag", "Range High"}) {
		t.Errorf("missing headers = %v", missing.Headers)
	}
}

func TestFixedColumns(t *testing.T) {
	cols := FixedColumns([]Column{
		{Field: "number", Position: 1},
		{Field: "tag", Position: 3},
		{Field: "unused"},
	})

	expected := ColumnMap{"number": 1, "tag": 3}
	if !reflect.DeepEqual(cols, expected) {
		t.Errorf("FixedColumns() = %v, expected %v", cols, expected)
	}
}
