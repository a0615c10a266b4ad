package ctlgen

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates an input workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates an input file is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// Conversion components reported by ConversionError.
const (
	ComponentData     = "data"
	ComponentTables   = "tables"
	ComponentTemplate = "template"
	ComponentRender   = "render"
)

// ConversionError represents a failure in one stage of a conversion.
type ConversionError struct {
	SheetName string
	Component string // "data", "tables", "template", "render"
	Err       error
}

func (e *ConversionError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("conversion error (%s): %v", e.Component, e.Err)
	}
	return fmt.Sprintf("conversion error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(sheetName, component string, err error) *ConversionError {
	return &ConversionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
