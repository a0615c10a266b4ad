package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// Parse builds the group tree of one template worksheet. width is the last
// data column to read for data lines; values below the DATA column fall back
// to the widest row of s.
//
// A sheet without the template header row returns ErrNotTemplate. An
// END_GROUP at the root fails the sheet with ErrUnbalancedGroup. Groups left
// open at the end of the sheet are closed with a warning.
func Parse(s sheet.Sheet, width int, logger *zap.Logger) (*Sheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width < colData {
		width = s.Width()
	}

	header, ok := s.FirstNonBlank()
	if !ok || !isHeader(header) {
		return nil, fmt.Errorf("sheet %q: %w", s.Name, ErrNotTemplate)
	}

	out := &Sheet{Name: s.Name, OutputName: s.Name}
	out.Root = &Group{Mode: Singleton, Sheet: out}
	current := out.Root

	for _, row := range s.Rows {
		if row.Index <= header.Index || row.Blank() {
			continue
		}

		typ := row.Text(colType)
		switch typ {
		case TypeComment:
			continue

		case TypeSetting:
			applySetting(out, row, logger)

		case TypeHeader:
			current.Headers = append(current.Headers, newLine(row, leadingTokens(row)))

		case TypeFooter:
			current.Footers = append(current.Footers, newLine(row, leadingTokens(row)))

		case TypeGroupByInput, TypeGroupByOutput, TypeGroupBySingle:
			child := &Group{Mode: groupMode(typ), Parent: current, Sheet: out}
			current.Groups = append(current.Groups, child)
			current = child

		case TypeEndGroup:
			if current.Parent == nil {
				logger.Error("END_GROUP without open group",
					zap.String("sheet", s.Name),
					zap.Int("row", row.Index))
				return nil, fmt.Errorf("sheet %q row %d: %w", s.Name, row.Index, ErrUnbalancedGroup)
			}
			current = current.Parent

		default:
			current.Data = append(current.Data, newLine(row, dataTokens(row, width)))
		}
	}

	if depth := current.Depth(); depth > 0 {
		logger.Warn("groups left open at end of sheet",
			zap.String("sheet", s.Name),
			zap.Int("open", depth))
	}

	logger.Debug("parsed template sheet",
		zap.String("sheet", s.Name),
		zap.String("output", out.OutputName),
		zap.Bool("ignore", out.Ignore))

	return out, nil
}

// ParseDocument parses every template worksheet in order. Worksheets without
// the template header are skipped. A sheet that fails to parse is reported
// in the returned error while the remaining sheets are still parsed. widths
// maps worksheet names to their data width; missing entries use the widest
// row.
func ParseDocument(sheets []sheet.Sheet, widths map[string]int, logger *zap.Logger) ([]*Sheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		parsed []*Sheet
		result *multierror.Error
	)

	for _, s := range sheets {
		t, err := Parse(s, widths[s.Name], logger)
		if err != nil {
			if errors.Is(err, ErrNotTemplate) {
				logger.Debug("skipping non-template sheet", zap.String("sheet", s.Name))
				continue
			}
			result = multierror.Append(result, err)
			continue
		}
		parsed = append(parsed, t)
	}

	return parsed, result.ErrorOrNil()
}

func isHeader(row sheet.Row) bool {
	for i, want := range headerRow {
		if row.Text(i+1) != want {
			return false
		}
	}
	return true
}

func applySetting(out *Sheet, row sheet.Row, logger *zap.Logger) {
	value := row.Text(colData)

	switch strings.ToUpper(row.Text(colSubType)) {
	case SettingFilename:
		if value != "" {
			out.OutputName = value
		}
	case SettingIgnoreSheet:
		out.Ignore = strings.EqualFold(value, "TRUE")
	default:
		logger.Warn("unknown template setting",
			zap.String("sheet", out.Name),
			zap.Int("row", row.Index),
			zap.String("setting", row.Text(colSubType)))
	}
}

func groupMode(typ string) Mode {
	switch typ {
	case TypeGroupByInput:
		return ByInput
	case TypeGroupByOutput:
		return ByOutput
	default:
		return Singleton
	}
}

func newLine(row sheet.Row, tokens []string) *Line {
	return &Line{
		Type:    row.Text(colType),
		SubType: row.Text(colSubType),
		Rule:    row.Text(colRule),
		Tokens:  tokens,
		Row:     row.Index,
	}
}

// leadingTokens reads DATA columns up to the first blank cell, untrimmed.
func leadingTokens(row sheet.Row) []string {
	var tokens []string
	for col := colData; ; col++ {
		if _, ok := row.Cell(col); !ok {
			return tokens
		}
		tokens = append(tokens, row.Raw(col))
	}
}

// dataTokens reads every DATA column up to width, keeping blanks. Token text
// is kept untrimmed.
func dataTokens(row sheet.Row, width int) []string {
	if width < colData {
		return nil
	}
	tokens := make([]string, 0, width-colData+1)
	for col := colData; col <= width; col++ {
		tokens = append(tokens, row.Raw(col))
	}
	return tokens
}
