// Package render provides the default renderers: one per configuration
// table, substituting {FIELD} placeholders with record values, plus a TEXT
// renderer for static lines.
package render

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/engine"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/rule"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/store"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/template"
)

// Placeholders available on every line.
const (
	FieldSheet = "SHEET"
	FieldIndex = "INDEX"
)

// TypeText is the line type of the static text renderer.
const TypeText = "TEXT"

// Defaults returns the renderers for every store table plus TEXT, in the
// order ByInput groups render them.
func Defaults(st *store.Store, logger *zap.Logger) []engine.Renderer {
	return []engine.Renderer{
		NewTable("ALM", store.TableAlarms, st, logger),
		NewTable("SD", store.TableShutdowns, st, logger),
		NewTable("SDG", store.TableShutdownGeneral, st, logger),
		NewTable("ANLG", store.TableAnalogInputs, st, logger),
		NewTable("DISC", store.TableDiscreteInputs, st, logger),
		NewTable("MODBUS", store.TableModbusMap, st, logger),
		NewTable("STATUS", store.TableStatus, st, logger),
		NewTable("TIMER", store.TableTimers, st, logger),
		NewTable("VOTE", store.TableVoting, st, logger),
		NewText(logger),
	}
}

// Table renders the records of one store table.
type Table struct {
	typ    string
	table  string
	store  *store.Store
	logger *zap.Logger
}

// NewTable returns a renderer for lines of type typ backed by table.
func NewTable(typ, table string, st *store.Store, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{typ: typ, table: table, store: st, logger: logger}
}

func (r *Table) Type() string { return r.typ }

// RenderInputGroup renders, for each record in table order, every data line
// of the group with this renderer's type whose rule allows the record.
func (r *Table) RenderInputGroup(g *template.Group, sep string) (string, error) {
	lines := g.DataOfType(r.typ)
	if len(lines) == 0 {
		return "", nil
	}

	name := ""
	if g.Sheet != nil {
		name = g.Sheet.Name
	}

	var out []string
	for i, rec := range r.store.Records(r.table) {
		fields := r.fields(rec, name, i+1)
		for _, l := range lines {
			if !r.allow(l, fields) {
				continue
			}
			out = append(out, Substitute(l.Joined(sep), fields))
		}
	}
	return strings.Join(out, "\n"), nil
}

// RenderLine renders joined once per record the line's rule allows. With
// single set only the first such record is rendered.
func (r *Table) RenderLine(sheetName, joined string, line *template.Line, single bool) (string, error) {
	var out []string
	for i, rec := range r.store.Records(r.table) {
		fields := r.fields(rec, sheetName, i+1)
		if !r.allow(line, fields) {
			continue
		}
		out = append(out, Substitute(joined, fields))
		if single {
			break
		}
	}

	if len(out) == 0 {
		r.logger.Debug("no records rendered",
			zap.String("sheet", sheetName),
			zap.Int("row", line.Row),
			zap.String("type", r.typ))
	}
	return strings.Join(out, "\n"), nil
}

func (r *Table) fields(rec sheet.Record, sheetName string, index int) map[string]string {
	f := r.store.Fields(rec)
	f[FieldSheet] = sheetName
	f[FieldIndex] = strconv.Itoa(index)
	return f
}

func (r *Table) allow(l *template.Line, fields map[string]string) bool {
	if l.Rule == "" {
		return true
	}
	return rule.Allow(rule.Expand(l.Rule, lookup(fields)), r.logger.With(zap.Int("row", l.Row)))
}

// Text renders lines verbatim apart from {SHEET}.
type Text struct {
	logger *zap.Logger
}

// NewText returns the static text renderer.
func NewText(logger *zap.Logger) *Text {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Text{logger: logger}
}

func (t *Text) Type() string { return TypeText }

// RenderInputGroup renders the group's TEXT lines once each.
func (t *Text) RenderInputGroup(g *template.Group, sep string) (string, error) {
	name := ""
	if g.Sheet != nil {
		name = g.Sheet.Name
	}

	var out []string
	for _, l := range g.DataOfType(TypeText) {
		fields := map[string]string{FieldSheet: name}
		if l.Rule != "" && !rule.Allow(rule.Expand(l.Rule, lookup(fields)), t.logger) {
			continue
		}
		out = append(out, Substitute(l.Joined(sep), fields))
	}
	return strings.Join(out, "\n"), nil
}

func (t *Text) RenderLine(sheetName, joined string, line *template.Line, single bool) (string, error) {
	fields := map[string]string{FieldSheet: sheetName}
	if rule.HasPlaceholder(line.Rule) && !rule.Allow(rule.Expand(line.Rule, lookup(fields)), t.logger) {
		return "", nil
	}
	return Substitute(joined, fields), nil
}

// Substitute replaces each {NAME} in text with fields[NAME]. Names are
// matched case-insensitively; unknown placeholders are left as written.
func Substitute(text string, fields map[string]string) string {
	if !strings.Contains(text, "{") {
		return text
	}

	find := lookup(fields)

	var b strings.Builder
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			break
		}
		end += open

		name := text[open+1 : end]
		value, ok := find(name)
		if !ok || strings.ContainsAny(name, "{") {
			// not a placeholder; emit the brace and rescan after it
			b.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}

		b.WriteString(text[:open])
		b.WriteString(value)
		text = text[end+1:]
	}
	b.WriteString(text)
	return b.String()
}

// lookup resolves placeholder names against fields, ignoring case and
// surrounding space.
func lookup(fields map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := fields[strings.ToUpper(strings.TrimSpace(name))]
		return v, ok
	}
}
