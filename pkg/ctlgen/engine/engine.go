// Package engine renders parsed template sheets into output text by walking
// each group tree and routing data lines to renderers by type.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/rule"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/template"
)

// ErrDuplicateRenderer indicates two renderers registered for one type.
var ErrDuplicateRenderer = errors.New("duplicate renderer type")

// Renderer turns template lines into output text for one line type.
type Renderer interface {
	// Type is the template TYPE value routed to this renderer.
	Type() string
	// RenderInputGroup renders every record of the renderer's table against
	// the group's data lines of its type.
	RenderInputGroup(g *template.Group, sep string) (string, error)
	// RenderLine renders one data line. joined is the line's tokens joined by
	// the separator. With single set, at most one output line is produced.
	RenderLine(sheetName, joined string, line *template.Line, single bool) (string, error)
}

// Engine renders groups with a fixed set of renderers. It holds no state
// between calls and may render several sheets at once.
type Engine struct {
	separator string
	logger    *zap.Logger
	renderers map[string]Renderer
	order     []Renderer
}

// New creates an engine that joins tokens with separator.
func New(separator string, logger *zap.Logger, renderers ...Renderer) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		separator: separator,
		logger:    logger,
		renderers: make(map[string]Renderer, len(renderers)),
	}
	for _, r := range renderers {
		if err := e.register(r); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) register(r Renderer) error {
	typ := r.Type()
	if _, ok := e.renderers[typ]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRenderer, typ)
	}
	e.renderers[typ] = r
	e.order = append(e.order, r)
	return nil
}

// Separator returns the token separator.
func (e *Engine) Separator() string {
	return e.separator
}

// Types returns the registered renderer types in registration order.
func (e *Engine) Types() []string {
	types := make([]string, len(e.order))
	for i, r := range e.order {
		types[i] = r.Type()
	}
	return types
}

// Render renders g and its descendants: headers, then the group's data
// according to its mode, then child groups in order, then footers. Lines are
// joined with newlines.
func (e *Engine) Render(g *template.Group) (string, error) {
	var lines []string
	if err := e.render(g, &lines); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (e *Engine) render(g *template.Group, lines *[]string) error {
	for _, h := range g.Headers {
		*lines = append(*lines, h.Joined(e.separator))
	}

	switch g.Mode {
	case template.ByInput:
		for _, r := range e.order {
			out, err := r.RenderInputGroup(g, e.separator)
			if err != nil {
				return fmt.Errorf("renderer %s: %w", r.Type(), err)
			}
			appendText(lines, out)
		}

	case template.Singleton, template.ByOutput:
		single := g.Mode == template.Singleton
		for _, l := range g.Data {
			if err := e.renderLine(g, l, single, lines); err != nil {
				return err
			}
		}
	}

	for _, child := range g.Groups {
		if err := e.render(child, lines); err != nil {
			return err
		}
	}

	for _, f := range g.Footers {
		*lines = append(*lines, f.Joined(e.separator))
	}
	return nil
}

func (e *Engine) renderLine(g *template.Group, l *template.Line, single bool, lines *[]string) error {
	name := sheetName(g)

	r, ok := e.renderers[l.Type]
	if !ok {
		e.logger.Debug("no renderer for line type",
			zap.String("sheet", name),
			zap.Int("row", l.Row),
			zap.String("type", l.Type))
		return nil
	}

	// Rules with placeholders depend on the record and are left to the renderer.
	if !rule.HasPlaceholder(l.Rule) && !rule.Allow(l.Rule, e.logger.With(zap.String("sheet", name), zap.Int("row", l.Row))) {
		return nil
	}

	out, err := r.RenderLine(name, l.Joined(e.separator), l, single)
	if err != nil {
		return fmt.Errorf("renderer %s row %d: %w", l.Type, l.Row, err)
	}
	appendText(lines, out)
	return nil
}

func appendText(lines *[]string, text string) {
	if text == "" {
		return
	}
	*lines = append(*lines, text)
}

func sheetName(g *template.Group) string {
	if g.Sheet == nil {
		return ""
	}
	return g.Sheet.Name
}
