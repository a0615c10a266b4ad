package ctlgen

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/engine"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/parser"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/render"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/rule"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/store"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/template"
)

// Result describes one conversion.
type Result struct {
	// Tables maps every table name to its imported row count.
	Tables map[string]int
	// Templates lists the parsed template sheets in document order.
	Templates []*template.Sheet
	// Outputs holds the rendered sheets in document order. Check leaves it
	// empty.
	Outputs []engine.Output
}

// Convert imports the tables of the data workbook, parses the template
// workbook and renders every template sheet.
//
// A table, template sheet or rendered sheet that fails is reported in the
// returned error as a *ConversionError while the rest of the conversion
// goes on, so a non-nil Result may come with a non-nil error. Missing or
// unreadable workbooks and cancellation stop the conversion.
func Convert(ctx context.Context, dataPath, templatePath string, opts Options) (*Result, error) {
	logger := opts.logger()

	st, res, result, err := prepare(dataPath, templatePath, opts)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(opts.separator(), logger, render.Defaults(st, logger)...)
	if err != nil {
		return nil, err
	}

	outputs, err := eng.RenderDocument(ctx, res.Templates, opts.Workers)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		result = multierror.Append(result, NewConversionError("", ComponentRender, err))
	}
	res.Outputs = outputs

	logger.Info("conversion finished",
		zap.Int("templates", len(res.Templates)),
		zap.Int("outputs", len(outputs)))

	return res, result.ErrorOrNil()
}

// Check imports the tables and parses the template like Convert, then
// compiles every rule that does not depend on record fields. Nothing is
// rendered.
func Check(dataPath, templatePath string, opts Options) (*Result, error) {
	logger := opts.logger()

	_, res, result, err := prepare(dataPath, templatePath, opts)
	if err != nil {
		return nil, err
	}

	for _, s := range res.Templates {
		for _, err := range checkRules(s.Root) {
			result = multierror.Append(result, NewConversionError(s.Name, ComponentTemplate, err))
		}
	}

	logger.Info("check finished",
		zap.Int("templates", len(res.Templates)),
		zap.Int("problems", len(result.WrappedErrors())))

	return res, result.ErrorOrNil()
}

func prepare(dataPath, templatePath string, opts Options) (*store.Store, *Result, *multierror.Error, error) {
	logger := opts.logger()

	data, err := openWorkbook(dataPath)
	if err != nil {
		return nil, nil, nil, NewConversionError("", ComponentData, err)
	}
	tpl, err := openWorkbook(templatePath)
	if err != nil {
		return nil, nil, nil, NewConversionError("", ComponentTemplate, err)
	}

	var result *multierror.Error

	st := store.New(logger, opts.storeOptions()...)
	if err := st.Load(data); err != nil {
		result = multierror.Append(result, NewConversionError("", ComponentTables, err))
	}

	res := &Result{Tables: make(map[string]int)}
	for _, name := range store.TableNames() {
		res.Tables[name] = st.Len(name)
	}

	sheets, err := template.ParseDocument(tpl.Sheets(), tpl.Widths(), logger)
	if err != nil {
		result = multierror.Append(result, NewConversionError("", ComponentTemplate, err))
	}
	res.Templates = sheets

	return st, res, result, nil
}

func openWorkbook(path string) (*parser.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	wb, err := parser.OpenWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	return wb, nil
}

// checkRules compiles the rules of g and its children.
func checkRules(g *template.Group) []error {
	var errs []error
	for _, l := range g.Data {
		if l.Rule == "" || rule.HasPlaceholder(l.Rule) {
			continue
		}
		if _, err := rule.Compile(l.Rule); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", l.Row, err))
		}
	}
	for _, child := range g.Groups {
		errs = append(errs, checkRules(child)...)
	}
	return errs
}
