package engine

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/template"
)

// Output is the rendered text of one template sheet.
type Output struct {
	// Sheet is the template worksheet name.
	Sheet string
	// Name is the output name, from FILENAME: or the sheet name.
	Name string
	Text string
	// Ignored is set for sheets marked IGNORE SHEET:.
	Ignored bool
}

// RenderSheet renders the root group of s. Ignored sheets are returned with
// Ignored set and no text.
func (e *Engine) RenderSheet(s *template.Sheet) (Output, error) {
	out := Output{Sheet: s.Name, Name: s.OutputName, Ignored: s.Ignore}
	if out.Name == "" {
		out.Name = s.Name
	}
	if s.Ignore {
		e.logger.Info("sheet ignored", zap.String("sheet", s.Name))
		return out, nil
	}

	text, err := e.Render(s.Root)
	if err != nil {
		return Output{}, fmt.Errorf("sheet %q: %w", s.Name, err)
	}
	out.Text = text
	return out, nil
}

// RenderDocument renders sheets using up to workers goroutines and returns
// the outputs of the rendered sheets in document order. A sheet that fails
// is logged and reported in the returned error; the other sheets are still
// rendered. Ignored sheets are left out.
func (e *Engine) RenderDocument(ctx context.Context, sheets []*template.Sheet, workers int) ([]Output, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Output, len(sheets))
	errs := make([]error, len(sheets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range sheets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := e.RenderSheet(s)
			if err != nil {
				e.logger.Error("sheet render failed", zap.String("sheet", s.Name), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		outputs []Output
		result  *multierror.Error
	)
	for i := range sheets {
		if errs[i] != nil {
			result = multierror.Append(result, errs[i])
			continue
		}
		if results[i].Ignored {
			continue
		}
		outputs = append(outputs, results[i])
	}

	return outputs, result.ErrorOrNil()
}
