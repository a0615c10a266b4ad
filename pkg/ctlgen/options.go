// Package ctlgen converts control-system configuration workbooks into text
// exports described by template workbooks.
package ctlgen

import (
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/store"
)

// DefaultSeparator joins template data tokens.
const DefaultSeparator = ","

// Options configures a conversion.
type Options struct {
	// Separator joins the tokens of every template line.
	Separator string
	// Workers bounds the number of template sheets rendered at once.
	Workers int
	// Overrides adjusts table layouts by table name.
	Overrides map[string]store.Override
	// Logger receives progress and warnings. Nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Separator: DefaultSeparator,
		Workers:   1,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o Options) storeOptions() []store.Option {
	var opts []store.Option
	for name, ov := range o.Overrides {
		opts = append(opts, store.WithOverride(name, ov))
	}
	return opts
}
