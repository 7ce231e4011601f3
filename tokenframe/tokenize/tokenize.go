// Package tokenize is the entry point that turns every row of a string
// frame into a marker-delimited token stream.
package tokenize

import (
	"context"

	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/engine"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/frame"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/tokenizer"
)

// Options carries the tokenizer and engine settings for one Transform call.
type Options struct {
	Tokenizer []tokenizer.Option
	Task      []engine.TaskOption
}

// Option configures Transform.
type Option func(*Options)

// WithTokenizerOptions appends options passed to the strategy selector.
func WithTokenizerOptions(opts ...tokenizer.Option) Option {
	return func(o *Options) { o.Tokenizer = append(o.Tokenizer, opts...) }
}

// WithTaskOptions appends options passed to the row tokenization task.
func WithTaskOptions(opts ...engine.TaskOption) Option {
	return func(o *Options) { o.Task = append(o.Task, opts...) }
}

// Transform tokenizes f with the strategy named by spec. Column types are
// checked before any tokenizer is built, so a non-string frame fails without
// touching the network or the vocab file.
func Transform(ctx context.Context, f *frame.Frame, spec string, opts ...Option) (*frame.Frame, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if err := engine.CheckStringColumns(f); err != nil {
		return nil, err
	}

	tok, err := tokenizer.Select(spec, o.Tokenizer...)
	if err != nil {
		return nil, common.WrapError(err, "select tokenizer for %q", spec)
	}

	return engine.NewTask(tok, o.Task...).Transform(ctx, f)
}
