/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

// ParserOption is an interface for functional options that can be passed to the NewParser constructor.
type ParserOption interface {
	apply(*parserOptions)
}

type parserOptions struct {
	maxDepth int
}

type maxDepthParserOption int

func (o maxDepthParserOption) apply(opts *parserOptions) {
	opts.maxDepth = int(o)
}

// WithMaxDepth limits how deeply nested a parsed formula may be.
// Zero or negative values select the default limit.
func WithMaxDepth(n int) ParserOption {
	return maxDepthParserOption(n)
}

func makeParserOptions(opts ...ParserOption) parserOptions {
	var options parserOptions
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
