// Package mo reads and writes the GNU MO binary catalog format.
//
// The layout follows the documented format: a seven-word header, two tables
// of (length, offset) pairs addressing NUL-terminated strings, originals
// sorted bytewise. Context is joined to the original with an EOT byte,
// plural forms are NUL-joined, exactly as libintl expects them.
package mo

import (
	"errors"
)

const (
	magicLittleEndian = 0x950412de
	magicBigEndian    = 0xde120495

	headerSize    = 28
	tableItemSize = 8
)

// ErrBadMagic is returned when the input does not start with the MO magic
// number in either byte order.
var ErrBadMagic = errors.New("not an MO file")

// EncodeOption is an interface for functional options that can be passed to
// the encoding functions.
type EncodeOption interface {
	apply(*encodeOptions)
}

type encodeOptions struct {
	useFuzzy bool
}

type useFuzzyEncodeOption struct{}

func (useFuzzyEncodeOption) apply(opts *encodeOptions) {
	opts.useFuzzy = true
}

// WithUseFuzzy includes fuzzy translations in the output, the way
// "msgfmt --use-fuzzy" does. Without it fuzzy entries are dropped.
func WithUseFuzzy() EncodeOption {
	return useFuzzyEncodeOption{}
}

func makeEncodeOptions(opts ...EncodeOption) encodeOptions {
	var options encodeOptions
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}
