// Package jsoncat converts between PO catalogs and the flat JSON catalog
// files web frameworks exchange: string values keyed by message, nested
// objects flattened with dots, plural messages as small form objects.
package jsoncat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultContextSeparator joins a message context and ID into one JSON key.
const DefaultContextSeparator = "|"

// Option is an interface for functional options that can be passed to
// Import and Export.
type Option interface {
	apply(*options)
}

type options struct {
	keyAsID bool
	ctxSep  string
}

type keyAsIDOption struct{}

func (keyAsIDOption) apply(opts *options) {
	opts.keyAsID = true
}

// WithKeyAsID treats JSON keys as opaque message identifiers: the
// flattened key becomes the msgid verbatim and no context separator
// splitting is applied. Without it keys are read as source text,
// optionally context-qualified as "context|id".
func WithKeyAsID() Option {
	return keyAsIDOption{}
}

type contextSeparatorOption struct {
	sep string
}

func (o contextSeparatorOption) apply(opts *options) {
	opts.ctxSep = o.sep
}

// WithContextSeparator replaces the "|" between a context and an ID in
// JSON keys, on both import and export.
func WithContextSeparator(sep string) Option {
	return contextSeparatorOption{sep: sep}
}

func makeOptions(opts ...Option) options {
	options := options{ctxSep: DefaultContextSeparator}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Import reads a JSON catalog into messages. Nested objects flatten into
// dot-joined keys; an object whose keys are all plural categories ("one",
// "other", ...) or all single-digit indexes is read as the forms of one
// plural message. Values must be strings.
func Import(data []byte, opts ...Option) ([]gettext.Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON catalog")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("JSON catalog must be an object")
	}
	im := &importer{opts: makeOptions(opts...)}
	if err := im.walk(root, ""); err != nil {
		return nil, err
	}
	return im.msgs, nil
}

type importer struct {
	opts options
	msgs []gettext.Message
}

func (im *importer) walk(obj gjson.Result, prefix string) error {
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		switch {
		case value.Type == gjson.String:
			im.add(name, []string{value.String()}, false)
		case value.IsObject():
			if forms, ok := pluralObjectForms(value); ok {
				im.add(name, forms, true)
				break
			}
			err = im.walk(value, name)
			return err == nil
		default:
			err = fmt.Errorf("value of %q is not a string or object", name)
			return false
		}
		return true
	})
	return err
}

// add records one message. The JSON carries no separate untranslated
// plural, so the ID doubles as msgid_plural to keep the message
// plural-shaped.
func (im *importer) add(name string, forms []string, plural bool) {
	msg := gettext.Message{ID: name, Str: forms}
	if !im.opts.keyAsID && im.opts.ctxSep != "" {
		if ctx, id, found := strings.Cut(name, im.opts.ctxSep); found {
			msg.Context, msg.ID = ctx, id
		}
	}
	if plural {
		msg.IDPlural = msg.ID
	}
	im.msgs = append(im.msgs, msg)
}

var pluralCategories = []string{"zero", "one", "two", "few", "many", "other"}

// pluralObjectForms reads an object as the forms of a plural message.
// Category keys order by CLDR rank, digit keys by index. Anything else,
// a non-string value included, makes the object a nested group instead.
func pluralObjectForms(obj gjson.Result) ([]string, bool) {
	type pair struct {
		key string
		val gjson.Result
	}
	var pairs []pair
	allDigits, allCategories := true, true
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		pairs = append(pairs, pair{key: key, val: v})
		if !isPluralIndex(key) {
			allDigits = false
		}
		if !isPluralCategory(key) {
			allCategories = false
		}
		return true
	})
	if len(pairs) == 0 || (!allDigits && !allCategories) {
		return nil, false
	}
	for _, p := range pairs {
		if p.val.Type != gjson.String {
			return nil, false
		}
	}
	if allDigits {
		var forms []string
		for _, p := range pairs {
			i, _ := strconv.Atoi(p.key)
			for len(forms) <= i {
				forms = append(forms, "")
			}
			forms[i] = p.val.String()
		}
		return forms, true
	}
	forms := make([]string, 0, len(pairs))
	for _, cat := range pluralCategories {
		for _, p := range pairs {
			if p.key == cat {
				forms = append(forms, p.val.String())
			}
		}
	}
	return forms, true
}

func isPluralIndex(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '5'
}

func isPluralCategory(key string) bool {
	for _, cat := range pluralCategories {
		if key == cat {
			return true
		}
	}
	return false
}

// Export renders the live entries of a file as a flat JSON object in
// entry order. Plural entries become an object keyed by form index,
// context-qualified entries render their key as "context|id".
func Export(f *po.File, opts ...Option) ([]byte, error) {
	o := makeOptions(opts...)
	root := orderedmap.New[string, any]()
	for _, e := range f.Entries() {
		if e.IsHeader() || e.Obsolete {
			continue
		}
		key := e.ID
		if e.HasContext {
			key = e.Context + o.ctxSep + key
		}
		if e.IsPlural() {
			forms := orderedmap.New[string, string]()
			for i, s := range e.Str {
				forms.Set(strconv.Itoa(i), s)
			}
			root.Set(key, forms)
			continue
		}
		s := ""
		if len(e.Str) > 0 {
			s = e.Str[0]
		}
		root.Set(key, s)
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render JSON catalog: %w", err)
	}
	return append(out, '\n'), nil
}
