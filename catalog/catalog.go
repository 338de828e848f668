// Package catalog provides the immutable runtime lookup over translated
// messages. A catalog is built once and is safe for concurrent use without
// locking.
package catalog

import (
	"fmt"
	"slices"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
)

// Option is an interface for functional options that can be passed to the
// catalog constructors.
type Option interface {
	apply(*options)
}

type options struct {
	language string
	forms    gettext.PluralForms
}

type languageOption struct {
	language string
}

func (o languageOption) apply(opts *options) {
	opts.language = o.language
}

// WithLanguage overrides the language of the catalog, normally taken from
// the Language header field.
func WithLanguage(language string) Option {
	return languageOption{language: language}
}

type pluralFormsOption struct {
	forms gettext.PluralForms
}

func (o pluralFormsOption) apply(opts *options) {
	opts.forms = o.forms
}

// WithPluralForms overrides the plural rule of the catalog, normally taken
// from the Plural-Forms header field.
func WithPluralForms(forms gettext.PluralForms) Option {
	return pluralFormsOption{forms: forms}
}

func makeOptions(opts ...Option) options {
	var options options
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Catalog is a read-only set of translations for one language. All lookups
// fall back to the untranslated text, so a nil or empty catalog still
// produces usable output.
type Catalog struct {
	language string
	forms    gettext.PluralForms
	header   *po.Header
	index    map[gettext.MessageKey]gettext.Message
	keys     []gettext.MessageKey
}

// New builds a catalog from semantic messages. The plural rule resolves in
// order: WithPluralForms, the default rule of the language, the Germanic
// fallback.
func New(msgs []gettext.Message, opts ...Option) *Catalog {
	options := makeOptions(opts...)
	c := &Catalog{
		language: options.language,
		forms:    resolveForms(options, options.language),
		header:   po.NewHeader(),
		index:    make(map[gettext.MessageKey]gettext.Message, len(msgs)),
	}
	for _, m := range msgs {
		c.add(m)
	}
	return c
}

// FromPOFile builds a catalog from a parsed PO file. Language and plural
// rule come from the header unless overridden; a malformed Plural-Forms
// declaration is an error.
func FromPOFile(file *po.File, opts ...Option) (*Catalog, error) {
	options := makeOptions(opts...)

	header, err := file.Header()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	language := options.language
	if language == "" {
		language = header.Language()
	}

	forms := options.forms
	if forms.IsZero() {
		forms, err = header.PluralForms()
		if err != nil {
			return nil, fmt.Errorf("parse plural forms: %w", err)
		}
	}
	if forms.IsZero() {
		forms = defaultForms(language)
	}

	c := &Catalog{
		language: language,
		forms:    forms,
		header:   header,
		index:    make(map[gettext.MessageKey]gettext.Message, file.Len()),
	}
	for _, m := range file.Messages() {
		c.add(m)
	}
	return c, nil
}

// FromMOFile builds a catalog from a decoded MO file. Compiled catalogs are
// plain PO models without comments, so the construction is the same.
func FromMOFile(file *po.File, opts ...Option) (*Catalog, error) {
	return FromPOFile(file, opts...)
}

func resolveForms(options options, language string) gettext.PluralForms {
	if !options.forms.IsZero() {
		return options.forms
	}
	return defaultForms(language)
}

func defaultForms(language string) gettext.PluralForms {
	if forms, ok := gettext.DefaultPluralForms(language); ok {
		return forms
	}
	return gettext.GermanicPluralForms
}

func (c *Catalog) add(m gettext.Message) {
	key := m.Key()
	if _, ok := c.index[key]; !ok {
		c.keys = append(c.keys, key)
	}
	m.Str = slices.Clone(m.Str)
	c.index[key] = m
}

// Get returns the translation of id, or id itself when the catalog has
// none. Args, when given, are expanded with fmt.Sprintf.
func (c *Catalog) Get(id string, args ...any) string {
	return expand(c.resolve("", id), args)
}

// GetC returns the translation of id qualified by a context.
func (c *Catalog) GetC(ctx, id string, args ...any) string {
	return expand(c.resolve(ctx, id), args)
}

// GetN returns the plural form of the translation appropriate for n. An
// untranslated message falls back to id for n == 1 and plural otherwise.
func (c *Catalog) GetN(id, plural string, n int, args ...any) string {
	return expand(c.resolveN("", id, plural, n), args)
}

// GetNC returns the plural form of a context-qualified translation.
func (c *Catalog) GetNC(ctx, id, plural string, n int, args ...any) string {
	return expand(c.resolveN(ctx, id, plural, n), args)
}

// Translate returns the translation of a context-qualified id, reporting
// whether the catalog has a non-empty one. Use ctx == "" for plain messages.
func (c *Catalog) Translate(ctx, id string) (string, bool) {
	if c == nil {
		return "", false
	}
	m, ok := c.index[gettext.MessageKey{Context: ctx, ID: id}]
	if !ok || len(m.Str) == 0 || m.Str[0] == "" {
		return "", false
	}
	return m.Str[0], true
}

// TranslateN returns the plural form appropriate for n of a
// context-qualified translation, reporting whether the catalog has one.
func (c *Catalog) TranslateN(ctx, id string, n int) (string, bool) {
	if c == nil {
		return "", false
	}
	m, ok := c.index[gettext.MessageKey{Context: ctx, ID: id}]
	if !ok {
		return "", false
	}
	idx := c.forms.Index(n)
	if idx >= len(m.Str) || m.Str[idx] == "" {
		return "", false
	}
	return m.Str[idx], true
}

// Lookup returns a copy of the message stored under a context and id.
func (c *Catalog) Lookup(ctx, id string) (gettext.Message, bool) {
	if c == nil {
		return gettext.Message{}, false
	}
	m, ok := c.index[gettext.MessageKey{Context: ctx, ID: id}]
	if !ok {
		return gettext.Message{}, false
	}
	m.Str = slices.Clone(m.Str)
	return m, true
}

func (c *Catalog) resolve(ctx, id string) string {
	if s, ok := c.Translate(ctx, id); ok {
		return s
	}
	return id
}

func (c *Catalog) resolveN(ctx, id, plural string, n int) string {
	if s, ok := c.TranslateN(ctx, id, n); ok {
		return s
	}
	if n == 1 {
		return id
	}
	return plural
}

func expand(s string, args []any) string {
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// Language returns the language of the catalog.
func (c *Catalog) Language() string {
	if c == nil {
		return ""
	}
	return c.language
}

// PluralForms returns the plural rule the catalog resolves plural lookups
// with.
func (c *Catalog) PluralForms() gettext.PluralForms {
	if c == nil {
		return gettext.GermanicPluralForms
	}
	return c.forms
}

// Header returns a header field of the source file, "" when absent.
func (c *Catalog) Header(name string) string {
	if c == nil {
		return ""
	}
	return c.header.Get(name)
}

// Len returns the number of messages.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Messages returns a copy of the messages in their original order.
func (c *Catalog) Messages() []gettext.Message {
	if c == nil {
		return nil
	}
	msgs := make([]gettext.Message, 0, len(c.keys))
	for _, key := range c.keys {
		m := c.index[key]
		m.Str = slices.Clone(m.Str)
		msgs = append(msgs, m)
	}
	return msgs
}
