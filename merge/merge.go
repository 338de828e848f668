// Package merge updates a translated PO file against a newer message
// template the way msgmerge does: the template dictates the message set
// and order, the definition file contributes the translations.
package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/tm"
)

// Option is an interface for functional options that can be passed to Merge.
type Option interface {
	apply(*options)
}

type options struct {
	noFuzzy bool
	memory  *tm.DB
}

type withoutFuzzyMatchingOption struct{}

func (withoutFuzzyMatchingOption) apply(opts *options) {
	opts.noFuzzy = true
}

// WithoutFuzzyMatching stops new template entries from recycling the
// translation of a definition entry with a near-identical msgid; they
// start out untranslated instead.
func WithoutFuzzyMatching() Option {
	return withoutFuzzyMatchingOption{}
}

type translationMemoryOption struct {
	db *tm.DB
}

func (o translationMemoryOption) apply(opts *options) {
	opts.memory = o.db
}

// WithTranslationMemory consults a translation memory for template entries
// no definition entry covers. Hits are applied and flagged fuzzy. The
// memory is queried for the Language declared by the definition header.
func WithTranslationMemory(db *tm.DB) Option {
	return translationMemoryOption{db: db}
}

func makeOptions(opts ...Option) options {
	var options options
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Merge merges the definition file def (the translated catalog) with the
// reference file ref (the up-to-date template). The result follows the
// template order; translations and translator comments come from def,
// extracted comments, source references and format flags from ref.
// Definition entries the template no longer contains are appended as
// obsolete when translated, so no translation is ever lost. New template
// entries recycle translations from renamed definition entries (flagged
// fuzzy, with "#|" previous-msgid lines) unless WithoutFuzzyMatching is
// given.
func Merge(def, ref *po.File, opts ...Option) (*po.File, error) {
	m := &merger{def: def, ref: ref, opts: makeOptions(opts...)}
	return m.run()
}

type merger struct {
	def  *po.File
	ref  *po.File
	opts options

	out      *po.File
	forms    gettext.PluralForms
	lang     string
	used     map[*po.Entry]bool
	byNorm   map[string][]*po.Entry
	obsolete map[gettext.MessageKey]*po.Entry
}

func (m *merger) run() (*po.File, error) {
	m.out = po.NewFile()
	m.used = make(map[*po.Entry]bool)
	m.forms, _ = m.def.PluralForms()

	if err := m.mergeHeader(); err != nil {
		return nil, err
	}
	m.indexDef()
	for _, e := range m.ref.Entries() {
		if e.IsHeader() || e.Obsolete {
			continue
		}
		if err := m.mergeEntry(e); err != nil {
			return nil, err
		}
	}
	if err := m.appendObsolete(); err != nil {
		return nil, err
	}
	return m.out, nil
}

// mergeHeader keeps the definition header, refreshing its
// POT-Creation-Date from the template. A definition without a header
// inherits the template header wholesale.
func (m *merger) mergeHeader() error {
	he := m.def.HeaderEntry()
	if he == nil {
		if he = m.ref.HeaderEntry(); he == nil {
			return nil
		}
		return m.out.AddEntry(he.Clone())
	}
	defHeader, err := m.def.Header()
	if err != nil {
		return fmt.Errorf("read definition header: %w", err)
	}
	m.lang = defHeader.Language()
	refHeader, err := m.ref.Header()
	if err != nil {
		return fmt.Errorf("read template header: %w", err)
	}
	out := he.Clone()
	if date := refHeader.Get(po.HeaderPOTCreationDate); date != "" {
		defHeader.Set(po.HeaderPOTCreationDate, date)
		out.Str = []string{defHeader.String()}
	}
	return m.out.AddEntry(out)
}

func (m *merger) indexDef() {
	m.byNorm = make(map[string][]*po.Entry)
	m.obsolete = make(map[gettext.MessageKey]*po.Entry)
	for _, e := range m.def.Entries() {
		switch {
		case e.IsHeader():
		case e.Obsolete:
			if _, ok := m.obsolete[e.Key()]; !ok && anyTranslated(e.Str) {
				m.obsolete[e.Key()] = e
			}
		case e.ID != "" && anyTranslated(e.Str):
			norm := normalizeID(e.ID)
			m.byNorm[norm] = append(m.byNorm[norm], e)
		}
	}
}

func (m *merger) mergeEntry(e *po.Entry) error {
	out := e.Clone()
	out.Line = 0
	out.TranslatorComments = nil
	out.PreviousContext, out.PreviousID, out.PreviousIDPlural = "", "", ""
	out.Str = m.fitForms(nil, out.IsPlural())

	switch {
	case m.carryExact(e, out):
	case m.reviveObsolete(e, out):
	default:
		if err := m.fillUnmatched(e, out); err != nil {
			return err
		}
	}
	if err := m.out.AddEntry(out); err != nil {
		return fmt.Errorf("merge template entries: %w", err)
	}
	return nil
}

// carryExact carries the translation of the definition entry with the
// same key, if any. A change of msgid_plural marks the result fuzzy.
func (m *merger) carryExact(e, out *po.Entry) bool {
	def, ok := m.def.Lookup(e.Key())
	if !ok || def.IsHeader() {
		return false
	}
	m.used[def] = true
	out.TranslatorComments = slices.Clone(def.TranslatorComments)
	if !anyTranslated(def.Str) {
		return true
	}
	out.Str = m.fitForms(def.Str, out.IsPlural())
	out.SetFuzzy(def.IsFuzzy())
	if def.IsFuzzy() {
		out.PreviousContext = def.PreviousContext
		out.PreviousID = def.PreviousID
		out.PreviousIDPlural = def.PreviousIDPlural
	}
	if def.IDPlural != out.IDPlural {
		out.SetFuzzy(true)
		if def.IDPlural != "" {
			out.PreviousIDPlural = def.IDPlural
		}
	}
	return true
}

// reviveObsolete resurrects an obsolete definition entry whose msgid
// reappeared in the template.
func (m *merger) reviveObsolete(e, out *po.Entry) bool {
	def, ok := m.obsolete[e.Key()]
	if !ok {
		return false
	}
	m.used[def] = true
	out.TranslatorComments = slices.Clone(def.TranslatorComments)
	out.Str = m.fitForms(def.Str, out.IsPlural())
	out.SetFuzzy(def.IsFuzzy())
	if def.IDPlural != "" && def.IDPlural != out.IDPlural {
		out.SetFuzzy(true)
		out.PreviousIDPlural = def.IDPlural
	}
	return true
}

// fillUnmatched handles a template entry no definition entry covers:
// first by recycling a renamed definition entry, then by consulting the
// translation memory.
func (m *merger) fillUnmatched(e, out *po.Entry) error {
	if !m.opts.noFuzzy {
		if cand := m.pickFuzzy(e); cand != nil {
			m.used[cand] = true
			out.TranslatorComments = slices.Clone(cand.TranslatorComments)
			out.Str = m.fitForms(cand.Str, out.IsPlural())
			out.SetFuzzy(true)
			out.PreviousID = cand.ID
			if cand.HasContext && cand.Context != out.Context {
				out.PreviousContext = cand.Context
			}
			if cand.IDPlural != "" && cand.IDPlural != out.IDPlural {
				out.PreviousIDPlural = cand.IDPlural
			}
			return nil
		}
	}
	if m.opts.memory == nil || m.lang == "" {
		return nil
	}
	msg, ok, err := m.opts.memory.Suggest(m.lang, e.Key())
	if err != nil {
		return fmt.Errorf("consult translation memory: %w", err)
	}
	if ok && anyTranslated(msg.Str) {
		out.Str = m.fitForms(msg.Str, out.IsPlural())
		out.SetFuzzy(true)
	}
	return nil
}

// pickFuzzy finds a translated definition entry whose normalized msgid
// matches the template entry, preferring one with the same context.
func (m *merger) pickFuzzy(e *po.Entry) *po.Entry {
	var fallback *po.Entry
	for _, c := range m.byNorm[normalizeID(e.ID)] {
		if c.Context == e.Context {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// appendObsolete appends the translated definition entries the template
// no longer contains, stripped of their extraction data.
func (m *merger) appendObsolete() error {
	for _, e := range m.def.Entries() {
		if e.IsHeader() || m.used[e] || !anyTranslated(e.Str) {
			continue
		}
		ob := e.Clone()
		ob.Obsolete = true
		ob.Line = 0
		ob.ExtractedComments = nil
		ob.References = nil
		ob.PreviousContext, ob.PreviousID, ob.PreviousIDPlural = "", "", ""
		if err := m.out.AddEntry(ob); err != nil {
			return fmt.Errorf("append obsolete entries: %w", err)
		}
	}
	return nil
}

// fitForms clips or pads a translation to the form count the entry needs:
// one form for singular entries, NPlurals of the definition language for
// plural ones.
func (m *merger) fitForms(src []string, plural bool) []string {
	if !plural {
		if len(src) == 0 {
			return []string{""}
		}
		return []string{src[0]}
	}
	n := m.forms.NPlurals
	if n < 1 {
		n = 1
	}
	out := make([]string, n)
	copy(out, src)
	return out
}

func normalizeID(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func anyTranslated(strs []string) bool {
	for _, s := range strs {
		if s != "" {
			return true
		}
	}
	return false
}
