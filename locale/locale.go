package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale resolves messages for one language. Lookups consult the catalog of
// the exact language first, then its parents (pt-BR falls back to pt), and
// finally return the untranslated text, so a Locale always produces usable
// output.
type Locale struct {
	store *Store
	tag   language.Tag
}

// Tag returns the language of the locale.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// Get returns the translation of id. Args, when given, are expanded with
// fmt.Sprintf.
func (l *Locale) Get(id string, args ...any) string {
	return expand(l.lookup("", id), args)
}

// GetC returns the translation of id qualified by a context.
func (l *Locale) GetC(ctx, id string, args ...any) string {
	return expand(l.lookup(ctx, id), args)
}

// GetN returns the plural form of the translation appropriate for n. An
// untranslated message falls back to id for n == 1 and plural otherwise.
func (l *Locale) GetN(id, plural string, n int, args ...any) string {
	return expand(l.lookupN("", id, plural, n), args)
}

// GetNC returns the plural form of a context-qualified translation.
func (l *Locale) GetNC(ctx, id, plural string, n int, args ...any) string {
	return expand(l.lookupN(ctx, id, plural, n), args)
}

func (l *Locale) lookup(ctx, id string) string {
	for _, c := range l.store.chain(l.tag) {
		if s, ok := c.Translate(ctx, id); ok {
			return s
		}
	}
	return id
}

func (l *Locale) lookupN(ctx, id, plural string, n int) string {
	for _, c := range l.store.chain(l.tag) {
		if s, ok := c.TranslateN(ctx, id, n); ok {
			return s
		}
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
