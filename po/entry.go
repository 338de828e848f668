package po

import (
	"slices"

	"github.com/acronis/go-gettext"
)

// FuzzyFlag marks an entry whose translation needs review.
const FuzzyFlag = "fuzzy"

// Entry is one message of a PO file together with everything the file
// records about it: comments, source references, flags and the previous
// untranslated string left behind by merges.
type Entry struct {
	// TranslatorComments holds "# " comment lines, one element per line,
	// without the comment marker.
	TranslatorComments []string

	// ExtractedComments holds "#. " comment lines added by the extraction
	// tool, usually hints from the developer to the translator.
	ExtractedComments []string

	// References holds "#: " source locations, one element per location.
	References []string

	// Flags holds "#, " flags such as "fuzzy" or "c-format", in file order.
	Flags []string

	// PreviousContext, PreviousID and PreviousIDPlural hold the "#| " lines
	// a fuzzy merge records about the message the translation came from.
	PreviousContext  string
	PreviousID       string
	PreviousIDPlural string

	// Context is the msgctxt value. HasContext distinguishes an absent
	// msgctxt from a present but empty one; the two address different
	// messages.
	Context    string
	HasContext bool

	// ID is the untranslated message, IDPlural its plural counterpart for
	// plural entries.
	ID       string
	IDPlural string

	// Str holds the translations: a single element for singular entries,
	// one element per plural form for plural entries.
	Str []string

	// Obsolete marks "#~ " entries kept in the file without being part of
	// the live catalog.
	Obsolete bool

	// Line is the 1-based line number of the msgid keyword, zero for
	// entries not read from a file.
	Line int
}

// Key returns the catalog lookup key of the entry.
func (e *Entry) Key() gettext.MessageKey {
	return gettext.MessageKey{Context: e.Context, ID: e.ID}
}

// Message converts the entry into its semantic form.
func (e *Entry) Message() gettext.Message {
	return gettext.Message{
		Context:  e.Context,
		ID:       e.ID,
		IDPlural: e.IDPlural,
		Str:      slices.Clone(e.Str),
	}
}

// IsHeader returns true if the entry is the header pseudo-entry carrying
// the catalog metadata.
func (e *Entry) IsHeader() bool {
	return e.ID == "" && !e.HasContext && !e.Obsolete
}

// IsPlural returns true if the entry declares a plural form.
func (e *Entry) IsPlural() bool {
	return e.IDPlural != ""
}

// IsTranslated returns true if every form of the entry has a non-empty
// translation.
func (e *Entry) IsTranslated() bool {
	if len(e.Str) == 0 {
		return false
	}
	for _, s := range e.Str {
		if s == "" {
			return false
		}
	}
	return true
}

// IsFuzzy returns true if the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	return slices.Contains(e.Flags, FuzzyFlag)
}

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy {
		if !e.IsFuzzy() {
			e.Flags = append(e.Flags, FuzzyFlag)
		}
		return
	}
	e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == FuzzyFlag })
}

// HasFlag reports whether the entry carries the given flag.
func (e *Entry) HasFlag(flag string) bool {
	return slices.Contains(e.Flags, flag)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	cp := *e
	cp.TranslatorComments = slices.Clone(e.TranslatorComments)
	cp.ExtractedComments = slices.Clone(e.ExtractedComments)
	cp.References = slices.Clone(e.References)
	cp.Flags = slices.Clone(e.Flags)
	cp.Str = slices.Clone(e.Str)
	return &cp
}
