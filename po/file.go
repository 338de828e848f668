package po

import (
	"fmt"

	"github.com/acronis/go-gettext"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// File is an in-memory PO file. Entry order is the file order; live
// entries are additionally indexed by message key.
type File struct {
	entries []*Entry
	index   *orderedmap.OrderedMap[gettext.MessageKey, *Entry]
}

// NewFile returns an empty file.
func NewFile() *File {
	return &File{index: orderedmap.New[gettext.MessageKey, *Entry]()}
}

// Entries returns all entries in file order, the header and obsolete ones
// included. The slice is shared with the file, the entries may be modified
// in place as long as their keys stay untouched.
func (f *File) Entries() []*Entry {
	return f.entries
}

// Len returns the number of entries, the header and obsolete ones included.
func (f *File) Len() int {
	return len(f.entries)
}

// AddEntry appends an entry. Adding a live entry whose key is already
// present is an error; obsolete entries may repeat keys freely.
func (f *File) AddEntry(e *Entry) error {
	if !e.Obsolete {
		if _, ok := f.index.Get(e.Key()); ok {
			return fmt.Errorf("duplicate message %q", e.Key().String())
		}
		f.index.Set(e.Key(), e)
	}
	f.entries = append(f.entries, e)
	return nil
}

// addEntryAnyway appends an entry without the duplicate check. The index
// keeps the first entry seen for each key.
func (f *File) addEntryAnyway(e *Entry) {
	if !e.Obsolete {
		if _, ok := f.index.Get(e.Key()); !ok {
			f.index.Set(e.Key(), e)
		}
	}
	f.entries = append(f.entries, e)
}

// Lookup finds the live entry for a key.
func (f *File) Lookup(key gettext.MessageKey) (*Entry, bool) {
	e, ok := f.index.Get(key)
	return e, ok
}

// HeaderEntry returns the header pseudo-entry, or nil if the file has none.
func (f *File) HeaderEntry() *Entry {
	for _, e := range f.entries {
		if e.IsHeader() {
			return e
		}
	}
	return nil
}

// Header parses the header pseudo-entry. A file without one yields an
// empty header.
func (f *File) Header() (*Header, error) {
	e := f.HeaderEntry()
	if e == nil || len(e.Str) == 0 {
		return NewHeader(), nil
	}
	return ParseHeader(e.Str[0])
}

// SetHeader renders the header into the header pseudo-entry, creating it
// in front of all other entries when the file has none yet.
func (f *File) SetHeader(h *Header) {
	if e := f.HeaderEntry(); e != nil {
		e.Str = []string{h.String()}
		return
	}
	e := &Entry{Str: []string{h.String()}}
	f.index.Set(e.Key(), e)
	f.entries = append([]*Entry{e}, f.entries...)
}

// PluralForms resolves the plural rule of the file: the declared
// Plural-Forms field when present, the conventional rule of the declared
// Language otherwise, and the Germanic fallback when neither helps.
func (f *File) PluralForms() (gettext.PluralForms, error) {
	h, err := f.Header()
	if err != nil {
		return gettext.GermanicPluralForms, err
	}
	forms, err := h.PluralForms()
	if err != nil {
		return gettext.GermanicPluralForms, err
	}
	if !forms.IsZero() {
		return forms, nil
	}
	if forms, ok := gettext.DefaultPluralForms(h.Language()); ok {
		return forms, nil
	}
	return gettext.GermanicPluralForms, nil
}

// Messages converts the live entries into their semantic form, the header
// excluded.
func (f *File) Messages() []gettext.Message {
	msgs := make([]gettext.Message, 0, f.index.Len())
	for pair := f.index.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsHeader() {
			continue
		}
		msgs = append(msgs, pair.Value.Message())
	}
	return msgs
}

// Stats summarizes the translation state of a file.
type Stats struct {
	Translated   int
	Fuzzy        int
	Untranslated int
	Obsolete     int
}

// Stats counts the live entries by translation state. Fuzzy entries count
// as fuzzy even when fully translated. The header is not counted.
func (f *File) Stats() Stats {
	var st Stats
	for _, e := range f.entries {
		switch {
		case e.Obsolete:
			st.Obsolete++
		case e.IsHeader():
		case e.IsFuzzy():
			st.Fuzzy++
		case e.IsTranslated():
			st.Translated++
		default:
			st.Untranslated++
		}
	}
	return st
}

// String renders the stats the way msgfmt reports them.
func (s Stats) String() string {
	out := fmt.Sprintf("%d translated", s.Translated)
	if s.Fuzzy > 0 {
		out += fmt.Sprintf(", %d fuzzy", s.Fuzzy)
	}
	if s.Untranslated > 0 {
		out += fmt.Sprintf(", %d untranslated", s.Untranslated)
	}
	if s.Obsolete > 0 {
		out += fmt.Sprintf(", %d obsolete", s.Obsolete)
	}
	return out
}
