package po

import (
	"fmt"
	"strings"

	"github.com/acronis/go-gettext"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Conventional header field names.
const (
	HeaderProjectIDVersion  = "Project-Id-Version"
	HeaderReportMsgidBugsTo = "Report-Msgid-Bugs-To"
	HeaderPOTCreationDate   = "POT-Creation-Date"
	HeaderPORevisionDate    = "PO-Revision-Date"
	HeaderLastTranslator    = "Last-Translator"
	HeaderLanguageTeam      = "Language-Team"
	HeaderLanguage          = "Language"
	HeaderMIMEVersion       = "MIME-Version"
	HeaderContentType       = "Content-Type"
	HeaderTransferEncoding  = "Content-Transfer-Encoding"
	HeaderPluralForms       = "Plural-Forms"
)

type headerField struct {
	name  string // as written in the file
	value string
}

// Header is a parsed view of the header pseudo-entry. Field order and the
// original spelling of field names are preserved, lookups are
// case-insensitive.
type Header struct {
	fields *orderedmap.OrderedMap[string, headerField]
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{fields: orderedmap.New[string, headerField]()}
}

// ParseHeader parses the msgstr of a header entry. Every non-empty line
// must be a "Name: value" pair; the fields arrive unfolded because PO
// string concatenation already reassembled them.
func ParseHeader(s string) (*Header, error) {
	h := NewHeader()
	for lineNo, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("header line %d is not a field", lineNo+1)
		}
		h.fields.Set(strings.ToLower(name), headerField{name: name, value: strings.TrimSpace(value)})
	}
	return h, nil
}

// Get returns the value of a field, matching the name case-insensitively.
// A missing field yields "".
func (h *Header) Get(name string) string {
	field, _ := h.fields.Get(strings.ToLower(name))
	return field.value
}

// Has reports whether the field is present.
func (h *Header) Has(name string) bool {
	_, ok := h.fields.Get(strings.ToLower(name))
	return ok
}

// Set replaces the value of a field, keeping its position, or appends a new
// field at the end.
func (h *Header) Set(name, value string) {
	key := strings.ToLower(name)
	if field, ok := h.fields.Get(key); ok {
		field.value = value
		h.fields.Set(key, field)
		return
	}
	h.fields.Set(key, headerField{name: name, value: value})
}

// Delete removes a field. It reports whether the field was present.
func (h *Header) Delete(name string) bool {
	_, ok := h.fields.Delete(strings.ToLower(name))
	return ok
}

// Names returns the field names in file order, as originally spelled.
func (h *Header) Names() []string {
	names := make([]string, 0, h.fields.Len())
	for pair := h.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Value.name)
	}
	return names
}

// Language returns the Language field.
func (h *Header) Language() string {
	return h.Get(HeaderLanguage)
}

// Charset extracts the charset parameter of the Content-Type field.
// A header without one yields "".
func (h *Header) Charset() string {
	contentType := h.Get(HeaderContentType)
	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(part)
		if rest, found := cutPrefixFold(part, "charset="); found {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// PluralForms parses the Plural-Forms field. An absent or empty field
// yields the zero value and no error, a malformed one an error.
func (h *Header) PluralForms() (gettext.PluralForms, error) {
	decl := h.Get(HeaderPluralForms)
	if decl == "" {
		return gettext.PluralForms{}, nil
	}
	return gettext.ParsePluralForms(decl)
}

// SetPluralForms replaces the Plural-Forms field with the canonical form
// of the declaration.
func (h *Header) SetPluralForms(forms gettext.PluralForms) {
	h.Set(HeaderPluralForms, forms.String())
}

// String renders the header back into msgstr form, one "Name: value\n"
// line per field.
func (h *Header) String() string {
	var b strings.Builder
	for pair := h.fields.Oldest(); pair != nil; pair = pair.Next() {
		b.WriteString(pair.Value.name)
		b.WriteString(": ")
		b.WriteString(pair.Value.value)
		b.WriteByte('\n')
	}
	return b.String()
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
