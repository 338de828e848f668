package po

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultWrapWidth = 80

// WriteOption is an interface for functional options that can be passed to
// the writing functions.
type WriteOption interface {
	apply(*writeOptions)
}

type writeOptions struct {
	wrapWidth int
}

type wrapWidthWriteOption struct {
	width int
}

func (o wrapWidthWriteOption) apply(opts *writeOptions) {
	opts.wrapWidth = o.width
}

// WithWrapWidth overrides the line width long strings and reference comments
// are wrapped at. Width 0 or less disables wrapping.
func WithWrapWidth(width int) WriteOption {
	return wrapWidthWriteOption{width: width}
}

func makeWriteOptions(opts ...WriteOption) writeOptions {
	options := writeOptions{wrapWidth: defaultWrapWidth}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Write renders the file in the canonical PO layout: comments in their
// standard order, long strings wrapped, one blank line between entries.
func Write(w io.Writer, file *File, opts ...WriteOption) error {
	ew := &entryWriter{b: bufio.NewWriter(w), opts: makeWriteOptions(opts...)}
	for i, e := range file.Entries() {
		if i > 0 {
			ew.line("")
		}
		ew.writeEntry(e)
	}
	if ew.err != nil {
		return ew.err
	}
	return ew.b.Flush()
}

// WriteFile renders the file to path, replacing whatever was there.
func WriteFile(path string, file *File, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create PO file: %w", err)
	}
	if err := Write(f, file, opts...); err != nil {
		f.Close()
		return fmt.Errorf("write PO file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write PO file: %w", err)
	}
	return nil
}

// Bytes renders the file in-memory.
func Bytes(file *File, opts ...WriteOption) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, file, opts...)
	return buf.Bytes()
}

// String implements fmt.Stringer interface.
func (f *File) String() string {
	return string(Bytes(f))
}

type entryWriter struct {
	b    *bufio.Writer
	opts writeOptions
	err  error
}

func (w *entryWriter) line(s string) {
	if w.err != nil {
		return
	}
	if _, err := w.b.WriteString(s); err != nil {
		w.err = err
		return
	}
	w.err = w.b.WriteByte('\n')
}

func (w *entryWriter) writeEntry(e *Entry) {
	for _, c := range e.TranslatorComments {
		w.comment("#", c)
	}
	for _, c := range e.ExtractedComments {
		w.comment("#.", c)
	}
	w.writeReferences(e.References)
	if len(e.Flags) > 0 {
		w.line("#, " + strings.Join(e.Flags, ", "))
	}

	prevPrefix := "#| "
	kwPrefix := ""
	if e.Obsolete {
		prevPrefix = "#~| "
		kwPrefix = "#~ "
	}
	if e.PreviousContext != "" {
		w.line(prevPrefix + `msgctxt "` + encodeString(e.PreviousContext) + `"`)
	}
	if e.PreviousID != "" {
		w.line(prevPrefix + `msgid "` + encodeString(e.PreviousID) + `"`)
	}
	if e.PreviousIDPlural != "" {
		w.line(prevPrefix + `msgid_plural "` + encodeString(e.PreviousIDPlural) + `"`)
	}

	if e.HasContext {
		w.writeString(kwPrefix, "msgctxt", e.Context)
	}
	w.writeString(kwPrefix, "msgid", e.ID)
	if e.IsPlural() {
		w.writeString(kwPrefix, "msgid_plural", e.IDPlural)
		if len(e.Str) == 0 {
			w.writeString(kwPrefix, "msgstr[0]", "")
			return
		}
		for i, s := range e.Str {
			w.writeString(kwPrefix, fmt.Sprintf("msgstr[%d]", i), s)
		}
		return
	}
	var str string
	if len(e.Str) > 0 {
		str = e.Str[0]
	}
	w.writeString(kwPrefix, "msgstr", str)
}

func (w *entryWriter) comment(marker, c string) {
	if c == "" {
		w.line(marker)
		return
	}
	w.line(marker + " " + c)
}

// writeReferences packs source references into "#:" lines up to the wrap
// width, the way msgcat does.
func (w *entryWriter) writeReferences(refs []string) {
	if len(refs) == 0 {
		return
	}
	line := "#:"
	for _, ref := range refs {
		if line != "#:" && w.opts.wrapWidth > 0 && len(line)+1+len(ref) > w.opts.wrapWidth {
			w.line(line)
			line = "#:"
		}
		line += " " + ref
	}
	w.line(line)
}

// writeString renders one keyword with its value. Values holding embedded
// newlines or exceeding the wrap width go to the multiline form: the keyword
// with an empty string, then the value split after every newline and wrapped
// after spaces.
func (w *entryWriter) writeString(prefix, keyword, value string) {
	pieces := splitAfterNewlines(value)
	if len(pieces) == 1 {
		escaped := encodeString(pieces[0])
		if w.opts.wrapWidth <= 0 || len(prefix)+len(keyword)+len(escaped)+3 <= w.opts.wrapWidth {
			w.line(prefix + keyword + ` "` + escaped + `"`)
			return
		}
	}
	w.line(prefix + keyword + ` ""`)
	for _, piece := range pieces {
		w.writePiece(prefix, encodeString(piece))
	}
}

// writePiece renders one escaped string fragment, breaking overlong lines
// after spaces. Escape sequences never contain a space, so any space is a
// safe break point.
func (w *entryWriter) writePiece(prefix, escaped string) {
	avail := w.opts.wrapWidth - len(prefix) - 2
	if w.opts.wrapWidth <= 0 {
		avail = len(escaped)
	} else if avail < 1 {
		avail = 1
	}
	for len(escaped) > avail {
		cut := strings.LastIndexByte(escaped[:avail], ' ')
		if cut < 0 {
			cut = strings.IndexByte(escaped[avail:], ' ')
			if cut < 0 {
				break
			}
			cut += avail
		}
		w.line(prefix + `"` + escaped[:cut+1] + `"`)
		escaped = escaped[cut+1:]
	}
	w.line(prefix + `"` + escaped + `"`)
}

// splitAfterNewlines cuts a string into fragments after every newline except
// a trailing one, matching how PO files conventionally lay out multiline
// texts.
func splitAfterNewlines(s string) []string {
	if s == "" {
		return []string{""}
	}
	var pieces []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || i == len(s)-1 {
			return append(pieces, s)
		}
		pieces = append(pieces, s[:i+1])
		s = s[i+1:]
	}
}
