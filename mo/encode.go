package mo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
)

// Encode writes the compiled form of a PO file. Obsolete entries and
// entries with missing translations never make it into the output; fuzzy
// ones only with WithUseFuzzy. The header travels as the translation of the
// empty original.
func Encode(w io.Writer, file *po.File, opts ...EncodeOption) error {
	if _, err := w.Write(Bytes(file, opts...)); err != nil {
		return fmt.Errorf("write MO data: %w", err)
	}
	return nil
}

// EncodeFile writes the compiled form of a PO file to path.
func EncodeFile(path string, file *po.File, opts ...EncodeOption) error {
	if err := os.WriteFile(path, Bytes(file, opts...), 0o644); err != nil {
		return fmt.Errorf("write MO file: %w", err)
	}
	return nil
}

// Bytes renders the compiled form of a PO file in-memory.
func Bytes(file *po.File, opts ...EncodeOption) []byte {
	options := makeEncodeOptions(opts...)

	type pair struct {
		orig  string
		trans string
	}
	var pairs []pair
	for _, e := range file.Entries() {
		if !includeEntry(e, options) {
			continue
		}
		orig := e.ID
		if e.HasContext {
			orig = e.Context + string(gettext.EOT) + e.ID
		}
		if e.IsPlural() {
			orig += "\x00" + e.IDPlural
		}
		pairs = append(pairs, pair{orig: orig, trans: strings.Join(e.Str, "\x00")})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].orig < pairs[j].orig })

	n := len(pairs)
	stringsOff := headerSize + 2*tableItemSize*n

	var origData, transData bytes.Buffer
	table := make([]uint32, 0, 4*n)
	for _, p := range pairs {
		table = append(table, uint32(len(p.orig)), uint32(stringsOff+origData.Len()))
		origData.WriteString(p.orig)
		origData.WriteByte(0)
	}
	transOff := stringsOff + origData.Len()
	for _, p := range pairs {
		table = append(table, uint32(len(p.trans)), uint32(transOff+transData.Len()))
		transData.WriteString(p.trans)
		transData.WriteByte(0)
	}

	header := []uint32{
		magicLittleEndian,
		0, // format revision
		uint32(n),
		headerSize,
		uint32(headerSize + tableItemSize*n),
		0, // no hash table
		uint32(stringsOff),
	}

	out := bytes.NewBuffer(make([]byte, 0, stringsOff+origData.Len()+transData.Len()))
	for _, word := range header {
		appendWord(out, word)
	}
	for _, word := range table {
		appendWord(out, word)
	}
	out.Write(origData.Bytes())
	out.Write(transData.Bytes())
	return out.Bytes()
}

func includeEntry(e *po.Entry, options encodeOptions) bool {
	if e.Obsolete {
		return false
	}
	if e.IsHeader() {
		return len(e.Str) > 0 && e.Str[0] != ""
	}
	if e.IsFuzzy() && !options.useFuzzy {
		return false
	}
	return e.IsTranslated()
}

func appendWord(b *bytes.Buffer, word uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	b.Write(buf[:])
}
