package mo

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
	"github.com/stretchr/testify/require"
)

func testPOFile(t *testing.T) *po.File {
	t.Helper()
	f := po.NewFile()
	h := po.NewHeader()
	h.Set(po.HeaderLanguage, "ru")
	h.Set(po.HeaderContentType, "text/plain; charset=UTF-8")
	h.Set(po.HeaderPluralForms, "nplurals=3; plural=n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2;")
	f.SetHeader(h)

	require.NoError(t, f.AddEntry(&po.Entry{ID: "Hello", Str: []string{"Привет"}}))
	require.NoError(t, f.AddEntry(&po.Entry{
		Context: "verb", HasContext: true, ID: "Open", Str: []string{"Открыть"},
	}))
	require.NoError(t, f.AddEntry(&po.Entry{
		ID: "%d file", IDPlural: "%d files",
		Str: []string{"%d файл", "%d файла", "%d файлов"},
	}))
	return f
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	f := testPOFile(t)

	decoded, err := DecodeBytes(Bytes(f))
	require.NoError(t, err)

	header, err := decoded.Header()
	require.NoError(t, err)
	require.Equal(t, "ru", header.Language())
	require.Equal(t, "UTF-8", header.Charset())

	forms, err := decoded.PluralForms()
	require.NoError(t, err)
	require.Equal(t, 3, forms.NPlurals)

	e, ok := decoded.Lookup(gettext.NewMessageKey("Hello"))
	require.True(t, ok)
	require.Equal(t, []string{"Привет"}, e.Str)

	e, ok = decoded.Lookup(gettext.NewMessageKeyC("verb", "Open"))
	require.True(t, ok)
	require.Equal(t, []string{"Открыть"}, e.Str)

	e, ok = decoded.Lookup(gettext.NewMessageKey("%d file"))
	require.True(t, ok)
	require.Equal(t, "%d files", e.IDPlural)
	require.Equal(t, []string{"%d файл", "%d файла", "%d файлов"}, e.Str)
}

func TestBytes_Layout(t *testing.T) {
	f := po.NewFile()
	require.NoError(t, f.AddEntry(&po.Entry{ID: "a", Str: []string{"x"}}))

	data := Bytes(f)
	require.Len(t, data, 48)

	le := binary.LittleEndian
	require.Equal(t, uint32(magicLittleEndian), le.Uint32(data[0:4]))
	require.Equal(t, uint32(0), le.Uint32(data[4:8]), "format revision")
	require.Equal(t, uint32(1), le.Uint32(data[8:12]), "string count")
	require.Equal(t, uint32(28), le.Uint32(data[12:16]), "originals table offset")
	require.Equal(t, uint32(36), le.Uint32(data[16:20]), "translations table offset")
	require.Equal(t, uint32(0), le.Uint32(data[20:24]), "hash table size")

	// Originals table: "a" of length 1 at offset 44, NUL-terminated.
	require.Equal(t, uint32(1), le.Uint32(data[28:32]))
	require.Equal(t, uint32(44), le.Uint32(data[32:36]))
	require.Equal(t, []byte("a\x00x\x00"), data[44:48])
}

func TestBytes_SortsOriginals(t *testing.T) {
	f := po.NewFile()
	require.NoError(t, f.AddEntry(&po.Entry{ID: "banana", Str: []string{"2"}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "apple", Str: []string{"1"}}))
	require.NoError(t, f.AddEntry(&po.Entry{Context: "fruit", HasContext: true, ID: "cherry", Str: []string{"3"}}))

	decoded, err := DecodeBytes(Bytes(f))
	require.NoError(t, err)

	var ids []string
	for _, e := range decoded.Entries() {
		ids = append(ids, e.ID)
	}
	// "fruit\x04cherry" sorts after "banana": 'f' > 'b'.
	require.Equal(t, []string{"apple", "banana", "cherry"}, ids)
}

func TestEncode_SkipsFuzzyAndUntranslated(t *testing.T) {
	f := po.NewFile()
	require.NoError(t, f.AddEntry(&po.Entry{ID: "kept", Str: []string{"ok"}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "empty", Str: []string{""}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "partial", IDPlural: "partials", Str: []string{"one", ""}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "guess", Str: []string{"raten"}, Flags: []string{po.FuzzyFlag}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "gone", Str: []string{"weg"}, Obsolete: true}))

	decoded, err := DecodeBytes(Bytes(f))
	require.NoError(t, err)
	require.Equal(t, 1, decoded.Len())
	_, ok := decoded.Lookup(gettext.NewMessageKey("kept"))
	require.True(t, ok)

	decoded, err = DecodeBytes(Bytes(f, WithUseFuzzy()))
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())
	_, ok = decoded.Lookup(gettext.NewMessageKey("guess"))
	require.True(t, ok)
}

func TestEncode_HeaderRequiresContent(t *testing.T) {
	f := po.NewFile()
	require.NoError(t, f.AddEntry(&po.Entry{Str: []string{""}}))
	require.NoError(t, f.AddEntry(&po.Entry{ID: "a", Str: []string{"x"}}))

	decoded, err := DecodeBytes(Bytes(f))
	require.NoError(t, err)
	require.Equal(t, 1, decoded.Len())
	require.Nil(t, decoded.HeaderEntry())
}

func TestDecodeBytes_BigEndian(t *testing.T) {
	var buf bytes.Buffer
	be := binary.BigEndian
	word := func(w uint32) {
		var b [4]byte
		be.PutUint32(b[:], w)
		buf.Write(b[:])
	}
	// One entry, "hi" -> "ahoj".
	word(magicLittleEndian) // written big-endian, read as the BE magic
	word(0)
	word(1)
	word(28)
	word(36)
	word(0)
	word(44)
	word(2)  // len "hi"
	word(44) // offset
	word(4)  // len "ahoj"
	word(47)
	buf.WriteString("hi\x00ahoj\x00")

	decoded, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	e, ok := decoded.Lookup(gettext.NewMessageKey("hi"))
	require.True(t, ok)
	require.Equal(t, []string{"ahoj"}, e.Str)
}

func TestDecodeBytes_Errors(t *testing.T) {
	valid := Bytes(testPOFile(t))

	t.Run("too short", func(t *testing.T) {
		_, err := DecodeBytes(valid[:12])
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := append([]byte{}, valid...)
		data[0] = 0xff
		_, err := DecodeBytes(data)
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("unsupported revision", func(t *testing.T) {
		data := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(data[4:8], 2<<16)
		_, err := DecodeBytes(data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported MO format revision 2.0")
	})

	t.Run("table out of range", func(t *testing.T) {
		data := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(data[12:16], uint32(len(data)))
		_, err := DecodeBytes(data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "out of range")
	})

	t.Run("string out of range", func(t *testing.T) {
		data := append([]byte{}, valid...)
		// Corrupt the length of the first original.
		binary.LittleEndian.PutUint32(data[28:32], 1<<30)
		_, err := DecodeBytes(data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "out of range")
	})
}

func TestEncodeFileDecodeFile(t *testing.T) {
	f := testPOFile(t)
	path := filepath.Join(t.TempDir(), "ru.mo")

	require.NoError(t, EncodeFile(path, f))

	decoded, err := DecodeFile(path)
	require.NoError(t, err)
	require.Equal(t, f.Len(), decoded.Len())

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.mo"))
	require.Error(t, err)
}
