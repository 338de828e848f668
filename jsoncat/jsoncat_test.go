package jsoncat

import (
	"testing"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
	"github.com/stretchr/testify/require"
)

func TestImport_Flat(t *testing.T) {
	msgs, err := Import([]byte(`{"Hello": "Hallo", "Goodbye": "Auf Wiedersehen"}`))
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{ID: "Hello", Str: []string{"Hallo"}},
		{ID: "Goodbye", Str: []string{"Auf Wiedersehen"}},
	}, msgs)
}

func TestImport_Nested(t *testing.T) {
	msgs, err := Import([]byte(`{
		"menu": {
			"file": {"Open": "Öffnen", "Close": "Schließen"},
			"Quit": "Beenden"
		},
		"Hello": "Hallo"
	}`))
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{ID: "menu.file.Open", Str: []string{"Öffnen"}},
		{ID: "menu.file.Close", Str: []string{"Schließen"}},
		{ID: "menu.Quit", Str: []string{"Beenden"}},
		{ID: "Hello", Str: []string{"Hallo"}},
	}, msgs)
}

func TestImport_PluralObjects(t *testing.T) {
	t.Run("categories in CLDR order", func(t *testing.T) {
		msgs, err := Import([]byte(`{
			"%d file": {"other": "%d Dateien", "one": "%d Datei"}
		}`))
		require.NoError(t, err)
		require.Equal(t, []gettext.Message{
			{ID: "%d file", IDPlural: "%d file", Str: []string{"%d Datei", "%d Dateien"}},
		}, msgs)
	})

	t.Run("digit indexes", func(t *testing.T) {
		msgs, err := Import([]byte(`{
			"%d файл": {"2": "%d файлов", "0": "%d файл", "1": "%d файла"}
		}`))
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, []string{"%d файл", "%d файла", "%d файлов"}, msgs[0].Str)
		require.True(t, msgs[0].IsPlural())
	})

	t.Run("mixed keys stay nested", func(t *testing.T) {
		msgs, err := Import([]byte(`{
			"file": {"one": "Datei", "title": "Dateien"}
		}`))
		require.NoError(t, err)
		require.Equal(t, []gettext.Message{
			{ID: "file.one", Str: []string{"Datei"}},
			{ID: "file.title", Str: []string{"Dateien"}},
		}, msgs)
	})
}

func TestImport_Context(t *testing.T) {
	msgs, err := Import([]byte(`{"menu|Open": "Öffnen"}`))
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{Context: "menu", ID: "Open", Str: []string{"Öffnen"}},
	}, msgs)

	msgs, err = Import([]byte(`{"menu|Open": "Öffnen"}`), WithKeyAsID())
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{ID: "menu|Open", Str: []string{"Öffnen"}},
	}, msgs)

	msgs, err = Import([]byte(`{"menu::Open": "Öffnen"}`), WithContextSeparator("::"))
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{Context: "menu", ID: "Open", Str: []string{"Öffnen"}},
	}, msgs)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		errContains string
	}{
		{name: "malformed", data: `{"a": `, errContains: "malformed JSON"},
		{name: "array root", data: `["a"]`, errContains: "must be an object"},
		{name: "number value", data: `{"a": {"b": 7}}`, errContains: `value of "a.b" is not a string`},
		{name: "null value", data: `{"a": null}`, errContains: `value of "a" is not a string`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.data))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestExport(t *testing.T) {
	f, err := po.ParseBytes([]byte(`msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=n != 1;\n"

msgid "Hello"
msgstr "Hallo"

msgctxt "menu"
msgid "Open"
msgstr "Öffnen"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d Datei"
msgstr[1] "%d Dateien"

msgid "Untranslated"
msgstr ""

#~ msgid "Old"
#~ msgstr "Alt"
`))
	require.NoError(t, err)

	out, err := Export(f)
	require.NoError(t, err)
	require.Equal(t, `{
  "Hello": "Hallo",
  "menu|Open": "Öffnen",
  "%d file": {
    "0": "%d Datei",
    "1": "%d Dateien"
  },
  "Untranslated": ""
}
`, string(out))

	out, err = Export(f, WithContextSeparator("::"))
	require.NoError(t, err)
	require.Contains(t, string(out), `"menu::Open": "Öffnen"`)
}

func TestExportImport_RoundTrip(t *testing.T) {
	f, err := po.ParseBytes([]byte(`msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgctxt "menu"
msgid "Open"
msgstr "Öffnen"

msgid "Hello"
msgstr "Hallo"
`))
	require.NoError(t, err)

	out, err := Export(f)
	require.NoError(t, err)

	msgs, err := Import(out)
	require.NoError(t, err)
	require.Equal(t, []gettext.Message{
		{Context: "menu", ID: "Open", Str: []string{"Öffnen"}},
		{ID: "Hello", Str: []string{"Hallo"}},
	}, msgs)
}
