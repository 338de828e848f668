package locale

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/acronis/go-gettext/internal/testsupp"
	"github.com/acronis/go-gettext/mo"
	"github.com/acronis/go-gettext/po"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/language"
)

const germanPO = `msgid ""
msgstr ""
"Language: de\n"
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
`

const portuguesePO = `msgid ""
msgstr ""
"Language: pt\n"

msgid "Hello"
msgstr "Olá"

msgid "Goodbye"
msgstr "Adeus"
`

const brazilianPO = `msgid ""
msgstr ""
"Language: pt_BR\n"

msgid "Hello"
msgstr "Oi"
`

const russianPO = `msgid ""
msgstr ""
"Language: ru\n"
"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && "
"n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d файл"
msgstr[1] "%d файла"
msgstr[2] "%d файлов"
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestOpen_DiscoversLayouts(t *testing.T) {
	testsupp.InitLog(t)

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"de/LC_MESSAGES/messages.po": germanPO,
		"pt.po":                      portuguesePO,
		"pt_BR.po":                   brazilianPO,
		"ru/LC_MESSAGES/messages.po": russianPO,
		"broken.po":                  "msgstr \"oops\"\n",
		"notes.txt":                  "not a catalog\n",
	})

	s, err := Open(WithDir(dir))
	require.NoError(t, err)
	defer s.Close()

	want := []language.Tag{
		language.English,
		language.German,
		language.Portuguese,
		language.BrazilianPortuguese,
		language.Russian,
	}
	require.Equal(t, want, s.Languages())
	require.Equal(t, language.English, s.SourceLanguage())
	require.Equal(t, DefaultDomain, s.Domain())

	de := s.Locale(language.German)
	require.Equal(t, language.German, de.Tag())
	require.Equal(t, "Hallo", de.Get("Hello"))
	require.Equal(t, "Öffnen", de.GetC("menu", "Open"))
	require.Equal(t, "1 Datei", de.GetN("%d file", "%d files", 1, 1))
	require.Equal(t, "3 Dateien", de.GetN("%d file", "%d files", 3, 3))

	ru := s.Locale(language.Russian)
	require.Equal(t, "21 файл", ru.GetN("%d file", "%d files", 21, 21))
	require.Equal(t, "5 файлов", ru.GetN("%d file", "%d files", 5, 5))
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		errContains string
	}{
		{
			name:        "no root",
			opts:        nil,
			errContains: "either WithDir or WithFS is required",
		},
		{
			name:        "two roots",
			opts:        []Option{WithDir("x"), WithFS(fstest.MapFS{})},
			errContains: "mutually exclusive",
		},
		{
			name:        "watch without dir",
			opts:        []Option{WithFS(fstest.MapFS{}), WithWatch()},
			errContains: "WithWatch requires a directory store",
		},
		{
			name:        "missing root",
			opts:        []Option{WithDir(filepath.Join("testdata", "no-such-dir"))},
			errContains: "read locale root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.opts...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestOpen_FS(t *testing.T) {
	const swedishPO = `msgid ""
msgstr ""
"Language: sv\n"

msgid "Hello"
msgstr "Hej"
`
	compiled, err := po.ParseBytes([]byte(swedishPO))
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"pt.po":                 &fstest.MapFile{Data: []byte(portuguesePO)},
		"sv/LC_MESSAGES/app.mo": &fstest.MapFile{Data: mo.Bytes(compiled)},
	}
	s, err := Open(WithFS(fsys), WithDomain("app"))
	require.NoError(t, err)
	defer s.Close()

	want := []language.Tag{language.English, language.Portuguese, language.Swedish}
	require.Equal(t, want, s.Languages())
	require.Equal(t, "app", s.Domain())
	require.Equal(t, "Hej", s.Locale(language.Swedish).Get("Hello"))
	require.Equal(t, "Olá", s.Locale(language.Portuguese).Get("Hello"))
}

func TestStore_PreferenceOrder(t *testing.T) {
	const flatGermanPO = `msgid ""
msgstr ""
"Language: de\n"

msgid "Hello"
msgstr "Flach"
`
	const frenchPO = `msgid ""
msgstr ""
"Language: fr\n"

msgid "Hello"
msgstr "Salut"
`
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"de/LC_MESSAGES/messages.po": germanPO,
		"de.po":                      flatGermanPO,
		"fr/LC_MESSAGES/messages.po": frenchPO,
	})
	compiled, err := po.ParseBytes([]byte(strings.Replace(frenchPO, "Salut", "Bonjour", 1)))
	require.NoError(t, err)
	require.NoError(t, mo.EncodeFile(filepath.Join(dir, "fr", "LC_MESSAGES", "messages.mo"), compiled))

	s, err := Open(WithDir(dir))
	require.NoError(t, err)
	defer s.Close()

	// The LC_MESSAGES tree shadows the flat file.
	require.Equal(t, "Hallo", s.Locale(language.German).Get("Hello"))
	// The compiled catalog shadows its source.
	require.Equal(t, "Bonjour", s.Locale(language.French).Get("Hello"))
}

func TestLocale_Fallback(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pt.po":    portuguesePO,
		"pt_BR.po": brazilianPO,
	})
	s, err := Open(WithDir(dir))
	require.NoError(t, err)
	defer s.Close()

	br := s.Locale(language.BrazilianPortuguese)
	require.Equal(t, "Oi", br.Get("Hello"))
	require.Equal(t, "Adeus", br.Get("Goodbye"))
	require.Equal(t, "Missing", br.Get("Missing"))

	// European Portuguese has no catalog of its own and uses the base.
	require.Equal(t, "Olá", s.Locale(language.EuropeanPortuguese).Get("Hello"))

	// A language the store never saw passes the source text through.
	ja := s.Locale(language.Japanese)
	require.Equal(t, "Hello", ja.Get("Hello"))
	require.Equal(t, "Open", ja.GetC("menu", "Open"))
	require.Equal(t, "1 item", ja.GetN("%d item", "%d items", 1, 1))
	require.Equal(t, "2 items", ja.GetNC("box", "%d item", "%d items", 2, 2))
}

func TestStore_Match(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"de/LC_MESSAGES/messages.po": germanPO,
		"ru/LC_MESSAGES/messages.po": russianPO,
	})
	s, err := Open(WithDir(dir))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, language.German, s.Match("de").Tag())
	require.Equal(t, language.German, s.Match("de-CH").Tag())
	require.Equal(t, language.Russian, s.Match("ja", "ru").Tag())
	require.Equal(t, language.English, s.Match().Tag())
	require.Equal(t, language.English, s.Match("???").Tag())

	require.Equal(t, language.Russian, s.MatchAcceptLanguage("ru;q=0.9, de;q=0.6").Tag())
	require.Equal(t, language.German, s.MatchAcceptLanguage("de-AT, ja;q=0.8").Tag())
	require.Equal(t, language.English, s.MatchAcceptLanguage("").Tag())
}

func TestStore_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)
	testsupp.InitLog(t)

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"de/LC_MESSAGES/messages.po": germanPO,
		"ru/LC_MESSAGES/messages.po": russianPO,
	})

	s, err := Open(WithDir(dir), WithWatch())
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, "Hallo", s.Locale(language.German).Get("Hello"))
	ruBefore := s.Catalog(language.Russian)
	require.NotNil(t, ruBefore)

	writeTree(t, dir, map[string]string{
		"de/LC_MESSAGES/messages.po": strings.Replace(germanPO, "Hallo", "Servus", 1),
	})
	require.Eventually(t, func() bool {
		return s.Locale(language.German).Get("Hello") == "Servus"
	}, 5*time.Second, 25*time.Millisecond)

	// The untouched catalog was carried over, not rebuilt.
	require.Same(t, ruBefore, s.Catalog(language.Russian))

	// A locale dropped in later is picked up.
	writeTree(t, dir, map[string]string{"pt.po": portuguesePO})
	require.Eventually(t, func() bool {
		return s.Locale(language.Portuguese).Get("Hello") == "Olá"
	}, 5*time.Second, 25*time.Millisecond)

	require.NoError(t, s.Close())
}
