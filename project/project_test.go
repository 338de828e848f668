package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
)

func stubClock(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() { timeNow = orig })
}

func TestNew_Defaults(t *testing.T) {
	p, err := New("demo")
	require.NoError(t, err)

	require.Equal(t, "demo", p.BaseDir)
	require.Equal(t, "messages", p.Manifest.Domain)
	require.Equal(t, "en", p.Manifest.SourceLanguage)
	require.Equal(t, "locale", p.Manifest.LocaleDir)
	require.Empty(t, p.Manifest.Locales)
}

func TestNew_Options(t *testing.T) {
	p, err := New("demo",
		WithDomain("app"),
		WithSourceLanguage("en_US"),
		WithLocales([]string{"de", "pt_BR"}),
	)
	require.NoError(t, err)

	require.Equal(t, "app", p.Manifest.Domain)
	require.Equal(t, "en_US", p.Manifest.SourceLanguage)
	require.Equal(t, []string{"de", "pt_BR"}, p.Manifest.Locales)
}

func TestNew_OptionErrors(t *testing.T) {
	_, err := New("demo", WithDomain(""))
	require.ErrorContains(t, err, "domain cannot be empty")

	_, err = New("demo", WithSourceLanguage("not a language"))
	require.ErrorContains(t, err, "validate source language")

	_, err = New("demo", WithLocales([]string{"de", "!!"}))
	require.ErrorContains(t, err, `validate locale "!!"`)
}

func TestProject_SaveRead(t *testing.T) {
	dir := t.TempDir()

	p, err := New(dir,
		WithDomain("app"),
		WithLocales([]string{"de", "ru"}),
	)
	require.NoError(t, err)
	require.NoError(t, p.Save())

	q, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, q.Read())

	require.Equal(t, p.Manifest, q.Manifest)
}

func TestReadManifest_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing required field",
			src:     `{"domain": "app", "source_language": "en", "locale_dir": "locale"}`,
			wantErr: "manifest validation failed",
		},
		{
			name:    "unknown field",
			src:     `{"domain": "app", "source_language": "en", "locale_dir": "locale", "locales": [], "extra": 1}`,
			wantErr: "manifest validation failed",
		},
		{
			name:    "empty domain",
			src:     `{"domain": "", "source_language": "en", "locale_dir": "locale", "locales": []}`,
			wantErr: "manifest validation failed",
		},
		{
			name:    "malformed JSON",
			src:     `{"domain": `,
			wantErr: "schema validate",
		},
		{
			name:    "bad locale",
			src:     `{"domain": "app", "source_language": "en", "locale_dir": "locale", "locales": ["definitely not a locale"]}`,
			wantErr: "$.locales[0]",
		},
		{
			name:    "domain with path separator",
			src:     `{"domain": "a/b", "source_language": "en", "locale_dir": "locale", "locales": []}`,
			wantErr: "$.domain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fPath := filepath.Join(t.TempDir(), ManifestFileName)
			require.NoError(t, os.WriteFile(fPath, []byte(tt.src), 0644))

			_, err := ReadManifest(fPath)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestReadManifest_MissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), ManifestFileName))
	require.ErrorContains(t, err, "read manifest")
}

func TestProject_Paths(t *testing.T) {
	p, err := New("base", WithDomain("app"), WithLocales([]string{"de"}))
	require.NoError(t, err)

	require.Equal(t, filepath.Join("base", "locale", "app.pot"), p.TemplatePath())
	require.Equal(t, filepath.Join("base", "locale", "de", "LC_MESSAGES", "app.po"), p.LocalePath("de"))

	p.Manifest.Template = "po/template.pot"
	require.Equal(t, filepath.Join("base", "po", "template.pot"), p.TemplatePath())
}

func TestProject_Initialize(t *testing.T) {
	stubClock(t)
	dir := t.TempDir()

	p, err := New(dir, WithLocales([]string{"de", "ru"}))
	require.NoError(t, err)
	require.NoError(t, p.Initialize())

	m, err := ReadManifest(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)
	require.Equal(t, p.Manifest, m)

	tmpl, err := po.ParseFile(p.TemplatePath())
	require.NoError(t, err)
	th, err := tmpl.Header()
	require.NoError(t, err)
	require.Equal(t, "PACKAGE VERSION", th.Get(po.HeaderProjectIDVersion))
	require.Equal(t, "2024-06-01 12:00+0000", th.Get(po.HeaderPOTCreationDate))
	require.Equal(t, "UTF-8", th.Charset())
	require.Empty(t, th.Language())

	de, err := po.ParseFile(p.LocalePath("de"))
	require.NoError(t, err)
	dh, err := de.Header()
	require.NoError(t, err)
	require.Equal(t, "de", dh.Language())
	require.Equal(t, "nplurals=2; plural=n!=1;", dh.Get(po.HeaderPluralForms))

	ru, err := po.ParseFile(p.LocalePath("ru"))
	require.NoError(t, err)
	rh, err := ru.Header()
	require.NoError(t, err)
	forms, err := rh.PluralForms()
	require.NoError(t, err)
	require.Equal(t, 3, forms.NPlurals)
}

func TestProject_InitializeKeepsExistingFiles(t *testing.T) {
	stubClock(t)
	dir := t.TempDir()

	p, err := New(dir, WithLocales([]string{"de"}))
	require.NoError(t, err)
	require.NoError(t, p.Initialize())

	custom := "msgid \"\"\nmsgstr \"Language: de\\n\"\n\nmsgid \"Kept\"\nmsgstr \"Bleibt\"\n"
	require.NoError(t, os.WriteFile(p.LocalePath("de"), []byte(custom), 0644))

	require.NoError(t, p.Initialize())

	got, err := os.ReadFile(p.LocalePath("de"))
	require.NoError(t, err)
	require.Equal(t, custom, string(got))
}

const syncTemplate = `msgid ""
msgstr ""
"Project-Id-Version: app\n"
"POT-Creation-Date: 2024-07-15 08:30+0000\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Hello"
msgstr ""

msgid "Brand new"
msgstr ""
`

const syncGermanCatalog = `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=n != 1;\n"

msgid "Hello"
msgstr "Hallo"

msgid "Old"
msgstr "Alt"
`

func TestProject_Sync(t *testing.T) {
	stubClock(t)
	dir := t.TempDir()

	p, err := New(dir, WithLocales([]string{"de", "ru"}))
	require.NoError(t, err)
	require.NoError(t, p.Initialize())

	require.NoError(t, os.WriteFile(p.TemplatePath(), []byte(syncTemplate), 0644))
	require.NoError(t, os.WriteFile(p.LocalePath("de"), []byte(syncGermanCatalog), 0644))
	require.NoError(t, os.Remove(p.LocalePath("ru")))

	require.NoError(t, p.Sync())

	de, err := po.ParseFile(p.LocalePath("de"))
	require.NoError(t, err)

	hello, ok := de.Lookup(gettext.NewMessageKey("Hello"))
	require.True(t, ok)
	require.Equal(t, []string{"Hallo"}, hello.Str)

	fresh, ok := de.Lookup(gettext.NewMessageKey("Brand new"))
	require.True(t, ok)
	require.Equal(t, []string{""}, fresh.Str)

	var old *po.Entry
	for _, e := range de.Entries() {
		if e.ID == "Old" {
			old = e
		}
	}
	require.NotNil(t, old)
	require.True(t, old.Obsolete)
	require.Equal(t, []string{"Alt"}, old.Str)

	dh, err := de.Header()
	require.NoError(t, err)
	require.Equal(t, "de", dh.Language())
	require.Equal(t, "2024-07-15 08:30+0000", dh.Get(po.HeaderPOTCreationDate))

	// The missing Russian catalog is created from a skeleton.
	ru, err := po.ParseFile(p.LocalePath("ru"))
	require.NoError(t, err)
	rh, err := ru.Header()
	require.NoError(t, err)
	require.Equal(t, "ru", rh.Language())

	_, ok = ru.Lookup(gettext.NewMessageKey("Hello"))
	require.True(t, ok)
	require.Equal(t, "0 translated, 2 untranslated", ru.Stats().String())
}

func TestProject_SyncBackup(t *testing.T) {
	stubClock(t)
	dir := t.TempDir()

	p, err := New(dir, WithLocales([]string{"de"}))
	require.NoError(t, err)
	require.NoError(t, p.Initialize())

	require.NoError(t, os.WriteFile(p.TemplatePath(), []byte(syncTemplate), 0644))
	require.NoError(t, os.WriteFile(p.LocalePath("de"), []byte(syncGermanCatalog), 0644))

	require.NoError(t, p.Sync(WithBackup()))

	backup := filepath.Join(dir, "locale.bak.20240601-120000")
	got, err := os.ReadFile(filepath.Join(backup, "de", "LC_MESSAGES", "messages.po"))
	require.NoError(t, err)
	require.Equal(t, syncGermanCatalog, string(got))

	// The live catalog moved on while the backup kept the old content.
	live, err := os.ReadFile(p.LocalePath("de"))
	require.NoError(t, err)
	require.NotEqual(t, syncGermanCatalog, string(live))
}

func TestProject_SyncMissingTemplate(t *testing.T) {
	p, err := New(t.TempDir(), WithLocales([]string{"de"}))
	require.NoError(t, err)

	err = p.Sync()
	require.ErrorContains(t, err, "read template")
}
