package tm

import (
	"path/filepath"
	"testing"

	"github.com/acronis/go-gettext"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestDB_RecordSuggest(t *testing.T) {
	db := openTestDB(t)

	msgs := []gettext.Message{
		{ID: "Hello", Str: []string{"Hallo"}},
		{Context: "menu", ID: "Open", Str: []string{"Öffnen"}},
		{ID: "%d file", IDPlural: "%d files", Str: []string{"%d Datei", "%d Dateien"}},
		{ID: "Untranslated", Str: []string{""}},
		{ID: "Empty"},
	}
	n, err := db.Record("de", msgs)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	msg, ok, err := db.Suggest("de", gettext.NewMessageKey("Hello"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Hallo"}, msg.Str)

	msg, ok, err = db.Suggest("de", gettext.NewMessageKeyC("menu", "Open"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Öffnen", msg.Str[0])

	msg, ok, err = db.Suggest("de", gettext.NewMessageKey("%d file"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "%d files", msg.IDPlural)
	require.Equal(t, []string{"%d Datei", "%d Dateien"}, msg.Str)

	// A contextless key does not see the context-qualified entry.
	_, ok, err = db.Suggest("de", gettext.NewMessageKey("Open"))
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = db.Suggest("fr", gettext.NewMessageKey("Hello"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDB_RecordOverwrites(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Record("de", []gettext.Message{{ID: "Hi", Str: []string{"Hallo"}}})
	require.NoError(t, err)
	n, err := db.Record("de", []gettext.Message{{ID: "Hi", Str: []string{"Servus"}}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	msg, ok, err := db.Suggest("de", gettext.NewMessageKey("Hi"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Servus"}, msg.Str)

	count, err := db.Stats("de")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestDB_NormalizesLanguage(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Record("pt_BR.UTF-8", []gettext.Message{{ID: "Hello", Str: []string{"Oi"}}})
	require.NoError(t, err)

	msg, ok, err := db.Suggest("pt-br", gettext.NewMessageKey("Hello"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Oi", msg.Str[0])
}

func TestDB_Stats(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Record("de", []gettext.Message{
		{ID: "A", Str: []string{"a"}},
		{ID: "B", Str: []string{"b"}},
	})
	require.NoError(t, err)
	_, err = db.Record("fr", []gettext.Message{{ID: "A", Str: []string{"à"}}})
	require.NoError(t, err)

	count, err := db.Stats("de")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = db.Stats("")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	langs, err := db.Languages()
	require.NoError(t, err)
	require.Equal(t, []string{"de", "fr"}, langs)
}

func TestDB_RecordRequiresLanguage(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Record("", []gettext.Message{{ID: "A", Str: []string{"a"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "language is required")
}

func TestDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tm.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.Record("de", []gettext.Message{{ID: "Hi", Str: []string{"Hallo"}}})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	msg, ok, err := db.Suggest("de", gettext.NewMessageKey("Hi"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Hallo", msg.Str[0])
}
