package lint

import (
	"testing"

	"github.com/acronis/go-gettext/po"
	"github.com/stretchr/testify/require"
)

const cleanHeader = `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=n != 1;\n"
`

func parsePO(t *testing.T, src string, opts ...po.ParseOption) *po.File {
	t.Helper()
	f, err := po.ParseBytes([]byte(src), opts...)
	require.NoError(t, err)
	return f
}

func findRule(ps Problems, rule string) *Problem {
	for i := range ps {
		if ps[i].Rule == rule {
			return &ps[i]
		}
	}
	return nil
}

func TestLint_Clean(t *testing.T) {
	f := parsePO(t, cleanHeader+`
msgid "Hello"
msgstr "Hallo"

#, c-format
msgid "Copying %d files"
msgstr "Kopiere %d Dateien"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d Datei"
msgstr[1] "%d Dateien"
`)
	problems := Lint(f)
	require.Empty(t, problems)
	require.NoError(t, problems.Err())
}

func TestLint_Header(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantSeverity Severity
		wantContains string
	}{
		{
			name:         "no header entry",
			src:          "msgid \"Hi\"\nmsgstr \"Hallo\"\n",
			wantSeverity: SeverityError,
			wantContains: "missing header entry",
		},
		{
			name: "missing language",
			src: `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
`,
			wantSeverity: SeverityWarning,
			wantContains: "lacks a Language field",
		},
		{
			name: "missing charset",
			src: `msgid ""
msgstr ""
"Language: de\n"
`,
			wantSeverity: SeverityWarning,
			wantContains: "lacks a Content-Type charset",
		},
		{
			name: "charset placeholder",
			src: `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=CHARSET\n"
`,
			wantSeverity: SeverityWarning,
			wantContains: "CHARSET template placeholder",
		},
		{
			name: "unsupported charset",
			src: `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=ISO-8859-1\n"
`,
			wantSeverity: SeverityError,
			wantContains: `charset "ISO-8859-1" is not supported`,
		},
		{
			name: "malformed plural forms",
			src: `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=zwei; plural=0;\n"
`,
			wantSeverity: SeverityError,
			wantContains: "malformed Plural-Forms",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Lint(parsePO(t, tt.src))
			p := findRule(problems, RuleHeader)
			require.NotNil(t, p)
			require.Equal(t, tt.wantSeverity, p.Severity)
			require.Contains(t, p.Msg, tt.wantContains)
		})
	}
}

func TestLint_PluralCount(t *testing.T) {
	t.Run("too many forms", func(t *testing.T) {
		f := parsePO(t, cleanHeader+`
msgid "box"
msgid_plural "boxes"
msgstr[0] "Kiste"
msgstr[1] "Kisten"
msgstr[2] "Kistens"
`)
		p := findRule(Lint(f), RulePluralCount)
		require.NotNil(t, p)
		require.Equal(t, SeverityError, p.Severity)
		require.Contains(t, p.Msg, "has 3 msgstr forms, Plural-Forms declares 2")
	})

	t.Run("untranslated entry skipped", func(t *testing.T) {
		f := parsePO(t, cleanHeader+`
msgid "box"
msgid_plural "boxes"
msgstr[0] ""
`)
		problems := Lint(f)
		require.Nil(t, findRule(problems, RulePluralCount))
		require.NotNil(t, findRule(problems, RuleUntranslated))
	})

	t.Run("no plural forms header", func(t *testing.T) {
		f := parsePO(t, `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "box"
msgid_plural "boxes"
msgstr[0] "Kiste"
msgstr[1] "Kisten"

msgid "pen"
msgid_plural "pens"
msgstr[0] "Stift"
msgstr[1] "Stifte"
`)
		problems := Lint(f)
		p := findRule(problems, RulePluralCount)
		require.NotNil(t, p)
		require.Equal(t, SeverityWarning, p.Severity)
		require.Contains(t, p.Msg, "no Plural-Forms header")
		// Warned once, not per entry.
		require.Len(t, problems, 1)
	})

	t.Run("singular with indexed forms", func(t *testing.T) {
		f := po.NewFile()
		require.NoError(t, f.AddEntry(&po.Entry{ID: "One", Str: []string{"Eins", "Zwei"}}))
		p := findRule(Lint(f), RulePluralCount)
		require.NotNil(t, p)
		require.Equal(t, SeverityError, p.Severity)
		require.Contains(t, p.Msg, "singular entry carries 2 msgstr forms")
	})
}

func TestLint_Duplicates(t *testing.T) {
	f := parsePO(t, cleanHeader+`
msgid "Hi"
msgstr "Hallo"

msgid "Hi"
msgstr "Servus"
`, po.WithAllowDuplicates())
	p := findRule(Lint(f), RuleDuplicate)
	require.NotNil(t, p)
	require.Equal(t, SeverityError, p.Severity)
	require.Equal(t, 10, p.Line)
	require.Contains(t, p.Msg, "first defined at line 7")
}

func TestLint_Format(t *testing.T) {
	tests := []struct {
		name         string
		entry        string
		wantSeverity Severity
		wantContains string // empty means no finding expected
	}{
		{
			name: "c-format lost directive",
			entry: `#, c-format
msgid "Copy %d files"
msgstr "Kopieren"
`,
			wantSeverity: SeverityError,
			wantContains: "msgstr (none) do not match msgid (%d)",
		},
		{
			name: "fuzzy downgrades to warning",
			entry: `#, fuzzy, c-format
msgid "Copy %d files"
msgstr "Kopieren"
`,
			wantSeverity: SeverityWarning,
			wantContains: "do not match msgid",
		},
		{
			name: "auto-detected directive",
			entry: `msgid "Delete %d rows?"
msgstr "Zeilen löschen?"
`,
			wantSeverity: SeverityError,
			wantContains: "(none) do not match msgid (%d)",
		},
		{
			name: "prose percent not flagged",
			entry: `msgid "100% clean"
msgstr "100% sauber"
`,
		},
		{
			name: "no-c-format opt-out",
			entry: `#, no-c-format
msgid "Total: %d"
msgstr "Summe"
`,
		},
		{
			name: "python named reorder",
			entry: `#, python-format
msgid "%(n)d files from %(h)s"
msgstr "%(h)s: %(n)d Dateien"
`,
		},
		{
			name: "python named lost",
			entry: `#, python-format
msgid "%(n)d files"
msgstr "Dateien"
`,
			wantSeverity: SeverityError,
			wantContains: "%(n)d",
		},
		{
			name: "brace renamed field",
			entry: `#, python-brace-format
msgid "Hello {user}"
msgstr "Hallo {benutzer}"
`,
			wantSeverity: SeverityError,
			wantContains: "{user}",
		},
		{
			name: "brace reorder",
			entry: `#, python-brace-format
msgid "{a} to {b}"
msgstr "{b} von {a}"
`,
		},
		{
			name: "plural form may match singular msgid",
			entry: `#, c-format
msgid "One file"
msgid_plural "%d files"
msgstr[0] "Eine Datei"
msgstr[1] "%d Dateien"
`,
		},
		{
			name: "plural form lost directive",
			entry: `#, c-format
msgid "%d file"
msgid_plural "%d files"
msgstr[0] "Eine Datei"
msgstr[1] "%d Dateien"
`,
			wantSeverity: SeverityError,
			wantContains: "msgstr[0] (none) do not match msgid_plural (%d)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Lint(parsePO(t, cleanHeader+"\n"+tt.entry))
			p := findRule(problems, RuleFormat)
			if tt.wantContains == "" {
				require.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			require.Equal(t, tt.wantSeverity, p.Severity)
			require.Contains(t, p.Msg, tt.wantContains)
		})
	}
}

func TestLint_Newlines(t *testing.T) {
	tests := []struct {
		name         string
		entry        string
		wantSeverity Severity
		wantContains string // empty means no finding expected
	}{
		{
			name: "lost trailing newline",
			entry: `msgid "Done\n"
msgstr "Fertig"
`,
			wantSeverity: SeverityError,
			wantContains: `do not both end with \n`,
		},
		{
			name: "added leading newline",
			entry: `msgid "Intro"
msgstr "\nEinleitung"
`,
			wantSeverity: SeverityError,
			wantContains: `do not both begin with \n`,
		},
		{
			name: "fuzzy downgrades to warning",
			entry: `#, fuzzy
msgid "Done\n"
msgstr "Fertig"
`,
			wantSeverity: SeverityWarning,
			wantContains: `do not both end with \n`,
		},
		{
			name: "symmetric newlines",
			entry: `msgid "Line\n"
msgstr "Zeile\n"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Lint(parsePO(t, cleanHeader+"\n"+tt.entry))
			p := findRule(problems, RuleNewline)
			if tt.wantContains == "" {
				require.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			require.Equal(t, tt.wantSeverity, p.Severity)
			require.Contains(t, p.Msg, tt.wantContains)
		})
	}
}

func TestLint_Counts(t *testing.T) {
	src := cleanHeader + `
msgid "One"
msgstr ""

#, fuzzy
msgid "Two"
msgstr "Zwei"

msgid "Three"
msgstr "Drei"
`
	f := parsePO(t, src)

	problems := Lint(f)
	p := findRule(problems, RuleUntranslated)
	require.NotNil(t, p)
	require.Equal(t, SeverityWarning, p.Severity)
	require.Equal(t, "1 of 3 messages are untranslated", p.Msg)
	p = findRule(problems, RuleFuzzy)
	require.NotNil(t, p)
	require.Equal(t, "1 fuzzy messages need review", p.Msg)
	require.Equal(t, 0, problems.Errors())
	require.Equal(t, 2, problems.Warnings())
	require.NoError(t, problems.Err())

	// The source-language catalog is not expected to be translated.
	require.Empty(t, Lint(f, WithSourceLanguage("de")))
	require.Empty(t, Lint(f, WithSourceLanguage("DE")))
	require.Len(t, Lint(f, WithSourceLanguage("en")), 2)

	require.Empty(t, Lint(f, WithoutRule(RuleUntranslated), WithoutRule(RuleFuzzy)))
}

func TestProblems_Err(t *testing.T) {
	f := parsePO(t, cleanHeader+`
#, c-format
msgid "Copy %d files"
msgstr "Kopieren"
`)
	problems := Lint(f)
	require.Equal(t, 1, problems.Errors())
	err := problems.Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "do not match msgid")
}

func TestProblem_String(t *testing.T) {
	p := Problem{Severity: SeverityError, Rule: RuleFormat, Line: 12, Msg: "boom"}
	require.Equal(t, "line 12: error: boom (format)", p.String())

	p = Problem{Severity: SeverityWarning, Rule: RuleUntranslated, Msg: "3 of 4 messages are untranslated"}
	require.Equal(t, "warning: 3 of 4 messages are untranslated (untranslated)", p.String())
}
