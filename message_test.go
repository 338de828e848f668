/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

import (
	"testing"
)

func Test_MessageKey_String(t *testing.T) {
	tests := map[string]struct {
		key  MessageKey
		want string
	}{
		"no context": {
			key:  NewMessageKey("Monday"),
			want: "Monday",
		},
		"with context": {
			key:  NewMessageKeyC("weekday initial", "M"),
			want: "weekday initial\x04M",
		},
		"empty id": {
			key:  NewMessageKey(""),
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assertEqual(t, tt.want, tt.key.String())
			assertEqual(t, tt.key, ParseMessageKey(tt.key.String()))
		})
	}
}

// Same ID under different contexts must produce distinct keys. The classic
// case is one-letter weekday abbreviations: "M" for both Monday and March.
func Test_MessageKey_ContextDisambiguation(t *testing.T) {
	monday := NewMessageKeyC("weekday initial", "M")
	march := NewMessageKeyC("month initial", "M")
	if monday == march {
		t.Errorf("keys with different contexts compare equal")
	}
	if monday.String() == march.String() {
		t.Errorf("flat forms of keys with different contexts collide")
	}
}

func Test_Message(t *testing.T) {
	singular := Message{ID: "Hello", Str: []string{"Hallo"}}
	assertEqual(t, false, singular.IsPlural())
	assertEqual(t, true, singular.IsTranslated())
	assertEqual(t, NewMessageKey("Hello"), singular.Key())

	plural := Message{
		ID:       "%d file",
		IDPlural: "%d files",
		Str:      []string{"%d Datei", "%d Dateien"},
	}
	assertEqual(t, true, plural.IsPlural())
	assertEqual(t, true, plural.IsTranslated())

	missingForm := Message{ID: "%d file", IDPlural: "%d files", Str: []string{"%d Datei", ""}}
	assertEqual(t, false, missingForm.IsTranslated())

	empty := Message{ID: "Hello"}
	assertEqual(t, false, empty.IsTranslated())

	withCtx := Message{Context: "menu", ID: "Open"}
	assertEqual(t, NewMessageKeyC("menu", "Open"), withCtx.Key())
}
