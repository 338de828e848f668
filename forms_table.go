/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

import (
	"strings"
)

// pluralFormsTable maps normalized language codes to the plural-forms
// declaration conventionally used for that language. The rules follow the
// table shipped with GNU gettext (gettext-tools/src/plural-table.c).
// Region-qualified entries take precedence over plain language entries.
var pluralFormsTable = map[string]string{
	// One form.
	"id": "nplurals=1; plural=0;",
	"ja": "nplurals=1; plural=0;",
	"ko": "nplurals=1; plural=0;",
	"ms": "nplurals=1; plural=0;",
	"th": "nplurals=1; plural=0;",
	"vi": "nplurals=1; plural=0;",
	"zh": "nplurals=1; plural=0;",

	// Two forms, singular for exactly one.
	"bg": "nplurals=2; plural=(n != 1);",
	"ca": "nplurals=2; plural=(n != 1);",
	"da": "nplurals=2; plural=(n != 1);",
	"de": "nplurals=2; plural=(n != 1);",
	"el": "nplurals=2; plural=(n != 1);",
	"en": "nplurals=2; plural=(n != 1);",
	"eo": "nplurals=2; plural=(n != 1);",
	"es": "nplurals=2; plural=(n != 1);",
	"et": "nplurals=2; plural=(n != 1);",
	"eu": "nplurals=2; plural=(n != 1);",
	"fi": "nplurals=2; plural=(n != 1);",
	"fo": "nplurals=2; plural=(n != 1);",
	"gl": "nplurals=2; plural=(n != 1);",
	"he": "nplurals=2; plural=(n != 1);",
	"hu": "nplurals=2; plural=(n != 1);",
	"it": "nplurals=2; plural=(n != 1);",
	"nb": "nplurals=2; plural=(n != 1);",
	"nl": "nplurals=2; plural=(n != 1);",
	"nn": "nplurals=2; plural=(n != 1);",
	"no": "nplurals=2; plural=(n != 1);",
	"pt": "nplurals=2; plural=(n != 1);",
	"sq": "nplurals=2; plural=(n != 1);",
	"sv": "nplurals=2; plural=(n != 1);",
	"tr": "nplurals=2; plural=(n != 1);",

	// Two forms, singular for zero and one.
	"fr":    "nplurals=2; plural=(n > 1);",
	"oc":    "nplurals=2; plural=(n > 1);",
	"pt_BR": "nplurals=2; plural=(n > 1);",

	// Two forms, irregular.
	"is": "nplurals=2; plural=(n%10!=1 || n%100==11);",
	"mk": "nplurals=2; plural=(n==1 || n%10==1 ? 0 : 1);",

	// Three forms.
	"be": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"bs": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"cs": "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;",
	"ga": "nplurals=3; plural=n==1 ? 0 : n==2 ? 1 : 2;",
	"hr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"lt": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"lv": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
	"pl": "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"ro": "nplurals=3; plural=n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2;",
	"ru": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"sk": "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;",
	"sr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"uk": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",

	// Four forms.
	"cy": "nplurals=4; plural=(n==1 ? 0 : n==2 ? 1 : (n != 8 && n != 11) ? 2 : 3);",
	"mt": "nplurals=4; plural=(n==1 ? 0 : n==0 || (n%100>1 && n%100<11) ? 1 : (n%100>10 && n%100<20) ? 2 : 3);",
	"sl": "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);",

	// Six forms.
	"ar": "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
}

// DefaultPluralForms returns the conventional plural-forms declaration for
// a language. The language may carry a region ("pt_BR", "pt-br") and an
// encoding or modifier suffix ("sr_RS.UTF-8@latin"), which are handled the
// way gettext locale names are: region-qualified rules win over plain ones,
// suffixes are ignored.
func DefaultPluralForms(lang string) (PluralForms, bool) {
	norm := NormalizeLang(lang)
	if norm == "" {
		return PluralForms{}, false
	}
	decl, ok := pluralFormsTable[norm]
	if !ok {
		if i := strings.IndexByte(norm, '_'); i > 0 {
			decl, ok = pluralFormsTable[norm[:i]]
		}
	}
	if !ok {
		return PluralForms{}, false
	}
	forms, err := ParsePluralForms(decl)
	if err != nil {
		return PluralForms{}, false
	}
	return forms, true
}

// NormalizeLang brings a locale name into the canonical "ll_CC" form:
// lower-case language, upper-case region, "-" treated as "_", encoding and
// modifier suffixes (".UTF-8", "@latin") stripped. An empty or non-locale
// input yields "".
func NormalizeLang(lang string) string {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.ReplaceAll(lang, "-", "_")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	parts := strings.SplitN(lang, "_", 2)
	out := strings.ToLower(parts[0])
	if len(parts) == 2 && parts[1] != "" {
		out += "_" + strings.ToUpper(parts[1])
	}
	return out
}
