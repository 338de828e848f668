package lint

import (
	"sort"
	"strconv"
	"strings"
)

// directive is one conversion specification of a printf-style format
// string.
type directive struct {
	pos  int    // explicit 1-based argument position, 0 when sequential
	name string // named argument of "%(name)s" python directives
	verb byte
	raw  string
}

const printfVerbs = "bcdeEfFgGioqrsuvxXaAp"

// parsePrintf extracts the directives of a printf-style format string.
// Python mode additionally understands "%(name)s" named arguments. Strict
// mode rejects the space flag, which keeps prose like "100% clean" from
// reading as a directive during auto-detection.
func parsePrintf(s string, python, strict bool) []directive {
	flags := "#0- +'"
	if strict {
		flags = "#0-+'"
	}
	var out []directive
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		start := i
		i++
		if i >= len(s) {
			break
		}
		if s[i] == '%' {
			continue
		}

		var name string
		if python && s[i] == '(' {
			end := strings.IndexByte(s[i:], ')')
			if end < 0 {
				break
			}
			name = s[i+1 : i+end]
			i += end + 1
		}

		pos := 0
		if !python {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > i && j < len(s) && s[j] == '$' {
				pos, _ = strconv.Atoi(s[i:j])
				i = j + 1
			}
		}

		for i < len(s) && strings.IndexByte(flags, s[i]) >= 0 {
			i++
		}
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '*') {
			i++
		}
		if i < len(s) && s[i] == '.' {
			i++
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '*') {
				i++
			}
		}
		for i < len(s) && strings.IndexByte("hlLqjzt", s[i]) >= 0 {
			i++
		}
		if i >= len(s) {
			break
		}
		verb := s[i]
		if strings.IndexByte(printfVerbs, verb) < 0 {
			i = start
			continue
		}
		out = append(out, directive{pos: pos, name: name, verb: verb, raw: s[start : i+1]})
	}
	return out
}

// hasPrintfDirectives reports whether a string carries an unmistakable
// printf directive, used to lint entries nobody flagged.
func hasPrintfDirectives(s string) bool {
	return len(parsePrintf(s, false, true)) > 0
}

// printfCompatible reports whether a translation consumes the same
// arguments as its source string. Named directives compare as sets,
// positional ones by position, plain ones by order.
func printfCompatible(id, str []directive) bool {
	named, positional := false, false
	for _, d := range id {
		named = named || d.name != ""
		positional = positional || d.pos > 0
	}
	for _, d := range str {
		named = named || d.name != ""
		positional = positional || d.pos > 0
	}
	switch {
	case named:
		return stringSetEqual(namedVerbs(id), namedVerbs(str))
	case positional:
		return stringSetEqual(positionalVerbs(id), positionalVerbs(str))
	default:
		if len(id) != len(str) {
			return false
		}
		for i := range id {
			if id[i].verb != str[i].verb {
				return false
			}
		}
		return true
	}
}

func namedVerbs(dirs []directive) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, d.name+"="+string(d.verb))
	}
	return out
}

// positionalVerbs renders each directive as "<position>=<verb>", assigning
// sequential positions to directives without an explicit one.
func positionalVerbs(dirs []directive) []string {
	out := make([]string, 0, len(dirs))
	next := 1
	for _, d := range dirs {
		pos := d.pos
		if pos == 0 {
			pos = next
		}
		next = pos + 1
		out = append(out, strconv.Itoa(pos)+"="+string(d.verb))
	}
	return out
}

func stringSetEqual(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	for _, s := range b {
		delete(seen, s)
	}
	return len(seen) == 0
}

// directivesString renders a directive list for a problem message.
func directivesString(dirs []directive) string {
	if len(dirs) == 0 {
		return "none"
	}
	raws := make([]string, 0, len(dirs))
	for _, d := range dirs {
		raws = append(raws, d.raw)
	}
	return strings.Join(raws, " ")
}

// parseBrace extracts the {field} placeholders of a python brace-format
// string. Doubled braces escape themselves. Format specs and conversions
// after ":" or "!" are not part of the field name.
func parseBrace(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return out
			}
			field := s[i+1 : i+end]
			if j := strings.IndexAny(field, ":!"); j >= 0 {
				field = field[:j]
			}
			out = append(out, field)
			i += end
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				i++
			}
		}
	}
	return out
}

// braceCompatible reports whether two brace-format strings use the same
// placeholders. Named fields compare as sets, anonymous ones by count.
func braceCompatible(id, str []string) bool {
	idAnon, idNamed := splitBraceFields(id)
	strAnon, strNamed := splitBraceFields(str)
	if idAnon != strAnon {
		return false
	}
	sort.Strings(idNamed)
	sort.Strings(strNamed)
	idNamed = dedupe(idNamed)
	strNamed = dedupe(strNamed)
	if len(idNamed) != len(strNamed) {
		return false
	}
	for i := range idNamed {
		if idNamed[i] != strNamed[i] {
			return false
		}
	}
	return true
}

// splitBraceFields separates anonymous "{}" placeholders, which are
// consumed in order and only their count matters, from named or indexed
// ones, which a translation may reorder but must all mention.
func splitBraceFields(fields []string) (anon int, named []string) {
	for _, f := range fields {
		if f == "" {
			anon++
			continue
		}
		named = append(named, f)
	}
	return anon, named
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// braceString renders placeholder fields for a problem message.
func braceString(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, "{"+f+"}")
	}
	return strings.Join(quoted, " ")
}
