package po

import (
	"fmt"
	"strings"
)

// encodeString renders value the way it appears between the quotes of a PO
// string token. Only characters that cannot appear raw are escaped.
func encodeString(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// decodeString reverses encodeString and additionally accepts the octal and
// hexadecimal escapes C allows inside string literals.
func decodeString(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(raw) {
			return "", fmt.Errorf("dangling backslash")
		}
		switch raw[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			val := 0
			digits := 0
			for i+1 < len(raw) && digits < 2 {
				d, ok := hexDigit(raw[i+1])
				if !ok {
					break
				}
				val = val*16 + d
				i++
				digits++
			}
			if digits == 0 {
				return "", fmt.Errorf(`incomplete "\x" escape`)
			}
			b.WriteByte(byte(val))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := int(raw[i] - '0')
			digits := 1
			for i+1 < len(raw) && digits < 3 && raw[i+1] >= '0' && raw[i+1] <= '7' {
				val = val*8 + int(raw[i+1]-'0')
				i++
				digits++
			}
			if val > 0xff {
				return "", fmt.Errorf("octal escape out of range")
			}
			b.WriteByte(byte(val))
		default:
			return "", fmt.Errorf("unknown escape sequence %q", `\`+string(raw[i]))
		}
	}
	return b.String(), nil
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
