package po

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// ParseError wraps any parsing error together with the position it was
// detected at.
type ParseError struct {
	Err  error
	File string
	Line int
}

// Error implements "error" interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap implements Wrapper interface.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseOption is an interface for functional options that can be passed to
// the parsing functions.
type ParseOption interface {
	apply(*parseOptions)
}

type parseOptions struct {
	allowDuplicates bool
}

type allowDuplicatesParseOption struct{}

func (allowDuplicatesParseOption) apply(opts *parseOptions) {
	opts.allowDuplicates = true
}

// WithAllowDuplicates makes repeated definitions of the same message a
// non-error. The key index keeps the first definition, the entry list
// keeps all of them.
func WithAllowDuplicates() ParseOption {
	return allowDuplicatesParseOption{}
}

func makeParseOptions(opts ...ParseOption) parseOptions {
	var options parseOptions
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Parse reads a PO file. Entry order, comments and string contents are
// preserved exactly; standalone comment blocks that precede no message are
// discarded, the way msgcat treats them.
func Parse(r io.Reader, opts ...ParseOption) (*File, error) {
	return parse(r, "", opts...)
}

// ParseBytes parses an in-memory PO file.
func ParseBytes(data []byte, opts ...ParseOption) (*File, error) {
	return parse(bytes.NewReader(data), "", opts...)
}

// ParseFile parses a PO file on disk. Errors carry the file path.
func ParseFile(path string, opts ...ParseOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PO file: %w", err)
	}
	defer f.Close()
	return parse(f, path, opts...)
}

// ParseFS parses a PO file from a file system. Errors carry the file path.
func ParseFS(fsys fs.FS, path string, opts ...ParseOption) (*File, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PO file: %w", err)
	}
	defer f.Close()
	return parse(f, path, opts...)
}

type section int

const (
	secNone section = iota
	secCtx
	secID
	secIDPlural
	secStr
	secPrevCtx
	secPrevID
	secPrevIDPlural
)

type parser struct {
	file *File
	name string
	opts parseOptions

	lineNo  int
	cur     *Entry
	section section
	sawID   bool
	sawStr  bool
}

func parse(r io.Reader, name string, opts ...ParseOption) (*File, error) {
	p := &parser{file: NewFile(), name: name, opts: makeParseOptions(opts...)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.lineNo++
		line := sc.Text()
		if p.lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		line = strings.TrimSuffix(line, "\r")
		if err := p.parseLine(line); err != nil {
			return nil, &ParseError{Err: err, File: name, Line: p.lineNo}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read PO file: %w", err)
	}
	if err := p.finalize(); err != nil {
		return nil, &ParseError{Err: err, File: name, Line: p.lineNo}
	}
	return p.file, nil
}

func (p *parser) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return p.finalize()
	case trimmed[0] == '#':
		return p.parseCommentLine(trimmed[1:])
	case trimmed[0] == '"':
		return p.parseContinuation(trimmed, false)
	default:
		return p.parseKeywordLine(trimmed, false)
	}
}

func (p *parser) parseCommentLine(rest string) error {
	if strings.HasPrefix(rest, "~") {
		return p.parseObsoleteLine(strings.TrimSpace(rest[1:]))
	}
	if err := p.beforeComment(); err != nil {
		return err
	}
	switch {
	case strings.HasPrefix(rest, "."):
		p.cur.ExtractedComments = append(p.cur.ExtractedComments, strings.TrimPrefix(rest[1:], " "))
	case strings.HasPrefix(rest, ":"):
		p.cur.References = append(p.cur.References, strings.Fields(rest[1:])...)
	case strings.HasPrefix(rest, ","):
		for _, flag := range strings.Split(rest[1:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				p.cur.Flags = append(p.cur.Flags, flag)
			}
		}
	case strings.HasPrefix(rest, "|"):
		return p.parsePreviousLine(strings.TrimSpace(rest[1:]))
	default:
		p.cur.TranslatorComments = append(p.cur.TranslatorComments, strings.TrimPrefix(rest, " "))
	}
	return nil
}

// beforeComment closes the running entry when its translation part is done:
// a comment after msgstr opens the next entry.
func (p *parser) beforeComment() error {
	if p.sawStr {
		if err := p.finalize(); err != nil {
			return err
		}
	}
	p.ensureCur(false)
	return nil
}

func (p *parser) parseObsoleteLine(rest string) error {
	switch {
	case rest == "":
		return fmt.Errorf(`expect a keyword or a string after "#~"`)
	case rest[0] == '"':
		return p.parseContinuation(rest, true)
	case rest[0] == '|':
		if err := p.syncObsolete(true); err != nil {
			return err
		}
		p.ensureCur(true)
		return p.parsePreviousLine(strings.TrimSpace(rest[1:]))
	default:
		return p.parseKeywordLine(rest, true)
	}
}

func (p *parser) parsePreviousLine(rest string) error {
	keyword, tokens := splitKeyword(rest)
	value, err := parseStringTokens(tokens)
	if err != nil {
		return err
	}
	switch keyword {
	case "msgctxt":
		p.cur.PreviousContext = value
		p.section = secPrevCtx
	case "msgid":
		p.cur.PreviousID = value
		p.section = secPrevID
	case "msgid_plural":
		p.cur.PreviousIDPlural = value
		p.section = secPrevIDPlural
	case "":
		switch p.section {
		case secPrevCtx:
			p.cur.PreviousContext += value
		case secPrevID:
			p.cur.PreviousID += value
		case secPrevIDPlural:
			p.cur.PreviousIDPlural += value
		default:
			return fmt.Errorf(`misplaced string in a "#|" comment`)
		}
	default:
		return fmt.Errorf(`unknown keyword %q in a "#|" comment`, keyword)
	}
	return nil
}

//nolint:gocyclo // func implements an alg with well-defined concrete purpose, so high cyclomatic complexity is ok here
func (p *parser) parseKeywordLine(line string, obsolete bool) error {
	keyword, tokens := splitKeyword(line)
	value, err := parseStringTokens(tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", keyword, err)
	}

	switch {
	case keyword == "msgctxt":
		if p.sawStr {
			if err := p.finalize(); err != nil {
				return err
			}
		}
		if err := p.syncObsolete(obsolete); err != nil {
			return err
		}
		p.ensureCur(obsolete)
		if p.cur.HasContext {
			return fmt.Errorf(`duplicate "msgctxt"`)
		}
		if p.sawID {
			return fmt.Errorf(`"msgctxt" must precede "msgid"`)
		}
		p.cur.Context = value
		p.cur.HasContext = true
		p.section = secCtx

	case keyword == "msgid":
		if p.sawStr {
			if err := p.finalize(); err != nil {
				return err
			}
		}
		if err := p.syncObsolete(obsolete); err != nil {
			return err
		}
		if p.sawID {
			return fmt.Errorf(`duplicate "msgid"`)
		}
		p.ensureCur(obsolete)
		p.cur.ID = value
		p.cur.Line = p.lineNo
		p.sawID = true
		p.section = secID

	case keyword == "msgid_plural":
		if err := p.syncObsolete(obsolete); err != nil {
			return err
		}
		if !p.sawID || p.sawStr {
			return fmt.Errorf(`unexpected "msgid_plural"`)
		}
		if p.section == secIDPlural {
			return fmt.Errorf(`duplicate "msgid_plural"`)
		}
		p.cur.IDPlural = value
		p.section = secIDPlural

	case keyword == "msgstr":
		if err := p.syncObsolete(obsolete); err != nil {
			return err
		}
		if !p.sawID {
			return fmt.Errorf(`"msgstr" without "msgid"`)
		}
		if p.cur.IDPlural != "" {
			return fmt.Errorf(`expect "msgstr[0]" after "msgid_plural"`)
		}
		if p.sawStr {
			return fmt.Errorf(`duplicate "msgstr"`)
		}
		p.cur.Str = []string{value}
		p.sawStr = true
		p.section = secStr

	case strings.HasPrefix(keyword, "msgstr["):
		idx, idxErr := parsePluralIndex(keyword)
		if idxErr != nil {
			return idxErr
		}
		if err := p.syncObsolete(obsolete); err != nil {
			return err
		}
		if !p.sawID {
			return fmt.Errorf(`"%s" without "msgid"`, keyword)
		}
		if p.cur.IDPlural == "" {
			return fmt.Errorf(`"%s" without "msgid_plural"`, keyword)
		}
		if idx != len(p.cur.Str) {
			return fmt.Errorf("plural form index %d is out of order, expect %d", idx, len(p.cur.Str))
		}
		p.cur.Str = append(p.cur.Str, value)
		p.sawStr = true
		p.section = secStr

	default:
		return fmt.Errorf("unknown keyword %q", keyword)
	}
	return nil
}

func (p *parser) parseContinuation(line string, obsolete bool) error {
	if err := p.syncObsolete(obsolete); err != nil {
		return err
	}
	value, err := parseStringTokens(line)
	if err != nil {
		return err
	}
	switch p.section {
	case secCtx:
		p.cur.Context += value
	case secID:
		p.cur.ID += value
	case secIDPlural:
		p.cur.IDPlural += value
	case secStr:
		p.cur.Str[len(p.cur.Str)-1] += value
	case secPrevCtx, secPrevID, secPrevIDPlural:
		return p.parsePreviousLine(line)
	default:
		return fmt.Errorf("misplaced string")
	}
	return nil
}

// syncObsolete validates that "#~" markers are used consistently within one
// entry. A comments-only entry may still turn obsolete: its comments were
// read before the first "#~" line.
func (p *parser) syncObsolete(obsolete bool) error {
	if p.cur == nil || p.cur.Obsolete == obsolete {
		return nil
	}
	if obsolete && !p.sawID && !p.sawStr && !p.cur.HasContext {
		p.cur.Obsolete = true
		return nil
	}
	return fmt.Errorf(`inconsistent use of "#~"`)
}

func (p *parser) ensureCur(obsolete bool) {
	if p.cur == nil {
		p.cur = &Entry{Obsolete: obsolete}
		p.section = secNone
	}
}

func (p *parser) finalize() error {
	if p.cur == nil {
		return nil
	}
	e, sawID, sawStr := p.cur, p.sawID, p.sawStr
	p.cur = nil
	p.section = secNone
	p.sawID = false
	p.sawStr = false

	if !sawID {
		if e.HasContext {
			return fmt.Errorf(`"msgctxt" without "msgid"`)
		}
		// A standalone comment block, not attached to any message.
		return nil
	}
	if !sawStr {
		return fmt.Errorf(`"msgid" without "msgstr"`)
	}

	if e.Obsolete || p.opts.allowDuplicates {
		p.file.addEntryAnyway(e)
		return nil
	}
	if prev, ok := p.file.Lookup(e.Key()); ok {
		if e.HasContext {
			return fmt.Errorf("duplicate message definition for msgctxt %q msgid %q, first defined at line %d",
				e.Context, e.ID, prev.Line)
		}
		return fmt.Errorf("duplicate message definition for msgid %q, first defined at line %d", e.ID, prev.Line)
	}
	p.file.addEntryAnyway(e)
	return nil
}

// splitKeyword cuts the leading keyword off a line, returning the keyword
// and everything after it.
func splitKeyword(line string) (keyword, rest string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '"':
			return line[:i], line[i:]
		}
	}
	return line, ""
}

func parsePluralIndex(keyword string) (int, error) {
	if !strings.HasSuffix(keyword, "]") {
		return 0, fmt.Errorf("malformed keyword %q", keyword)
	}
	idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("malformed keyword %q", keyword)
	}
	return idx, nil
}

// parseStringTokens concatenates the quoted string tokens of a line.
// An empty line yields "".
func parseStringTokens(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	var b strings.Builder
	for s != "" {
		if s[0] != '"' {
			return "", fmt.Errorf("expect a string in double quotes, got %q", s)
		}
		raw, rest, err := cutStringToken(s)
		if err != nil {
			return "", err
		}
		value, err := decodeString(raw)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
		s = strings.TrimSpace(rest)
	}
	return b.String(), nil
}

// cutStringToken cuts one double-quoted token off the front of s, leaving
// escape sequences undecoded.
func cutStringToken(s string) (raw, rest string, err error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return s[1:i], s[i+1:], nil
		}
	}
	return "", s, fmt.Errorf("unterminated string")
}
