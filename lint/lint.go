// Package lint checks parsed PO files for the problems that break
// compilation or lose format arguments at runtime, plus a few hygiene
// warnings about translation state.
package lint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-stacktrace"
)

// Severity classifies a problem. Only errors make Problems.Err non-nil.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Rule names, usable with WithoutRule.
const (
	RuleHeader       = "header"
	RulePluralCount  = "plural-count"
	RuleDuplicate    = "duplicate"
	RuleFormat       = "format"
	RuleNewline      = "newline"
	RuleUntranslated = "untranslated"
	RuleFuzzy        = "fuzzy"
)

// Problem is one linter finding.
type Problem struct {
	Severity Severity
	Rule     string
	Key      gettext.MessageKey
	Line     int
	Msg      string
}

func (p Problem) String() string {
	var b strings.Builder
	if p.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", p.Line)
	}
	fmt.Fprintf(&b, "%s: %s (%s)", p.Severity, p.Msg, p.Rule)
	return b.String()
}

// Problems is an ordered list of findings: header problems first, entry
// problems in file order, translation-state warnings last.
type Problems []Problem

// Errors counts the error-severity problems.
func (ps Problems) Errors() int {
	n := 0
	for _, p := range ps {
		if p.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts the warning-severity problems.
func (ps Problems) Warnings() int {
	return len(ps) - ps.Errors()
}

// Err folds the error-severity problems into a single stack-traced error,
// nil when the list holds warnings only.
func (ps Problems) Err() error {
	st := stacktrace.StackTrace{}
	for _, p := range ps {
		if p.Severity != SeverityError {
			continue
		}
		if p.Line > 0 {
			_ = st.Append(stacktrace.New(p.Msg, stacktrace.WithInfo("rule", p.Rule),
				stacktrace.WithInfo("line", strconv.Itoa(p.Line)), stacktrace.WithType("lint")))
		} else {
			_ = st.Append(stacktrace.New(p.Msg, stacktrace.WithInfo("rule", p.Rule),
				stacktrace.WithType("lint")))
		}
	}
	if len(st.List) > 0 {
		return &st
	}
	return nil
}

// Option is an interface for functional options that can be passed to Lint.
type Option interface {
	apply(*options)
}

type options struct {
	disabled map[string]bool
	source   string
}

type withoutRuleOption struct {
	name string
}

func (o withoutRuleOption) apply(opts *options) {
	if opts.disabled == nil {
		opts.disabled = make(map[string]bool)
	}
	opts.disabled[o.name] = true
}

// WithoutRule disables a rule by name.
func WithoutRule(name string) Option {
	return withoutRuleOption{name: name}
}

type sourceLanguageOption struct {
	lang string
}

func (o sourceLanguageOption) apply(opts *options) {
	opts.source = o.lang
}

// WithSourceLanguage declares the language the msgids are written in. A
// catalog of that language is not expected to carry translations, so the
// untranslated and fuzzy warnings are suppressed for it.
func WithSourceLanguage(lang string) Option {
	return sourceLanguageOption{lang: lang}
}

func makeOptions(opts ...Option) options {
	var options options
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Lint checks a parsed file and returns its findings. The list is empty
// for a clean file; obsolete entries are not checked.
func Lint(file *po.File, opts ...Option) Problems {
	l := &linter{file: file, opts: makeOptions(opts...)}
	l.checkHeader()
	l.checkEntries()
	return l.problems
}

type linter struct {
	file *po.File
	opts options

	forms         gettext.PluralForms
	declared      bool
	language      string
	warnedNoForms bool

	problems Problems
}

func (l *linter) report(severity Severity, rule string, e *po.Entry, msg string) {
	if l.opts.disabled[rule] {
		return
	}
	p := Problem{Severity: severity, Rule: rule, Msg: msg}
	if e != nil {
		p.Key = e.Key()
		p.Line = e.Line
	}
	l.problems = append(l.problems, p)
}

func (l *linter) checkHeader() {
	l.forms = gettext.GermanicPluralForms

	he := l.file.HeaderEntry()
	if he == nil {
		l.report(SeverityError, RuleHeader, nil, `missing header entry (msgid "")`)
		return
	}
	header, err := l.file.Header()
	if err != nil {
		l.report(SeverityError, RuleHeader, he, fmt.Sprintf("malformed header: %v", err))
		return
	}
	l.language = header.Language()
	if l.language == "" {
		l.report(SeverityWarning, RuleHeader, he, "header lacks a Language field")
	}
	switch charset := header.Charset(); {
	case charset == "":
		l.report(SeverityWarning, RuleHeader, he, "header lacks a Content-Type charset")
	case charset == "CHARSET":
		l.report(SeverityWarning, RuleHeader, he, "header carries the CHARSET template placeholder")
	case !strings.EqualFold(charset, "UTF-8"):
		l.report(SeverityError, RuleHeader, he, fmt.Sprintf("charset %q is not supported, use UTF-8", charset))
	}
	declared, err := header.PluralForms()
	if err != nil {
		l.report(SeverityError, RuleHeader, he, fmt.Sprintf("malformed Plural-Forms: %v", err))
		return
	}
	l.declared = !declared.IsZero()
	if forms, err := l.file.PluralForms(); err == nil {
		l.forms = forms
	}
}

func (l *linter) checkEntries() {
	seen := make(map[gettext.MessageKey]int)
	for _, e := range l.file.Entries() {
		if e.Obsolete || e.IsHeader() {
			continue
		}
		if line, ok := seen[e.Key()]; ok {
			l.report(SeverityError, RuleDuplicate, e,
				fmt.Sprintf("duplicate message definition, first defined at line %d", line))
		} else {
			seen[e.Key()] = e.Line
		}
		l.checkPluralCount(e)
		l.checkFormat(e)
		l.checkNewlines(e)
	}
	l.checkCounts()
}

func (l *linter) checkPluralCount(e *po.Entry) {
	if !e.IsPlural() {
		if len(e.Str) > 1 {
			l.report(SeverityError, RulePluralCount, e,
				fmt.Sprintf("singular entry carries %d msgstr forms", len(e.Str)))
		}
		return
	}
	if !l.declared && !l.warnedNoForms {
		l.warnedNoForms = true
		l.report(SeverityWarning, RulePluralCount, e,
			"file has plural entries but no Plural-Forms header")
	}
	if !anyTranslated(e.Str) {
		return
	}
	if len(e.Str) != l.forms.NPlurals {
		l.report(SeverityError, RulePluralCount, e,
			fmt.Sprintf("plural entry has %d msgstr forms, Plural-Forms declares %d", len(e.Str), l.forms.NPlurals))
	}
}

func (l *linter) checkFormat(e *po.Entry) {
	severity := SeverityError
	if e.IsFuzzy() {
		severity = SeverityWarning
	}
	switch {
	case e.HasFlag("no-c-format") || e.HasFlag("no-python-format") || e.HasFlag("no-python-brace-format"):
		return
	case e.HasFlag("python-brace-format"):
		l.checkBraceFormat(e, severity)
	case e.HasFlag("python-format"):
		l.checkPrintfFormat(e, severity, true, false)
	case e.HasFlag("c-format"):
		l.checkPrintfFormat(e, severity, false, false)
	default:
		if hasPrintfDirectives(e.ID) || hasPrintfDirectives(e.IDPlural) {
			l.checkPrintfFormat(e, severity, false, true)
		}
	}
}

func (l *linter) checkPrintfFormat(e *po.Entry, severity Severity, python, strict bool) {
	idDirs := parsePrintf(e.ID, python, strict)
	if e.IsPlural() {
		// A singular msgid may legitimately drop the number ("One file"),
		// so a form matching either source string passes.
		pluralDirs := parsePrintf(e.IDPlural, python, strict)
		for i, s := range e.Str {
			if s == "" {
				continue
			}
			strDirs := parsePrintf(s, python, strict)
			if printfCompatible(pluralDirs, strDirs) || printfCompatible(idDirs, strDirs) {
				continue
			}
			l.report(severity, RuleFormat, e, fmt.Sprintf(
				"format directives of msgstr[%d] (%s) do not match msgid_plural (%s)",
				i, directivesString(strDirs), directivesString(pluralDirs)))
		}
		return
	}
	if len(e.Str) == 0 || e.Str[0] == "" {
		return
	}
	strDirs := parsePrintf(e.Str[0], python, strict)
	if !printfCompatible(idDirs, strDirs) {
		l.report(severity, RuleFormat, e, fmt.Sprintf(
			"format directives of msgstr (%s) do not match msgid (%s)",
			directivesString(strDirs), directivesString(idDirs)))
	}
}

func (l *linter) checkBraceFormat(e *po.Entry, severity Severity) {
	idFields := parseBrace(e.ID)
	if e.IsPlural() {
		idFields = parseBrace(e.IDPlural)
	}
	for i, s := range e.Str {
		if s == "" {
			continue
		}
		strFields := parseBrace(s)
		if braceCompatible(idFields, strFields) {
			continue
		}
		form := "msgstr"
		if e.IsPlural() {
			form = fmt.Sprintf("msgstr[%d]", i)
		}
		l.report(severity, RuleFormat, e, fmt.Sprintf(
			"placeholders of %s (%s) do not match msgid (%s)",
			form, braceString(strFields), braceString(idFields)))
	}
}

func (l *linter) checkNewlines(e *po.Entry) {
	severity := SeverityError
	if e.IsFuzzy() {
		severity = SeverityWarning
	}
	for i, s := range e.Str {
		if s == "" {
			continue
		}
		form := "msgstr"
		if e.IsPlural() {
			form = fmt.Sprintf("msgstr[%d]", i)
		}
		if strings.HasPrefix(e.ID, "\n") != strings.HasPrefix(s, "\n") {
			l.report(severity, RuleNewline, e,
				fmt.Sprintf("msgid and %s do not both begin with \\n", form))
		}
		if strings.HasSuffix(e.ID, "\n") != strings.HasSuffix(s, "\n") {
			l.report(severity, RuleNewline, e,
				fmt.Sprintf("msgid and %s do not both end with \\n", form))
		}
	}
}

func (l *linter) checkCounts() {
	if l.opts.source != "" && l.language != "" &&
		gettext.NormalizeLang(l.language) == gettext.NormalizeLang(l.opts.source) {
		return
	}
	stats := l.file.Stats()
	if stats.Untranslated > 0 {
		total := stats.Translated + stats.Fuzzy + stats.Untranslated
		l.report(SeverityWarning, RuleUntranslated, nil,
			fmt.Sprintf("%d of %d messages are untranslated", stats.Untranslated, total))
	}
	if stats.Fuzzy > 0 {
		l.report(SeverityWarning, RuleFuzzy, nil,
			fmt.Sprintf("%d fuzzy messages need review", stats.Fuzzy))
	}
}

func anyTranslated(strs []string) bool {
	for _, s := range strs {
		if s != "" {
			return true
		}
	}
	return false
}
