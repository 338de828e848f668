/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseError wraps any parsing error.
type ParseError struct {
	Err      error
	RawForms string
}

// Error implements "error" interface.
func (e *ParseError) Error() string {
	return e.Err.Error()
}

// Unwrap implements Wrapper interface.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrNotPluralForms is returned when an input is not a plural-forms declaration.
var ErrNotPluralForms = errors.New("not a plural-forms declaration")

const defaultMaxDepth = 100

// Parser is an object for parsing plural-forms declarations and formulas.
type Parser struct {
	maxDepth int
}

// NewParser creates new Parser.
// Available options:
// - WithMaxDepth(n int) - limits the nesting depth of parsed formulas.
func NewParser(opts ...ParserOption) *Parser {
	pOpts := makeParserOptions(opts...)
	maxDepth := pOpts.maxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Parser{maxDepth: maxDepth}
}

// ParsePluralForms parses input string as a plural-forms declaration,
// e.g. "nplurals=2; plural=(n != 1);".
func ParsePluralForms(input string, opts ...ParserOption) (PluralForms, error) {
	return NewParser(opts...).ParsePluralForms(input)
}

// MustParsePluralForms parses input string as a plural-forms declaration and panics on error.
// See ParsePluralForms for more details.
func MustParsePluralForms(input string, opts ...ParserOption) PluralForms {
	return NewParser(opts...).MustParsePluralForms(input)
}

// ParseFormula parses input string as a bare plural-selection formula
// without the "nplurals=N; plural=" framing, e.g. "n != 1".
func ParseFormula(input string, opts ...ParserOption) (*Formula, error) {
	return NewParser(opts...).ParseFormula(input)
}

// ParsePluralForms parses input string as a plural-forms declaration.
func (p *Parser) ParsePluralForms(input string) (PluralForms, error) {
	forms, err := p.parseForms(input)
	if err != nil {
		return PluralForms{}, &ParseError{Err: err, RawForms: input}
	}
	return forms, nil
}

// MustParsePluralForms parses input string as a plural-forms declaration and panics on error.
func (p *Parser) MustParsePluralForms(input string) PluralForms {
	forms, err := p.ParsePluralForms(input)
	if err != nil {
		panic(err)
	}
	return forms
}

// ParseFormula parses input string as a bare plural-selection formula.
func (p *Parser) ParseFormula(input string) (*Formula, error) {
	node, s, err := p.parseCond(skipSpaces(input), 0)
	if err != nil {
		return nil, &ParseError{Err: err, RawForms: input}
	}
	if s = skipSpaces(s); s != "" {
		return nil, &ParseError{Err: fmt.Errorf("unexpected %q after formula", s), RawForms: input}
	}
	return &Formula{root: node}, nil
}

func (p *Parser) parseForms(input string) (PluralForms, error) {
	s := skipSpaces(input)

	var ok bool
	if s, ok = cutKeyword(s, "nplurals"); !ok {
		return PluralForms{}, ErrNotPluralForms
	}
	s, err := expectByte(skipSpaces(s), '=')
	if err != nil {
		return PluralForms{}, fmt.Errorf("parse nplurals: %w", err)
	}

	var nplurals int64
	if nplurals, s, err = parseInt(skipSpaces(s)); err != nil {
		return PluralForms{}, fmt.Errorf("parse nplurals: %w", err)
	}
	if nplurals < 1 {
		return PluralForms{}, fmt.Errorf("nplurals must be >= 1, got %d", nplurals)
	}

	if s, err = expectByte(skipSpaces(s), ';'); err != nil {
		return PluralForms{}, err
	}

	if s, ok = cutKeyword(skipSpaces(s), "plural"); !ok {
		return PluralForms{}, fmt.Errorf(`expect "plural" keyword`)
	}
	if s, err = expectByte(skipSpaces(s), '='); err != nil {
		return PluralForms{}, fmt.Errorf("parse plural: %w", err)
	}

	var root *formulaNode
	if root, s, err = p.parseCond(skipSpaces(s), 0); err != nil {
		return PluralForms{}, fmt.Errorf("parse plural: %w", err)
	}

	s = skipSpaces(s)
	if s != "" && s[0] == ';' {
		s = skipSpaces(s[1:])
	}
	if s != "" {
		return PluralForms{}, fmt.Errorf("unexpected %q after declaration", s)
	}

	return PluralForms{NPlurals: int(nplurals), Formula: &Formula{root: root}}, nil
}

// parseCond handles the conditional operator, the lowest-precedence
// production. The operator is right-associative: everything after ":"
// belongs to the rightmost conditional.
func (p *Parser) parseCond(s string, depth int) (node *formulaNode, tail string, err error) {
	if depth > p.maxDepth {
		return nil, s, fmt.Errorf("formula is nested deeper than %d levels", p.maxDepth)
	}

	cond, s, err := p.parseOr(s, depth)
	if err != nil {
		return nil, s, err
	}

	s = skipSpaces(s)
	if s == "" || s[0] != '?' {
		return cond, s, nil
	}

	thenNode, s, err := p.parseCond(skipSpaces(s[1:]), depth+1)
	if err != nil {
		return nil, s, err
	}
	if s, err = expectByte(skipSpaces(s), ':'); err != nil {
		return nil, s, err
	}
	elseNode, s, err := p.parseCond(skipSpaces(s), depth+1)
	if err != nil {
		return nil, s, err
	}

	return &formulaNode{op: opCond, cond: cond, lhs: thenNode, rhs: elseNode}, s, nil
}

func (p *Parser) parseOr(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseAnd(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		if !strings.HasPrefix(ss, "||") {
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseAnd(skipSpaces(ss[2:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: opOr, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseAnd(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseEquality(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		if !strings.HasPrefix(ss, "&&") {
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseEquality(skipSpaces(ss[2:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: opAnd, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseEquality(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseRelational(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		var op formulaOp
		switch {
		case strings.HasPrefix(ss, "=="):
			op = opEQ
		case strings.HasPrefix(ss, "!="):
			op = opNE
		default:
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseRelational(skipSpaces(ss[2:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseRelational(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseAdditive(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		var op formulaOp
		var opLen int
		switch {
		case strings.HasPrefix(ss, "<="):
			op, opLen = opLE, 2
		case strings.HasPrefix(ss, ">="):
			op, opLen = opGE, 2
		case ss != "" && ss[0] == '<':
			op, opLen = opLT, 1
		case ss != "" && ss[0] == '>':
			op, opLen = opGT, 1
		default:
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseAdditive(skipSpaces(ss[opLen:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseAdditive(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseMultiplicative(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		var op formulaOp
		switch {
		case ss != "" && ss[0] == '+':
			op = opAdd
		case ss != "" && ss[0] == '-':
			op = opSub
		default:
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseMultiplicative(skipSpaces(ss[1:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseMultiplicative(s string, depth int) (node *formulaNode, tail string, err error) {
	node, s, err = p.parseUnary(s, depth)
	if err != nil {
		return nil, s, err
	}
	for {
		ss := skipSpaces(s)
		var op formulaOp
		switch {
		case ss != "" && ss[0] == '*':
			op = opMul
		case ss != "" && ss[0] == '/':
			op = opDiv
		case ss != "" && ss[0] == '%':
			op = opMod
		default:
			return node, s, nil
		}
		var rhs *formulaNode
		if rhs, s, err = p.parseUnary(skipSpaces(ss[1:]), depth); err != nil {
			return nil, s, err
		}
		node = &formulaNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *Parser) parseUnary(s string, depth int) (node *formulaNode, tail string, err error) {
	if depth > p.maxDepth {
		return nil, s, fmt.Errorf("formula is nested deeper than %d levels", p.maxDepth)
	}
	// "!=" is an equality token, a lone "!" is negation.
	if s != "" && s[0] == '!' && !strings.HasPrefix(s, "!=") {
		var operand *formulaNode
		if operand, s, err = p.parseUnary(skipSpaces(s[1:]), depth+1); err != nil {
			return nil, s, err
		}
		return &formulaNode{op: opNot, lhs: operand}, s, nil
	}
	return p.parsePrimary(s, depth)
}

func (p *Parser) parsePrimary(s string, depth int) (node *formulaNode, tail string, err error) {
	if s == "" {
		return nil, s, fmt.Errorf("unexpected end of string")
	}

	switch {
	case s[0] == '(':
		if node, s, err = p.parseCond(skipSpaces(s[1:]), depth+1); err != nil {
			return nil, s, err
		}
		if s, err = expectByte(skipSpaces(s), ')'); err != nil {
			return nil, s, err
		}
		return node, s, nil

	case s[0] == 'n':
		// The variable must not run into an identifier, "nplurals" is not "n".
		if len(s) > 1 && isWordByte(s[1]) {
			return nil, s, fmt.Errorf("unexpected identifier %q", s[:wordLen(s)])
		}
		return &formulaNode{op: opVar}, s[1:], nil

	case checkByteIsDigit(s[0]):
		var num int64
		if num, s, err = parseInt(s); err != nil {
			return nil, s, err
		}
		return &formulaNode{op: opNum, num: num}, s, nil
	}

	return nil, s, fmt.Errorf(`expect "n", a number or "(", got "%c"`, s[0])
}

func parseInt(s string) (num int64, tail string, err error) {
	i := 0
	for i < len(s) && checkByteIsDigit(s[i]) {
		i++
	}
	if i == 0 {
		if s == "" {
			return 0, s, fmt.Errorf("expect a number, got end of string")
		}
		return 0, s, fmt.Errorf(`expect a number, got "%c"`, s[0])
	}
	num, err = strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, s, fmt.Errorf("parse number: %w", err)
	}
	return num, s[i:], nil
}

func expectByte(s string, b byte) (tail string, err error) {
	if s == "" {
		return s, fmt.Errorf(`expect "%c", got end of string`, b)
	}
	if s[0] != b {
		return s, fmt.Errorf(`expect "%c", got "%c"`, b, s[0])
	}
	return s[1:], nil
}

// cutKeyword cuts kw off the front of s. The keyword must not run into a
// longer identifier.
func cutKeyword(s, kw string) (tail string, ok bool) {
	if !strings.HasPrefix(s, kw) {
		return s, false
	}
	tail = s[len(kw):]
	if tail != "" && isWordByte(tail[0]) {
		return s, false
	}
	return tail, true
}

// skipSpaces also swallows escaped line breaks so declarations copied out
// of wrapped header strings parse as-is.
func skipSpaces(s string) string {
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		case '\\':
			if i+1 < len(s) && (s[i+1] == '\n' || s[i+1] == '\r') {
				i += 2
				continue
			}
			return s[i:]
		default:
			return s[i:]
		}
	}
	return s[i:]
}

func isWordByte(b byte) bool {
	return b == '_' || checkByteIsDigit(b) ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func wordLen(s string) int {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	return i
}

func checkByteIsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
