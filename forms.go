/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

import (
	"fmt"
	"strconv"
	"strings"
)

// PluralForms is a parsed plural-forms declaration of a catalog header,
// e.g. "nplurals=2; plural=(n != 1);".
type PluralForms struct {
	// NPlurals is the number of plural forms the language declares.
	NPlurals int

	// Formula selects the plural form index for a given count.
	Formula *Formula
}

// GermanicPluralForms is the fallback rule applied when a catalog declares
// no plural forms: two forms, the first one for exactly one item.
var GermanicPluralForms = PluralForms{
	NPlurals: 2,
	Formula: &Formula{root: &formulaNode{
		op:  opNE,
		lhs: &formulaNode{op: opVar},
		rhs: &formulaNode{op: opNum, num: 1},
	}},
}

// IsZero returns true if the declaration is empty (not parsed from anything).
func (f PluralForms) IsZero() bool {
	return f.NPlurals == 0 && f.Formula == nil
}

// Index returns the plural form index for n items.
// The result is always a valid index in [0, NPlurals), no matter how the
// declared formula behaves: evaluation failures fall back to the Germanic
// rule and out-of-range results are clamped.
func (f PluralForms) Index(n int) int {
	if f.NPlurals <= 0 {
		return 0
	}
	idx := -1
	if f.Formula != nil {
		if v, err := f.Formula.Eval(n); err == nil {
			idx = v
		}
	}
	if idx < 0 {
		if n != 1 {
			idx = 1
		} else {
			idx = 0
		}
	}
	if idx >= f.NPlurals {
		idx = f.NPlurals - 1
	}
	return idx
}

// String returns the canonical header form of the declaration.
func (f PluralForms) String() string {
	var b strings.Builder
	b.WriteString("nplurals=")
	b.WriteString(strconv.Itoa(f.NPlurals))
	b.WriteString("; plural=")
	if f.Formula != nil {
		f.Formula.writeToBuilder(&b)
	} else {
		b.WriteByte('0')
	}
	b.WriteByte(';')
	return b.String()
}

// Formula is a compiled plural-selection expression over the variable n.
// The expression language is the C subset GNU gettext defines for the
// "plural=" part of a plural-forms declaration: the conditional operator,
// boolean and/or, comparisons, remainder and the other arithmetic
// operators, logical not, parentheses, decimal literals and n.
type Formula struct {
	root *formulaNode
}

type formulaOp uint8

const (
	opNum formulaOp = iota // integer literal
	opVar                  // the variable n
	opNot
	opMul
	opDiv
	opMod
	opAdd
	opSub
	opLT
	opLE
	opGT
	opGE
	opEQ
	opNE
	opAnd
	opOr
	opCond // cond ? lhs : rhs
)

// formulaNode is one node of the compiled expression tree.
// Binary operators use lhs and rhs, opNot uses lhs only,
// opCond uses all three links.
type formulaNode struct {
	op   formulaOp
	num  int64
	cond *formulaNode
	lhs  *formulaNode
	rhs  *formulaNode
}

// Eval evaluates the formula for n items and returns the selected form index.
// Division or remainder by zero is reported as an error.
func (f *Formula) Eval(n int) (int, error) {
	v, err := f.root.eval(int64(n))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

//nolint:gocyclo // func implements an alg with well-defined concrete purpose, so high cyclomatic complexity is ok here
func (fn *formulaNode) eval(n int64) (int64, error) {
	switch fn.op {
	case opNum:
		return fn.num, nil
	case opVar:
		return n, nil
	case opNot:
		v, err := fn.lhs.eval(n)
		if err != nil {
			return 0, err
		}
		return boolToInt(v == 0), nil
	case opAnd:
		v, err := fn.lhs.eval(n)
		if err != nil {
			return 0, err
		}
		if v == 0 {
			return 0, nil
		}
		v, err = fn.rhs.eval(n)
		if err != nil {
			return 0, err
		}
		return boolToInt(v != 0), nil
	case opOr:
		v, err := fn.lhs.eval(n)
		if err != nil {
			return 0, err
		}
		if v != 0 {
			return 1, nil
		}
		v, err = fn.rhs.eval(n)
		if err != nil {
			return 0, err
		}
		return boolToInt(v != 0), nil
	case opCond:
		c, err := fn.cond.eval(n)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return fn.lhs.eval(n)
		}
		return fn.rhs.eval(n)
	}

	lhs, err := fn.lhs.eval(n)
	if err != nil {
		return 0, err
	}
	rhs, err := fn.rhs.eval(n)
	if err != nil {
		return 0, err
	}

	switch fn.op {
	case opMul:
		return lhs * rhs, nil
	case opDiv:
		if rhs == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return lhs / rhs, nil
	case opMod:
		if rhs == 0 {
			return 0, fmt.Errorf("remainder by zero")
		}
		return lhs % rhs, nil
	case opAdd:
		return lhs + rhs, nil
	case opSub:
		return lhs - rhs, nil
	case opLT:
		return boolToInt(lhs < rhs), nil
	case opLE:
		return boolToInt(lhs <= rhs), nil
	case opGT:
		return boolToInt(lhs > rhs), nil
	case opGE:
		return boolToInt(lhs >= rhs), nil
	case opEQ:
		return boolToInt(lhs == rhs), nil
	case opNE:
		return boolToInt(lhs != rhs), nil
	}
	return 0, fmt.Errorf("unknown operator %d", fn.op)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// String returns the canonical form of the expression.
// Parentheses appear only where precedence requires them, so parsing the
// result yields the same tree back.
func (f *Formula) String() string {
	var b strings.Builder
	f.writeToBuilder(&b)
	return b.String()
}

func (f *Formula) writeToBuilder(b *strings.Builder) {
	f.root.writeToBuilder(b, 0)
}

// precedence levels, higher binds tighter
const (
	precCond = iota + 1
	precOr
	precAnd
	precEq
	precRel
	precAdd
	precMul
	precUnary
	precPrimary
)

func (fn *formulaNode) precedence() int {
	switch fn.op {
	case opNum, opVar:
		return precPrimary
	case opNot:
		return precUnary
	case opMul, opDiv, opMod:
		return precMul
	case opAdd, opSub:
		return precAdd
	case opLT, opLE, opGT, opGE:
		return precRel
	case opEQ, opNE:
		return precEq
	case opAnd:
		return precAnd
	case opOr:
		return precOr
	default: // opCond
		return precCond
	}
}

func (fn *formulaNode) token() string {
	switch fn.op {
	case opNot:
		return "!"
	case opMul:
		return "*"
	case opDiv:
		return "/"
	case opMod:
		return "%"
	case opAdd:
		return "+"
	case opSub:
		return "-"
	case opLT:
		return "<"
	case opLE:
		return "<="
	case opGT:
		return ">"
	case opGE:
		return ">="
	case opEQ:
		return "=="
	case opNE:
		return "!="
	case opAnd:
		return "&&"
	case opOr:
		return "||"
	}
	return ""
}

func (fn *formulaNode) writeToBuilder(b *strings.Builder, parentPrec int) {
	prec := fn.precedence()
	parenthesized := prec < parentPrec
	if parenthesized {
		b.WriteByte('(')
	}

	switch fn.op {
	case opNum:
		b.WriteString(strconv.FormatInt(fn.num, 10))
	case opVar:
		b.WriteByte('n')
	case opNot:
		b.WriteByte('!')
		fn.lhs.writeToBuilder(b, precUnary)
	case opCond:
		// The branches of a conditional never need parentheses: everything
		// between "?" and ":" is self-delimiting, and the tail binds right.
		fn.cond.writeToBuilder(b, precOr)
		b.WriteString(" ? ")
		fn.lhs.writeToBuilder(b, 0)
		b.WriteString(" : ")
		fn.rhs.writeToBuilder(b, precCond)
	default:
		// Left-associative binary operators: the right operand needs one
		// extra level so "a - (b - c)" keeps its parentheses. Spacing
		// follows the GNU plural table convention: "&&" and "||" are
		// spaced, arithmetic and comparisons are written tight.
		spaced := fn.op == opAnd || fn.op == opOr
		fn.lhs.writeToBuilder(b, prec)
		if spaced {
			b.WriteByte(' ')
		}
		b.WriteString(fn.token())
		if spaced {
			b.WriteByte(' ')
		}
		fn.rhs.writeToBuilder(b, prec+1)
	}

	if parenthesized {
		b.WriteByte(')')
	}
}
