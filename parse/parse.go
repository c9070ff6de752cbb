// Package parse turns algebraic text such as "3*x^2 + ln(x)" into an
// expr.Node.
//
// Grammar, loosest binding first:
//
//	expression := term (("+" | "-") term)*
//	term       := unary (("*" | "/") unary | implicit)*
//	unary      := "-" unary | "+" unary | power
//	power      := primary ("^" unary)?
//	primary    := number | ident | func "(" expression ")" | "(" expression ")"
//
// Juxtaposition ("3x", "2(x+1)") is multiplication. A negated literal folds
// into a negative Constant; any other negation becomes -1 * operand.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/njchilds90/calcwidget/expr"
)

// Error reports malformed input. Column is 1-based and counts characters.
type Error struct {
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s at position %d", e.Msg, e.Column)
	}
	return e.Msg
}

var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "ln": true, "log": true,
	"sqrt": true, "abs": true,
}

// IsFunction reports whether name followed by "(" parses as a call.
func IsFunction(name string) bool { return functions[name] }

// Parser adapts Parse to the parser capability interface.
type Parser struct{}

func (Parser) Parse(text string) (expr.Node, error) { return Parse(text) }

// Parse parses text into a tree.
func Parse(text string) (node expr.Node, err error) {
	p := &parser{}
	p.s.Init(strings.NewReader(text))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		panic(&Error{Column: s.Pos().Column, Msg: msg})
	}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			node, err = nil, pe
		}
	}()

	p.next()
	if p.tok == scanner.EOF {
		return nil, &Error{Msg: "empty expression"}
	}
	node = p.expression()
	if p.tok != scanner.EOF {
		p.fail("unexpected %q", p.s.TokenText())
	}
	return node, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(text string) expr.Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

// ============================================================
// Recursive descent
// ============================================================

type parser struct {
	s   scanner.Scanner
	tok rune
}

func (p *parser) next() { p.tok = p.s.Scan() }

func (p *parser) fail(format string, args ...interface{}) {
	col := p.s.Position.Column
	if p.tok == scanner.EOF || col == 0 {
		col = p.s.Pos().Column
	}
	panic(&Error{Column: col, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		if p.tok == scanner.EOF {
			p.fail("missing %q", string(tok))
		}
		p.fail("expected %q, found %q", string(tok), p.s.TokenText())
	}
	p.next()
}

func (p *parser) expression() expr.Node {
	e := p.term()
	for {
		switch p.tok {
		case '+':
			p.next()
			e = expr.AddOf(e, p.term())
		case '-':
			p.next()
			e = expr.SubOf(e, p.term())
		default:
			return e
		}
	}
}

func (p *parser) term() expr.Node {
	e := p.unary()
	for {
		switch p.tok {
		case '*':
			p.next()
			e = expr.MulOf(e, p.unary())
		case '/':
			p.next()
			e = expr.DivOf(e, p.unary())
		case scanner.Ident, '(':
			e = expr.MulOf(e, p.power())
		default:
			return e
		}
	}
}

func (p *parser) unary() expr.Node {
	switch p.tok {
	case '-':
		p.next()
		operand := p.unary()
		if c, ok := operand.(expr.Constant); ok {
			return expr.Num(-c.Value)
		}
		return expr.MulOf(expr.Num(-1), operand)
	case '+':
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() expr.Node {
	base := p.primary()
	if p.tok == '^' {
		p.next()
		return expr.PowOf(base, p.unary())
	}
	return base
}

func (p *parser) primary() expr.Node {
	switch p.tok {
	case scanner.Int, scanner.Float:
		text := p.s.TokenText()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(v, 0) {
			p.fail("number %s out of range", text)
		}
		p.next()
		return expr.Num(v)
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		if p.tok == '(' && IsFunction(name) {
			p.next()
			arg := p.expression()
			p.expect(')')
			return expr.Func(name, arg)
		}
		return expr.Sym(name)
	case '(':
		p.next()
		e := p.expression()
		p.expect(')')
		return e
	case scanner.EOF:
		p.fail("unexpected end of expression")
	case ')':
		p.fail("unbalanced %q", ")")
	}
	p.fail("unexpected %q", p.s.TokenText())
	return nil
}
