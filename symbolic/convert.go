package symbolic

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/njchilds90/calcwidget/expr"
)

// functionNames maps accepted call names to kernel names. sqrt is handled
// as a power.
var functionNames = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"asin": "asin", "acos": "acos", "atan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"exp": "exp", "ln": "ln", "log": "ln", "abs": "abs",
}

// ============================================================
// expr.Node -> term
// ============================================================

func fromTree(n expr.Node) (term, error) {
	switch v := n.(type) {
	case expr.Constant:
		return fromFloat(v.Value)
	case expr.Symbol:
		return &symbol{name: v.Name}, nil
	case expr.Call:
		arg, err := fromTree(v.Arg)
		if err != nil {
			return nil, err
		}
		if v.Name == "sqrt" {
			return sqrt(arg), nil
		}
		name, ok := functionNames[v.Name]
		if !ok {
			return nil, unknownFunctionError(v.Name)
		}
		return apply(name, arg), nil
	case expr.BinaryOp:
		return fromBinary(v)
	}
	return nil, fmt.Errorf("unsupported node %T", n)
}

func fromBinary(b expr.BinaryOp) (term, error) {
	l, err := fromTree(b.Left)
	if err != nil {
		return nil, err
	}
	r, err := fromTree(b.Right)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case expr.Add:
		return add(l, r), nil
	case expr.Sub:
		return add(l, mul(integer(-1), r)), nil
	case expr.Mul:
		return mul(l, r), nil
	case expr.Div:
		if isRat(r, 0) {
			return nil, errDivisionByZero
		}
		return mul(l, pow(r, integer(-1))), nil
	case expr.Pow:
		return pow(l, r), nil
	}
	return nil, fmt.Errorf("unknown operator %v", b.Op)
}

// fromFloat goes through the shortest decimal text so that 0.1 becomes
// 1/10 rather than the nearest binary fraction.
func fromFloat(v float64) (*rat, error) {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return nil, fmt.Errorf("invalid number %v", v)
	}
	return &rat{r: r}, nil
}

// ============================================================
// term -> expr.Node
// ============================================================

// toTree renders a term as a tree. Rational coefficients and negative
// powers become one trailing division, so 1/3*x^3 renders as "x ^ 3 / 3"
// and 2*x^-1 as "2 / x". Negative terms of a sum become subtractions.
func toTree(t term) expr.Node {
	switch v := t.(type) {
	case *rat:
		return ratTree(v)
	case *symbol:
		return expr.Sym(v.name)
	case *call:
		return expr.Func(v.name, toTree(v.arg))
	case *power:
		return productTree(integer(1), []term{v})
	case *product:
		c, rest := coefficient(v)
		if p, ok := rest.(*product); ok {
			return productTree(c, p.factors)
		}
		return productTree(c, []term{rest})
	case *sum:
		return sumTree(v)
	}
	panic(fmt.Sprintf("symbolic: unknown term %T", t))
}

func sumTree(s *sum) expr.Node {
	out := toTree(s.terms[0])
	for _, t := range s.terms[1:] {
		if neg, ok := negated(t); ok {
			out = expr.SubOf(out, toTree(neg))
		} else {
			out = expr.AddOf(out, toTree(t))
		}
	}
	return out
}

// negated returns -t when t carries a negative coefficient.
func negated(t term) (term, bool) {
	if n, ok := t.(*rat); ok {
		if n.negative() {
			return n.neg(), true
		}
		return nil, false
	}
	if c, _ := coefficient(t); c.negative() {
		return mul(integer(-1), t), true
	}
	return nil, false
}

func ratTree(n *rat) expr.Node {
	if n.whole() {
		return expr.Num(bigFloat(n.r.Num()))
	}
	return expr.DivOf(expr.Num(bigFloat(n.r.Num())), expr.Num(bigFloat(n.r.Denom())))
}

func bigFloat(i *big.Int) float64 {
	f, _ := new(big.Float).SetInt(i).Float64()
	return f
}

func productTree(c *rat, factors []term) expr.Node {
	var numer, denom []expr.Node
	if p := c.r.Num(); p.CmpAbs(big.NewInt(1)) != 0 || len(factors) == 0 {
		numer = append(numer, expr.Num(bigFloat(p)))
	} else if p.Sign() < 0 {
		numer = append(numer, expr.Num(-1))
	}
	if q := c.r.Denom(); q.Cmp(big.NewInt(1)) != 0 {
		denom = append(denom, expr.Num(bigFloat(q)))
	}
	for _, f := range factors {
		pw, ok := f.(*power)
		if !ok {
			numer = append(numer, toTree(f))
			continue
		}
		if n, ok := pw.exp.(*rat); ok && n.negative() {
			denom = append(denom, powTree(pw.base, n.neg()))
		} else {
			numer = append(numer, powTree(pw.base, pw.exp))
		}
	}

	top := chain(numer)
	if top == nil {
		top = expr.Num(1)
	}
	if bottom := chain(denom); bottom != nil {
		return expr.DivOf(top, bottom)
	}
	return top
}

func powTree(base, exp term) expr.Node {
	if isRat(exp, 1) {
		return toTree(base)
	}
	if n, ok := exp.(*rat); ok && n.r.Cmp(big.NewRat(1, 2)) == 0 {
		return expr.Func("sqrt", toTree(base))
	}
	return expr.PowOf(toTree(base), toTree(exp))
}

func chain(factors []expr.Node) expr.Node {
	if len(factors) == 0 {
		return nil
	}
	out := factors[0]
	for _, f := range factors[1:] {
		out = expr.MulOf(out, f)
	}
	return out
}
