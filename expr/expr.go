// Package expr defines the immutable expression tree shared by the parser,
// the integration rules and the symbolic kernel.
//
// A Node is one of Constant, Symbol, BinaryOp or Call. The set is closed:
// only this package can add variants, and every consumer type switches over
// exactly these four.
package expr

import (
	"fmt"
	"math"
)

// ============================================================
// Core Interface
// ============================================================

type Node interface {
	node()
}

// Op is the operator of a BinaryOp.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Pow
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ============================================================
// Variants
// ============================================================

type Constant struct{ Value float64 }

type Symbol struct{ Name string }

type BinaryOp struct {
	Op          Op
	Left, Right Node
}

// Call is a single-argument function application such as ln(x).
type Call struct {
	Name string
	Arg  Node
}

func (Constant) node() {}
func (Symbol) node()   {}
func (BinaryOp) node() {}
func (Call) node()     {}

// ============================================================
// Constructors
// ============================================================

func Num(v float64) Node              { return Constant{Value: v} }
func Sym(name string) Node            { return Symbol{Name: name} }
func Binary(op Op, l, r Node) Node    { return BinaryOp{Op: op, Left: l, Right: r} }
func Func(name string, arg Node) Node { return Call{Name: name, Arg: arg} }
func AddOf(l, r Node) Node            { return Binary(Add, l, r) }
func SubOf(l, r Node) Node            { return Binary(Sub, l, r) }
func MulOf(l, r Node) Node            { return Binary(Mul, l, r) }
func DivOf(l, r Node) Node            { return Binary(Div, l, r) }
func PowOf(base, exponent Node) Node  { return Binary(Pow, base, exponent) }
func Ln(arg Node) Node                { return Func("ln", arg) }

// ============================================================
// Queries
// ============================================================

// Equal reports whether a and b have the same shape and leaves.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Constant:
		y, ok := b.(Constant)
		return ok && x.Value == y.Value
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Name == y.Name
	case BinaryOp:
		y, ok := b.(BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Call:
		y, ok := b.(Call)
		return ok && x.Name == y.Name && Equal(x.Arg, y.Arg)
	case nil:
		return b == nil
	}
	panic(fmt.Sprintf("expr: unknown node %T", a))
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case BinaryOp:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	case Call:
		Walk(v.Arg, fn)
	}
}

// Symbols returns the distinct symbol names in n in first-seen order.
func Symbols(n Node) []string {
	seen := map[string]bool{}
	var out []string
	Walk(n, func(c Node) bool {
		if s, ok := c.(Symbol); ok && !seen[s.Name] {
			seen[s.Name] = true
			out = append(out, s.Name)
		}
		return true
	})
	return out
}

// Validate checks the tree invariants: constants are finite, names are
// non-empty and operators are known.
func Validate(n Node) error {
	switch v := n.(type) {
	case nil:
		return fmt.Errorf("expr: nil node")
	case Constant:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return fmt.Errorf("expr: non-finite constant %v", v.Value)
		}
	case Symbol:
		if v.Name == "" {
			return fmt.Errorf("expr: empty symbol name")
		}
	case BinaryOp:
		if v.Op < Add || v.Op > Pow {
			return fmt.Errorf("expr: unknown operator %v", v.Op)
		}
		if err := Validate(v.Left); err != nil {
			return err
		}
		return Validate(v.Right)
	case Call:
		if v.Name == "" {
			return fmt.Errorf("expr: empty function name")
		}
		return Validate(v.Arg)
	default:
		return fmt.Errorf("expr: unknown node %T", n)
	}
	return nil
}
