package integrate

import (
	"fmt"

	"github.com/njchilds90/calcwidget/expr"
)

// ============================================================
// Shape helpers
// ============================================================

func isVariable(n expr.Node, variable string) bool {
	s, ok := n.(expr.Symbol)
	return ok && s.Name == variable
}

func constantValue(n expr.Node) (float64, bool) {
	c, ok := n.(expr.Constant)
	return c.Value, ok
}

// exponentOf matches variable^n with a constant n.
func exponentOf(n expr.Node, variable string) (float64, bool) {
	b, ok := n.(expr.BinaryOp)
	if !ok || b.Op != expr.Pow || !isVariable(b.Left, variable) {
		return 0, false
	}
	return constantValue(b.Right)
}

// coefficientPower matches c * variable^n.
func coefficientPower(n expr.Node, variable string) (c, exp float64, ok bool) {
	b, isBinary := n.(expr.BinaryOp)
	if !isBinary || b.Op != expr.Mul {
		return 0, 0, false
	}
	if c, ok = constantValue(b.Left); !ok {
		return 0, 0, false
	}
	exp, ok = exponentOf(b.Right, variable)
	return c, exp, ok
}

// coefficientSymbol matches c * variable and variable * c.
func coefficientSymbol(n expr.Node, variable string) (float64, bool) {
	b, ok := n.(expr.BinaryOp)
	if !ok || b.Op != expr.Mul {
		return 0, false
	}
	if c, ok := constantValue(b.Left); ok && isVariable(b.Right, variable) {
		return c, true
	}
	if c, ok := constantValue(b.Right); ok && isVariable(b.Left, variable) {
		return c, true
	}
	return 0, false
}

func shapeMismatch(rule string, body expr.Node) string {
	return fmt.Sprintf("integrate: %s rule applied to %s", rule, expr.String(body))
}

// ============================================================
// Rule 1: x^n
// ============================================================

func isPower(body expr.Node, variable string) bool {
	switch body.(type) {
	case expr.BinaryOp:
		_, ok := exponentOf(body, variable)
		return ok
	case expr.Constant, expr.Symbol, expr.Call:
		return false
	}
	return false
}

func integratePower(body expr.Node, variable string) expr.Node {
	n, ok := exponentOf(body, variable)
	if !ok {
		panic(shapeMismatch("power", body))
	}
	x := expr.Sym(variable)
	if n == -1 {
		return expr.Ln(x)
	}
	return expr.DivOf(expr.PowOf(x, expr.Num(n+1)), expr.Num(n+1))
}

// ============================================================
// Rule 2: c * x^n
// ============================================================

func isCoefficientPower(body expr.Node, variable string) bool {
	switch body.(type) {
	case expr.BinaryOp:
		_, _, ok := coefficientPower(body, variable)
		return ok
	case expr.Constant, expr.Symbol, expr.Call:
		return false
	}
	return false
}

func integrateCoefficientPower(body expr.Node, variable string) expr.Node {
	c, n, ok := coefficientPower(body, variable)
	if !ok {
		panic(shapeMismatch("coefficient-power", body))
	}
	if c == 0 {
		return expr.Num(0)
	}
	x := expr.Sym(variable)
	if n == -1 {
		return expr.MulOf(expr.Num(c), expr.Ln(x))
	}
	return expr.DivOf(expr.MulOf(expr.Num(c), expr.PowOf(x, expr.Num(n+1))), expr.Num(n+1))
}

// ============================================================
// Rule 3: x
// ============================================================

func isSymbol(body expr.Node, variable string) bool {
	switch body.(type) {
	case expr.Symbol:
		return isVariable(body, variable)
	case expr.Constant, expr.BinaryOp, expr.Call:
		return false
	}
	return false
}

func integrateSymbol(body expr.Node, variable string) expr.Node {
	if !isVariable(body, variable) {
		panic(shapeMismatch("symbol", body))
	}
	return expr.DivOf(expr.PowOf(expr.Sym(variable), expr.Num(2)), expr.Num(2))
}

// ============================================================
// Rule 4: c * x, x * c
// ============================================================

func isCoefficientSymbol(body expr.Node, variable string) bool {
	switch body.(type) {
	case expr.BinaryOp:
		_, ok := coefficientSymbol(body, variable)
		return ok
	case expr.Constant, expr.Symbol, expr.Call:
		return false
	}
	return false
}

func integrateCoefficientSymbol(body expr.Node, variable string) expr.Node {
	c, ok := coefficientSymbol(body, variable)
	if !ok {
		panic(shapeMismatch("coefficient-symbol", body))
	}
	if c == 0 {
		return expr.Num(0)
	}
	return expr.DivOf(expr.MulOf(expr.Num(c), expr.PowOf(expr.Sym(variable), expr.Num(2))), expr.Num(2))
}
