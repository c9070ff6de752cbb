package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// Canonical text
// ============================================================

type precedence int

const (
	addPrecedence precedence = iota
	mulPrecedence
	powPrecedence
	atomicPrecedence
)

func opPrecedence(o Op) precedence {
	switch o {
	case Add, Sub:
		return addPrecedence
	case Mul, Div:
		return mulPrecedence
	}
	return powPrecedence
}

func nodePrecedence(n Node) precedence {
	if b, ok := n.(BinaryOp); ok {
		return opPrecedence(b.Op)
	}
	return atomicPrecedence
}

func isNegativeConstant(n Node) bool {
	c, ok := n.(Constant)
	return ok && c.Value < 0
}

// FormatNumber renders a constant the way String does.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders n as canonical text: binary operators surrounded by single
// spaces and parentheses only where the tree shape needs them, so parsing
// the output yields the same tree.
func String(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

func write(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case Constant:
		sb.WriteString(FormatNumber(v.Value))
	case Symbol:
		sb.WriteString(v.Name)
	case Call:
		sb.WriteString(v.Name)
		sb.WriteByte('(')
		write(sb, v.Arg)
		sb.WriteByte(')')
	case BinaryOp:
		p := opPrecedence(v.Op)
		lp := nodePrecedence(v.Left)
		rp := nodePrecedence(v.Right)
		wrapLeft := lp < p || (v.Op == Pow && (lp == p || isNegativeConstant(v.Left)))
		wrapRight := rp < p || (rp == p && v.Op != Pow)
		writeOperand(sb, v.Left, wrapLeft)
		sb.WriteByte(' ')
		sb.WriteString(v.Op.String())
		sb.WriteByte(' ')
		writeOperand(sb, v.Right, wrapRight)
	case nil:
		sb.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("expr: unknown node %T", n))
	}
}

func writeOperand(sb *strings.Builder, n Node, wrap bool) {
	if wrap {
		sb.WriteByte('(')
	}
	write(sb, n)
	if wrap {
		sb.WriteByte(')')
	}
}

// ============================================================
// LaTeX
// ============================================================

var latexFuncs = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`,
	"exp": `\exp`, "ln": `\ln`, "log": `\log`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`,
	"asin": `\arcsin`, "acos": `\arccos`, "atan": `\arctan`,
}

// LaTeX renders n for display in a math typesetter.
func LaTeX(n Node) string {
	switch v := n.(type) {
	case Constant:
		return FormatNumber(v.Value)
	case Symbol:
		return v.Name
	case Call:
		switch v.Name {
		case "sqrt":
			return `\sqrt{` + LaTeX(v.Arg) + `}`
		case "abs":
			return `\left|` + LaTeX(v.Arg) + `\right|`
		}
		name, ok := latexFuncs[v.Name]
		if !ok {
			name = `\operatorname{` + v.Name + `}`
		}
		return name + `\left(` + LaTeX(v.Arg) + `\right)`
	case BinaryOp:
		switch v.Op {
		case Div:
			return `\frac{` + LaTeX(v.Left) + `}{` + LaTeX(v.Right) + `}`
		case Pow:
			base := LaTeX(v.Left)
			if nodePrecedence(v.Left) < atomicPrecedence || isNegativeConstant(v.Left) {
				base = `\left(` + base + `\right)`
			}
			return base + `^{` + LaTeX(v.Right) + `}`
		}
		p := opPrecedence(v.Op)
		l, r := LaTeX(v.Left), LaTeX(v.Right)
		if nodePrecedence(v.Left) < p {
			l = `\left(` + l + `\right)`
		}
		if rp := nodePrecedence(v.Right); rp < p || (rp == p && v.Op == Sub) {
			r = `\left(` + r + `\right)`
		}
		if v.Op == Mul {
			return l + ` \cdot ` + r
		}
		return l + " " + v.Op.String() + " " + r
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}
