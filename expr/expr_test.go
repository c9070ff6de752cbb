package expr_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/calcwidget/expr"
)

var x = expr.Sym("x")

// ============================================================
// Rendering
// ============================================================

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node expr.Node
		want string
	}{
		{"constant", expr.Num(3), "3"},
		{"fraction", expr.Num(0.5), "0.5"},
		{"negative zero", expr.Num(math.Copysign(0, -1)), "0"},
		{"symbol", x, "x"},
		{"power over constant", expr.DivOf(expr.PowOf(x, expr.Num(3)), expr.Num(3)), "x ^ 3 / 3"},
		{"coefficient power", expr.DivOf(expr.MulOf(expr.Num(5), expr.PowOf(x, expr.Num(2))), expr.Num(2)), "5 * x ^ 2 / 2"},
		{"call", expr.MulOf(expr.Num(3), expr.Ln(x)), "3 * ln(x)"},
		{"sum in product", expr.MulOf(expr.AddOf(x, expr.Num(1)), x), "(x + 1) * x"},
		{"right sub", expr.SubOf(x, expr.SubOf(x, expr.Num(1))), "x - (x - 1)"},
		{"right assoc power", expr.PowOf(x, expr.PowOf(x, expr.Num(2))), "x ^ x ^ 2"},
		{"left power", expr.PowOf(expr.PowOf(x, expr.Num(2)), expr.Num(3)), "(x ^ 2) ^ 3"},
		{"negative base", expr.PowOf(expr.Num(-2), x), "(-2) ^ x"},
		{"negative exponent", expr.PowOf(x, expr.Num(-1)), "x ^ -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.String(tt.node))
		})
	}
}

func TestLaTeX(t *testing.T) {
	n := expr.DivOf(expr.MulOf(expr.Num(5), expr.PowOf(x, expr.Num(2))), expr.Num(2))
	assert.Equal(t, `\frac{5 \cdot x^{2}}{2}`, expr.LaTeX(n))
	assert.Equal(t, `\ln\left(x\right)`, expr.LaTeX(expr.Ln(x)))
	assert.Equal(t, `\sqrt{x}`, expr.LaTeX(expr.Func("sqrt", x)))
}

// ============================================================
// Structure
// ============================================================

func TestEqual(t *testing.T) {
	a := expr.MulOf(expr.Num(2), expr.PowOf(x, expr.Num(3)))
	b := expr.MulOf(expr.Num(2), expr.PowOf(expr.Sym("x"), expr.Num(3)))
	assert.True(t, expr.Equal(a, b))
	assert.False(t, expr.Equal(a, expr.MulOf(expr.PowOf(x, expr.Num(3)), expr.Num(2))))
	assert.False(t, expr.Equal(expr.Ln(x), expr.Func("sin", x)))
}

func TestConstructorsBuildNewTrees(t *testing.T) {
	base := expr.PowOf(x, expr.Num(2))
	wrapped := expr.MulOf(expr.Num(4), base)
	if diff := cmp.Diff(expr.PowOf(expr.Sym("x"), expr.Num(2)), base); diff != "" {
		t.Errorf("base changed after reuse (-want +got):\n%s", diff)
	}
	want := expr.BinaryOp{Op: expr.Mul, Left: expr.Constant{Value: 4}, Right: base}
	if diff := cmp.Diff(want, wrapped); diff != "" {
		t.Errorf("MulOf mismatch (-want +got):\n%s", diff)
	}
}

func TestSymbols(t *testing.T) {
	n := expr.AddOf(expr.MulOf(expr.Sym("y"), x), expr.Func("sin", expr.Sym("y")))
	assert.Equal(t, []string{"y", "x"}, expr.Symbols(n))
}

func TestValidate(t *testing.T) {
	require.NoError(t, expr.Validate(expr.DivOf(expr.PowOf(x, expr.Num(2)), expr.Num(2))))
	assert.Error(t, expr.Validate(expr.Num(math.NaN())))
	assert.Error(t, expr.Validate(expr.AddOf(x, expr.Num(math.Inf(1)))))
	assert.Error(t, expr.Validate(expr.Sym("")))
	assert.Error(t, expr.Validate(expr.Binary(expr.Op(42), x, x)))
	assert.Error(t, expr.Validate(nil))
}

// ============================================================
// JSON
// ============================================================

func TestJSONRoundTrip(t *testing.T) {
	n := expr.AddOf(expr.MulOf(expr.Num(-1.5), expr.Ln(x)), expr.PowOf(x, expr.Num(2)))
	raw, err := json.Marshal(expr.ToJSON(n))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	back, err := expr.FromJSON(decoded)
	require.NoError(t, err)
	if diff := cmp.Diff(n, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := expr.FromJSON(map[string]interface{}{"type": "binary", "op": "%"})
	assert.Error(t, err)
	_, err = expr.FromJSON(map[string]interface{}{"type": "wat"})
	assert.Error(t, err)
}
