package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/calcwidget/expr"
)

var x = &symbol{name: "x"}

func render(t term) string { return expr.String(toTree(t)) }

// ============================================================
// Rationals
// ============================================================

func TestRat_Reduces(t *testing.T) {
	if s := key(frac(2, 6)); s != "1/3" {
		t.Errorf("want 1/3, got %s", s)
	}
}

func TestRat_Pow(t *testing.T) {
	if s := key(integer(2).pow(10)); s != "1024" {
		t.Errorf("want 1024, got %s", s)
	}
	if s := key(frac(2, 3).pow(-2)); s != "9/4" {
		t.Errorf("want 9/4, got %s", s)
	}
}

func TestRat_DivisionByZero(t *testing.T) {
	assert.PanicsWithValue(t, errDivisionByZero, func() { frac(1, 0) })
	assert.PanicsWithValue(t, errDivisionByZero, func() { integer(0).inv() })
}

// ============================================================
// Sums and products
// ============================================================

func TestSum_LikeTerms(t *testing.T) {
	tests := []struct {
		name string
		e    term
		want string
	}{
		{"doubled", add(x, x), "2 * x"},
		{"cancel", add(mul(integer(3), pow(x, integer(2))), mul(integer(-3), pow(x, integer(2)))), "0"},
		{"constant last", add(integer(2), x, integer(3), x), "2 * x + 5"},
		{"nested", add(add(x, integer(1)), add(x, integer(-1))), "2 * x"},
		{"negative term", add(pow(x, integer(2)), mul(integer(-4), x)), "x ^ 2 - 4 * x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := render(tt.e); s != tt.want {
				t.Errorf("want %s, got %s", tt.want, s)
			}
		})
	}
}

func TestProduct_CombinesBases(t *testing.T) {
	tests := []struct {
		name string
		e    term
		want string
	}{
		{"square", mul(x, x), "x ^ 2"},
		{"cancel", mul(x, pow(x, integer(-1))), "1"},
		{"zero", mul(integer(0), x), "0"},
		{"coefficients", mul(integer(2), x, integer(3)), "6 * x"},
		{"exponents", mul(pow(x, integer(2)), pow(x, integer(3))), "x ^ 5"},
		{"rational", mul(frac(1, 3), pow(x, integer(3))), "x ^ 3 / 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := render(tt.e); s != tt.want {
				t.Errorf("want %s, got %s", tt.want, s)
			}
		})
	}
}

// ============================================================
// Powers
// ============================================================

func TestPower_Simplify(t *testing.T) {
	tests := []struct {
		name string
		e    term
		want string
	}{
		{"zero exponent", pow(x, integer(0)), "1"},
		{"unit exponent", pow(x, integer(1)), "x"},
		{"integer power", pow(integer(2), integer(3)), "8"},
		{"negative power", pow(integer(2), integer(-2)), "1 / 4"},
		{"nested power", pow(pow(x, integer(2)), integer(3)), "x ^ 6"},
		{"scaled base", pow(mul(integer(3), x), integer(2)), "9 * x ^ 2"},
		{"one base", pow(integer(1), x), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := render(tt.e); s != tt.want {
				t.Errorf("want %s, got %s", tt.want, s)
			}
		})
	}
}

func TestPower_StaysSymbolic(t *testing.T) {
	for name, e := range map[string]term{
		"zero to negative": pow(integer(0), integer(-1)),
		"large exponent":   pow(integer(2), integer(maxFoldedExponent+1)),
		"rational root":    pow(integer(2), frac(1, 2)),
	} {
		_, ok := e.(*power)
		assert.True(t, ok, "%s: got %s", name, key(e))
	}
}

// ============================================================
// Calls and derivatives
// ============================================================

func TestCall_Identities(t *testing.T) {
	tests := []struct {
		e    term
		want string
	}{
		{apply("sin", integer(0)), "0"},
		{apply("cos", integer(0)), "1"},
		{apply("ln", integer(1)), "0"},
		{apply("ln", apply("exp", x)), "x"},
		{apply("exp", apply("ln", x)), "x"},
		{apply("abs", integer(-3)), "3"},
		{apply("sin", integer(1)), "sin(1)"},
	}
	for _, tt := range tests {
		if s := render(tt.e); s != tt.want {
			t.Errorf("want %s, got %s", tt.want, s)
		}
	}
}

func TestDiff_Rules(t *testing.T) {
	tests := []struct {
		name string
		e    term
		want string
	}{
		{"power rule", pow(x, integer(3)), "3 * x ^ 2"},
		{"sin", apply("sin", x), "cos(x)"},
		{"cos", apply("cos", x), "-1 * sin(x)"},
		{"exp", apply("exp", x), "exp(x)"},
		{"ln", apply("ln", x), "1 / x"},
		{"chain", apply("sin", mul(integer(2), x)), "2 * cos(2 * x)"},
		{"product rule", mul(x, apply("sin", x)), "cos(x) * x + sin(x)"},
		{"exponential base", pow(integer(2), x), "2 ^ x * ln(2)"},
		{"square root", sqrt(x), "1 / (2 * sqrt(x))"},
		{"other variable", pow(&symbol{name: "y"}, integer(2)), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := render(tt.e.diff("x")); s != tt.want {
				t.Errorf("want %s, got %s", tt.want, s)
			}
		})
	}
}

func TestDiff_UnknownFunction(t *testing.T) {
	assert.PanicsWithValue(t, unknownFunctionError("gamma"), func() {
		(&call{name: "gamma", arg: x}).diff("x")
	})
}

// ============================================================
// Tree conversion
// ============================================================

func TestToTree_Rendering(t *testing.T) {
	tests := []struct {
		name string
		e    term
		want string
	}{
		{"scaled rational", mul(frac(5, 3), pow(x, integer(3))), "5 * x ^ 3 / 3"},
		{"reciprocal", pow(x, integer(-1)), "1 / x"},
		{"scaled reciprocal", mul(integer(2), pow(x, integer(-1))), "2 / x"},
		{"negated reciprocal", mul(integer(-1), pow(x, integer(-2))), "-1 / x ^ 2"},
		{"square root", sqrt(x), "sqrt(x)"},
		{"difference", add(mul(integer(2), x), integer(-4)), "2 * x - 4"},
		{"standalone fraction", frac(1, 2), "1 / 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.e))
		})
	}
}

func TestFromTree(t *testing.T) {
	got, err := fromTree(expr.DivOf(expr.Num(0.1), expr.Sym("x")))
	require.NoError(t, err)
	assert.Equal(t, "(1/10*(x)^(-1))", key(got))

	_, err = fromTree(expr.Func("gamma", expr.Sym("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gamma")

	_, err = fromTree(expr.DivOf(expr.Sym("x"), expr.SubOf(expr.Num(2), expr.Num(2))))
	assert.ErrorIs(t, err, errDivisionByZero)

	got, err = fromTree(expr.Func("log", expr.Sym("x")))
	require.NoError(t, err)
	assert.Equal(t, "ln(x)", key(got))
}
