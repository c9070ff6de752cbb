// Package integrate computes indefinite integrals of power-rule monomials
// by matching the shape of the parsed integrand against an ordered rule
// table.
//
// Results omit the constant of integration and are not simplified; the
// caller runs them through a simplifier if one is available.
package integrate

import (
	"fmt"

	"github.com/njchilds90/calcwidget/expr"
)

// Rule pairs a shape recognizer with the transform applied when it
// matches. Both must be pure.
type Rule struct {
	Name      string
	Recognize func(body expr.Node, variable string) bool
	Apply     func(body expr.Node, variable string) expr.Node
}

// SupportedForms lists example integrands accepted by the default rules.
func SupportedForms() []string { return []string{"x^2", "3*x^2", "x", "5*x"} }

// UnsupportedError reports that no rule recognized the integrand.
type UnsupportedError struct {
	Expr string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported integral: %s", e.Expr)
}

// Engine applies the first matching rule of an ordered table.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules in priority order. With no rules
// it uses the default table.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = Rules()
	}
	return &Engine{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the default table in priority order.
func Rules() []Rule {
	return []Rule{
		{Name: "power", Recognize: isPower, Apply: integratePower},
		{Name: "coefficient-power", Recognize: isCoefficientPower, Apply: integrateCoefficientPower},
		{Name: "symbol", Recognize: isSymbol, Apply: integrateSymbol},
		{Name: "coefficient-symbol", Recognize: isCoefficientSymbol, Apply: integrateCoefficientSymbol},
	}
}

// Match returns the first rule recognizing body.
func (e *Engine) Match(body expr.Node, variable string) (Rule, bool) {
	for _, r := range e.rules {
		if r.Recognize(body, variable) {
			return r, true
		}
	}
	return Rule{}, false
}

// Integrate returns ∫ body d(variable) without the constant of
// integration, or an *UnsupportedError naming body.
func (e *Engine) Integrate(body expr.Node, variable string) (expr.Node, error) {
	r, ok := e.Match(body, variable)
	if !ok {
		return nil, &UnsupportedError{Expr: expr.String(body)}
	}
	return r.Apply(body, variable), nil
}

// Integrate applies the default rule table.
func Integrate(body expr.Node, variable string) (expr.Node, error) {
	return NewEngine().Integrate(body, variable)
}
