// Package symbolic differentiates and simplifies expression trees over exact
// rationals.
//
// Trees are converted on the way in to an n-ary internal form, where like
// terms and like factors can be collected. On the way out they become a
// readable expr.Node again. Only Engine is exported; the internal form
// never crosses the package boundary.
package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// term is the internal form. Every constructor returns a simplified term,
// and simplified terms are fixed points of simplify.
type term interface {
	simplify() term
	diff(v string) term
}

// maxFoldedExponent bounds exact folding of rational powers such as 2^10.
const maxFoldedExponent = 64

// ============================================================
// Rationals
// ============================================================

type rat struct{ r *big.Rat }

func integer(n int64) *rat { return &rat{r: big.NewRat(n, 1)} }

func frac(p, q int64) *rat {
	if q == 0 {
		panic(errDivisionByZero)
	}
	return &rat{r: big.NewRat(p, q)}
}

func (n *rat) simplify() term   { return n }
func (n *rat) diff(string) term { return integer(0) }

func (n *rat) zero() bool     { return n.r.Sign() == 0 }
func (n *rat) one() bool      { return isRat(n, 1) }
func (n *rat) negative() bool { return n.r.Sign() < 0 }
func (n *rat) whole() bool    { return n.r.IsInt() }

func (n *rat) plus(m *rat) *rat  { return &rat{r: new(big.Rat).Add(n.r, m.r)} }
func (n *rat) times(m *rat) *rat { return &rat{r: new(big.Rat).Mul(n.r, m.r)} }
func (n *rat) neg() *rat         { return &rat{r: new(big.Rat).Neg(n.r)} }

func (n *rat) inv() *rat {
	if n.zero() {
		panic(errDivisionByZero)
	}
	return &rat{r: new(big.Rat).Inv(n.r)}
}

// pow raises n to the integer power k.
func (n *rat) pow(k int64) *rat {
	if k < 0 {
		return n.pow(-k).inv()
	}
	e := big.NewInt(k)
	num := new(big.Int).Exp(n.r.Num(), e, nil)
	den := new(big.Int).Exp(n.r.Denom(), e, nil)
	return &rat{r: new(big.Rat).SetFrac(num, den)}
}

func isRat(t term, v int64) bool {
	n, ok := t.(*rat)
	return ok && n.r.Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Symbols
// ============================================================

type symbol struct{ name string }

func (s *symbol) simplify() term { return s }

func (s *symbol) diff(v string) term {
	if s.name == v {
		return integer(1)
	}
	return integer(0)
}

// ============================================================
// Sums
// ============================================================

type sum struct{ terms []term }

func add(ts ...term) term { return (&sum{terms: ts}).simplify() }

type likeTerm struct {
	coeff *rat
	rest  term
}

// simplify flattens nested sums and collects terms that differ only in
// their rational coefficient. Terms keep first-seen order; the constant
// goes last.
func (s *sum) simplify() term {
	constant := integer(0)
	like := map[string]*likeTerm{}
	var order []string

	collect := func(t term) {
		if n, ok := t.(*rat); ok {
			constant = constant.plus(n)
			return
		}
		c, rest := coefficient(t)
		k := key(rest)
		lt, seen := like[k]
		if !seen {
			lt = &likeTerm{coeff: integer(0), rest: rest}
			like[k] = lt
			order = append(order, k)
		}
		lt.coeff = lt.coeff.plus(c)
	}
	for _, t := range s.terms {
		t = t.simplify()
		if inner, ok := t.(*sum); ok {
			for _, u := range inner.terms {
				collect(u)
			}
			continue
		}
		collect(t)
	}

	out := make([]term, 0, len(order)+1)
	for _, k := range order {
		lt := like[k]
		switch {
		case lt.coeff.zero():
		case lt.coeff.one():
			out = append(out, lt.rest)
		default:
			out = append(out, mul(lt.coeff, lt.rest))
		}
	}
	if !constant.zero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return integer(0)
	case 1:
		return out[0]
	}
	return &sum{terms: out}
}

func (s *sum) diff(v string) term {
	ds := make([]term, len(s.terms))
	for i, t := range s.terms {
		ds[i] = t.diff(v)
	}
	return add(ds...)
}

// coefficient splits a simplified non-constant term into its rational
// coefficient and the remaining factors.
func coefficient(t term) (*rat, term) {
	p, ok := t.(*product)
	if !ok {
		return integer(1), t
	}
	c, ok := p.factors[0].(*rat)
	if !ok {
		return integer(1), t
	}
	if len(p.factors) == 2 {
		return c, p.factors[1]
	}
	return c, &product{factors: p.factors[1:]}
}

// ============================================================
// Products
// ============================================================

type product struct{ factors []term }

func mul(fs ...term) term { return (&product{factors: fs}).simplify() }

// simplify flattens nested products, folds rational factors into a leading
// coefficient and merges factors over a common base by adding exponents.
// The remaining factors are ordered by the key of their base.
func (p *product) simplify() term {
	coeff := integer(1)
	exps := map[string]term{}
	bases := map[string]term{}

	var absorb func(f term)
	absorb = func(f term) {
		switch f := f.(type) {
		case *rat:
			coeff = coeff.times(f)
		case *product:
			for _, g := range f.factors {
				absorb(g)
			}
		default:
			base, exp := term(f), term(integer(1))
			if pw, ok := f.(*power); ok {
				base, exp = pw.base, pw.exp
			}
			k := key(base)
			if prev, seen := exps[k]; seen {
				exps[k] = add(prev, exp)
			} else {
				exps[k], bases[k] = exp, base
			}
		}
	}
	for _, f := range p.factors {
		absorb(f.simplify())
	}
	if coeff.zero() {
		return integer(0)
	}

	keys := make([]string, 0, len(exps))
	for k := range exps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rest []term
	for _, k := range keys {
		switch f := pow(bases[k], exps[k]).(type) {
		case *rat:
			coeff = coeff.times(f)
		case *product:
			for _, g := range f.factors {
				if n, ok := g.(*rat); ok {
					coeff = coeff.times(n)
				} else {
					rest = append(rest, g)
				}
			}
		default:
			rest = append(rest, f)
		}
	}

	switch {
	case coeff.zero():
		return integer(0)
	case len(rest) == 0:
		return coeff
	case coeff.one() && len(rest) == 1:
		return rest[0]
	case coeff.one():
		return &product{factors: rest}
	}
	return &product{factors: append([]term{coeff}, rest...)}
}

// diff applies the product rule: the sum over i of the product with the
// i-th factor replaced by its derivative.
func (p *product) diff(v string) term {
	terms := make([]term, len(p.factors))
	for i := range p.factors {
		fs := make([]term, len(p.factors))
		copy(fs, p.factors)
		fs[i] = p.factors[i].diff(v)
		terms[i] = mul(fs...)
	}
	return add(terms...)
}

// ============================================================
// Powers
// ============================================================

type power struct{ base, exp term }

func pow(base, exp term) term { return (&power{base: base, exp: exp}).simplify() }

func sqrt(arg term) term { return pow(arg, frac(1, 2)) }

func (p *power) simplify() term {
	base, exp := p.base.simplify(), p.exp.simplify()
	switch {
	case isRat(exp, 0):
		return integer(1)
	case isRat(exp, 1):
		return base
	}

	switch b := base.(type) {
	case *rat:
		if folded, ok := foldPower(b, exp); ok {
			return folded
		}
	case *power:
		return pow(b.base, mul(b.exp, exp))
	case *product:
		// (c*u)^n = c^n * u^n for integer n.
		if n, ok := exp.(*rat); ok && n.whole() {
			fs := make([]term, len(b.factors))
			for i, f := range b.factors {
				fs[i] = pow(f, n)
			}
			return mul(fs...)
		}
	}
	return &power{base: base, exp: exp}
}

// foldPower evaluates b^exp exactly when the result is rational.
// 0^negative stays symbolic.
func foldPower(b *rat, exp term) (term, bool) {
	if b.one() {
		return integer(1), true
	}
	n, ok := exp.(*rat)
	if b.zero() {
		if ok && n.negative() {
			return nil, false
		}
		return integer(0), true
	}
	if !ok || !n.whole() || !n.r.Num().IsInt64() {
		return nil, false
	}
	k := n.r.Num().Int64()
	if k > maxFoldedExponent || k < -maxFoldedExponent {
		return nil, false
	}
	return b.pow(k), true
}

func (p *power) diff(v string) term {
	du := p.base.diff(v)
	if n, ok := p.exp.(*rat); ok {
		return mul(n, pow(p.base, n.plus(integer(-1))), du)
	}
	dv := p.exp.diff(v)
	if _, ok := p.base.(*rat); ok {
		return mul(p, apply("ln", p.base), dv)
	}
	// d(u^w) = u^w * (w' ln u + w u' / u)
	return mul(p, add(
		mul(dv, apply("ln", p.base)),
		mul(p.exp, du, pow(p.base, integer(-1))),
	))
}

// ============================================================
// Function calls
// ============================================================

type call struct {
	name string
	arg  term
}

func apply(name string, arg term) term { return (&call{name: name, arg: arg}).simplify() }

var (
	zeroAtZero = map[string]bool{"sin": true, "tan": true, "asin": true, "atan": true, "sinh": true, "tanh": true}
	oneAtZero  = map[string]bool{"cos": true, "cosh": true, "exp": true}
	inverseOf  = map[string]string{"ln": "exp", "exp": "ln"}
)

// derivatives maps each function f to u -> f'(u).
var derivatives = map[string]func(u term) term{
	"sin":  func(u term) term { return apply("cos", u) },
	"cos":  func(u term) term { return mul(integer(-1), apply("sin", u)) },
	"tan":  func(u term) term { return add(integer(1), pow(apply("tan", u), integer(2))) },
	"exp":  func(u term) term { return apply("exp", u) },
	"ln":   func(u term) term { return pow(u, integer(-1)) },
	"asin": func(u term) term { return pow(oneMinusSquare(u), frac(-1, 2)) },
	"acos": func(u term) term { return mul(integer(-1), pow(oneMinusSquare(u), frac(-1, 2))) },
	"atan": func(u term) term { return pow(add(integer(1), pow(u, integer(2))), integer(-1)) },
	"sinh": func(u term) term { return apply("cosh", u) },
	"cosh": func(u term) term { return apply("sinh", u) },
	"tanh": func(u term) term { return oneMinusSquare(apply("tanh", u)) },
	"abs":  func(u term) term { return mul(u, pow(apply("abs", u), integer(-1))) },
}

func oneMinusSquare(u term) term {
	return add(integer(1), mul(integer(-1), pow(u, integer(2))))
}

// simplify applies exact identities only. Calls on other rational
// arguments stay unevaluated.
func (c *call) simplify() term {
	arg := c.arg.simplify()
	switch {
	case isRat(arg, 0) && zeroAtZero[c.name]:
		return integer(0)
	case isRat(arg, 0) && oneAtZero[c.name]:
		return integer(1)
	case isRat(arg, 1) && c.name == "ln":
		return integer(0)
	}
	if inner, ok := arg.(*call); ok && inverseOf[c.name] == inner.name {
		return inner.arg
	}
	if n, ok := arg.(*rat); ok && c.name == "abs" {
		if n.negative() {
			return n.neg()
		}
		return n
	}
	return &call{name: c.name, arg: arg}
}

func (c *call) diff(v string) term {
	du := c.arg.diff(v)
	if isRat(du, 0) {
		return integer(0)
	}
	d, ok := derivatives[c.name]
	if !ok {
		panic(unknownFunctionError(c.name))
	}
	return mul(d(c.arg), du)
}

// ============================================================
// Keys
// ============================================================

// key is the canonical text used to collect like terms and like bases.
func key(t term) string {
	switch t := t.(type) {
	case *rat:
		return t.r.RatString()
	case *symbol:
		return t.name
	case *call:
		return t.name + "(" + key(t.arg) + ")"
	case *power:
		return "(" + key(t.base) + ")^(" + key(t.exp) + ")"
	case *sum:
		return "(" + joinKeys(t.terms, "+") + ")"
	case *product:
		return "(" + joinKeys(t.factors, "*") + ")"
	}
	panic(fmt.Sprintf("symbolic: unknown term %T", t))
}

func joinKeys(ts []term, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = key(t)
	}
	return strings.Join(parts, sep)
}
