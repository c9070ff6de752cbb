// Package calcwidget solves single-variable calculus requests typed into a
// calculator widget, such as "∫ 3*x^2 dx" or "d/dx sin(x)".
//
// The Solver classifies the raw text, integrates power-rule monomials with
// the integrate rule table or hands derivatives to a Differentiator, and
// passes the result through an optional Simplifier. Capabilities are
// injected at construction; Default wires the in-module parser and
// symbolic engine. Solve never panics and always returns displayable text.
package calcwidget

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/njchilds90/calcwidget/expr"
	"github.com/njchilds90/calcwidget/integrate"
	"github.com/njchilds90/calcwidget/parse"
	"github.com/njchilds90/calcwidget/symbolic"
)

// ============================================================
// Capabilities
// ============================================================

// Parser turns expression text into a tree.
type Parser interface {
	Parse(text string) (expr.Node, error)
}

// Differentiator computes d(text)/d(variable).
type Differentiator interface {
	Derivative(text, variable string) (expr.Node, error)
}

// Simplifier canonicalizes a result tree.
type Simplifier interface {
	Simplify(n expr.Node) (expr.Node, error)
}

type ParserFunc func(text string) (expr.Node, error)

func (f ParserFunc) Parse(text string) (expr.Node, error) { return f(text) }

type DifferentiatorFunc func(text, variable string) (expr.Node, error)

func (f DifferentiatorFunc) Derivative(text, variable string) (expr.Node, error) {
	return f(text, variable)
}

type SimplifierFunc func(n expr.Node) (expr.Node, error)

func (f SimplifierFunc) Simplify(n expr.Node) (expr.Node, error) { return f(n) }

// ============================================================
// Solver
// ============================================================

// Solver is immutable after construction and safe for concurrent use.
type Solver struct {
	parser     Parser
	deriv      Differentiator
	simplifier Simplifier
	rules      *integrate.Engine
	log        log.FieldLogger
}

type Option func(*Solver)

func WithParser(p Parser) Option                 { return func(s *Solver) { s.parser = p } }
func WithDifferentiator(d Differentiator) Option { return func(s *Solver) { s.deriv = d } }
func WithSimplifier(sm Simplifier) Option        { return func(s *Solver) { s.simplifier = sm } }
func WithoutSimplifier() Option                  { return func(s *Solver) { s.simplifier = nil } }
func WithLogger(l log.FieldLogger) Option        { return func(s *Solver) { s.log = l } }

// WithRules replaces the integration rule table.
func WithRules(rules ...integrate.Rule) Option {
	return func(s *Solver) { s.rules = integrate.NewEngine(rules...) }
}

// New returns a Solver with only the capabilities given in opts. The
// default integration rules are always present.
func New(opts ...Option) *Solver {
	s := &Solver{
		rules: integrate.NewEngine(),
		log:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Default returns a Solver wired to the in-module parser and symbolic
// engine. Later options override earlier ones.
func Default(opts ...Option) *Solver {
	eng := symbolic.New()
	base := []Option{
		WithParser(parse.Parser{}),
		WithDifferentiator(eng),
		WithSimplifier(eng),
	}
	return New(append(base, opts...)...)
}

// ============================================================
// Results
// ============================================================

// Result is the outcome of one request. Exactly one of Text and Err is set.
type Result struct {
	Input   string
	Request Request
	Tree    expr.Node
	Text    string
	Err     *Error
}

// Display returns the result text or the user-facing error message.
func (r Result) Display() string {
	if r.Err != nil {
		return r.Err.Message()
	}
	return r.Text
}

// Solve evaluates input and returns text for display.
func (s *Solver) Solve(input string) string {
	return s.Evaluate(input).Display()
}

// SolveAll evaluates each input independently.
func (s *Solver) SolveAll(inputs []string) []Result {
	out := make([]Result, len(inputs))
	for i, in := range inputs {
		out[i] = s.Evaluate(in)
	}
	return out
}

// Evaluate classifies and solves input. Panics raised by capabilities or
// rules are reported as ComputationError.
func (s *Solver) Evaluate(input string) (res Result) {
	input = strings.TrimSpace(input)
	res.Input = input
	logger := s.log.WithField("input", input)
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("recovered from panic: %v", r)
			res.Tree, res.Text = nil, ""
			res.Err = &Error{Kind: ComputationError, Detail: fmt.Sprint(r)}
		}
	}()

	req, err := Classify(input)
	if err != nil {
		res.Err = toError(err)
		logger.WithField("error_kind", res.Err.Kind).Debug("request not classified")
		return res
	}
	res.Request = req
	logger = logger.WithFields(log.Fields{"kind": req.Kind, "variable": req.Variable})

	tree, solveErr := s.solve(req, logger)
	if solveErr != nil {
		res.Err = solveErr
		logger.WithField("error_kind", solveErr.Kind).Debug(solveErr.Message())
		return res
	}
	res.Tree = tree
	res.Text = expr.String(tree)
	logger.WithField("result", res.Text).Debug("solved")
	return res
}

func (s *Solver) solve(req Request, logger log.FieldLogger) (expr.Node, *Error) {
	var (
		tree expr.Node
		err  *Error
	)
	switch req.Kind {
	case Integral:
		tree, err = s.integral(req, logger)
	case Derivative:
		tree, err = s.derivative(req)
	default:
		return nil, &Error{Kind: ComputationError, Detail: fmt.Sprintf("unknown request kind %v", req.Kind)}
	}
	if err != nil {
		return nil, err
	}
	if s.simplifier == nil {
		logger.Debug("no simplifier configured, returning unsimplified result")
		return tree, nil
	}
	simplified, serr := s.simplifier.Simplify(tree)
	if serr != nil {
		return nil, capabilityError(serr)
	}
	return simplified, nil
}

func (s *Solver) integral(req Request, logger log.FieldLogger) (expr.Node, *Error) {
	if s.parser == nil {
		return nil, unavailable("parser")
	}
	body, err := s.parser.Parse(req.Body)
	if err != nil {
		return nil, capabilityError(err)
	}
	if err := expr.Validate(body); err != nil {
		return nil, capabilityError(err)
	}
	rule, ok := s.rules.Match(body, req.Variable)
	if !ok {
		return nil, &Error{
			Kind:   UnsupportedExpression,
			Detail: req.Body,
			Err:    &integrate.UnsupportedError{Expr: expr.String(body)},
		}
	}
	logger.WithField("rule", rule.Name).Debug("integration rule matched")
	return rule.Apply(body, req.Variable), nil
}

func (s *Solver) derivative(req Request) (expr.Node, *Error) {
	if s.deriv == nil {
		return nil, unavailable("derivative")
	}
	tree, err := s.deriv.Derivative(req.Body, req.Variable)
	if err != nil {
		return nil, capabilityError(err)
	}
	if tree == nil {
		return nil, capabilityError(errors.New("derivative returned no result"))
	}
	return tree, nil
}

func toError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: ComputationError, Detail: err.Error(), Err: err}
}
