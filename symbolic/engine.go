package symbolic

import (
	"errors"
	"fmt"

	"github.com/njchilds90/calcwidget/expr"
	"github.com/njchilds90/calcwidget/parse"
)

var errDivisionByZero = errors.New("division by zero")

type unknownFunctionError string

func (e unknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", string(e))
}

// Engine provides the differentiate and simplify capabilities. The zero
// value is ready to use and safe for concurrent use.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Derivative parses text and returns d(text)/d(variable), simplified.
func (e *Engine) Derivative(text, variable string) (expr.Node, error) {
	tree, err := parse.Parse(text)
	if err != nil {
		return nil, err
	}
	return e.Diff(tree, variable)
}

// Diff returns d(n)/d(variable), simplified.
func (e *Engine) Diff(n expr.Node, variable string) (out expr.Node, err error) {
	defer recoverKernel(&err)
	t, err := fromTree(n)
	if err != nil {
		return nil, err
	}
	return toTree(t.diff(variable)), nil
}

// Simplify canonicalizes n: like terms collected, rationals folded exactly.
func (e *Engine) Simplify(n expr.Node) (out expr.Node, err error) {
	defer recoverKernel(&err)
	t, err := fromTree(n)
	if err != nil {
		return nil, err
	}
	return toTree(t), nil
}

// recoverKernel turns arithmetic panics raised inside the kernel into
// errors.
func recoverKernel(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = e
		return
	}
	*err = fmt.Errorf("%v", r)
}
