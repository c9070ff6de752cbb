package calcwidget

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the type of calculus request.
type Kind int

const (
	Integral Kind = iota + 1
	Derivative
)

func (k Kind) String() string {
	switch k {
	case Integral:
		return "integral"
	case Derivative:
		return "derivative"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Request is a classified input: the integrand or function body and the
// single-letter variable.
type Request struct {
	Kind     Kind
	Variable string
	Body     string
}

const (
	integralPrefix   = "∫"
	derivativePrefix = "d/d"
)

var (
	// The lazy body stops at the last "d<letter>" before end of input.
	integralPattern   = regexp.MustCompile(`^∫\s*(.+?)\s*d([A-Za-z])$`)
	derivativePattern = regexp.MustCompile(`^d/d([A-Za-z])\s*(.+)$`)
)

// Classify recognizes the request type by prefix and extracts body and
// variable. It returns an *Error of kind UnrecognizedRequest or
// InvalidFormat on failure.
func Classify(input string) (Request, error) {
	input = strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(input, integralPrefix):
		m := integralPattern.FindStringSubmatch(input)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			return Request{}, &Error{Kind: InvalidFormat, Detail: Integral.String()}
		}
		return Request{Kind: Integral, Variable: m[2], Body: strings.TrimSpace(m[1])}, nil
	case strings.HasPrefix(input, derivativePrefix):
		m := derivativePattern.FindStringSubmatch(input)
		if m == nil || strings.TrimSpace(m[2]) == "" {
			return Request{}, &Error{Kind: InvalidFormat, Detail: Derivative.String()}
		}
		return Request{Kind: Derivative, Variable: m[1], Body: strings.TrimSpace(m[2])}, nil
	}
	return Request{}, &Error{Kind: UnrecognizedRequest}
}
