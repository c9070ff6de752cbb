package calcwidget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/njchilds90/calcwidget/integrate"
)

// ErrCapabilityUnavailable is wrapped by errors raised when a request needs
// a capability the Solver was built without.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	UnrecognizedRequest ErrorKind = iota + 1
	InvalidFormat
	UnsupportedExpression
	CapabilityError
	ComputationError
)

var errorKindNames = map[ErrorKind]string{
	UnrecognizedRequest:   "unrecognized_request",
	InvalidFormat:         "invalid_format",
	UnsupportedExpression: "unsupported_expression",
	CapabilityError:       "capability_error",
	ComputationError:      "computation_error",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is a terminal, per-request failure. Detail carries the kind's
// parameter: the request kind for InvalidFormat, the source expression for
// UnsupportedExpression, and the reason or message otherwise.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string { return e.Message() }

func (e *Error) Unwrap() error { return e.Err }

// Message is the text shown to the user.
func (e *Error) Message() string {
	switch e.Kind {
	case UnrecognizedRequest:
		return "Please start with ∫ for integrals or d/dx for derivatives."
	case InvalidFormat:
		if e.Detail == Derivative.String() {
			return "Invalid derivative format. Use: d/dx x^2"
		}
		return "Invalid integral format. Use: ∫ x^2 dx"
	case UnsupportedExpression:
		return fmt.Sprintf("Unsupported integral: %s. Supported forms: x^n, c*x^n, x, c*x (e.g. %s).",
			e.Detail, strings.Join(integrate.SupportedForms(), ", "))
	}
	return "Error: " + e.Detail
}

func capabilityError(err error) *Error {
	return &Error{Kind: CapabilityError, Detail: err.Error(), Err: err}
}

func unavailable(name string) *Error {
	return capabilityError(fmt.Errorf("%s %w", name, ErrCapabilityUnavailable))
}
