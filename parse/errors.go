package parse

import (
	"errors"
	"fmt"

	"github.com/dekarrin/llpred/grammar"
)

var (
	ErrMismatch           = errors.New("terminal on stack does not match input")
	ErrNoApplicableRule   = errors.New("no rule applies to the input")
	ErrUnknownStackSymbol = errors.New("symbol on stack is not in the grammar")
	ErrAmbiguousCell      = errors.New("more than one rule applies to the input")
	ErrEndMarkerInInput   = errors.New("input must not contain '" + grammar.EndMarker + "'")
)

// DerivationError is returned when the derivation machine stops without
// accepting its input. It can be checked against the sentinel error for its
// kind with errors.Is.
type DerivationError struct {
	// Kind is the error action recorded as the last step of the trace.
	Kind ActionKind

	// Step is the 1-based index of the failing step within the trace.
	Step int

	// Symbol is the symbol that was on top of the stack.
	Symbol string

	// Token is the input token that was being looked at.
	Token string
}

func (e *DerivationError) Error() string {
	var msg string
	switch e.Kind {
	case ActionMismatch:
		msg = fmt.Sprintf("expected %q but got %q", e.Symbol, e.Token)
	case ActionNoRule:
		msg = fmt.Sprintf("no rule for %s on %q", e.Symbol, e.Token)
	case ActionUnknownSymbol:
		msg = fmt.Sprintf("%q on the stack is not in the grammar", e.Symbol)
	case ActionAmbiguous:
		msg = fmt.Sprintf("%s has more than one rule for %q", e.Symbol, e.Token)
	default:
		msg = fmt.Sprintf("derivation failed at %s on %q", e.Symbol, e.Token)
	}
	return fmt.Sprintf("step %d: %s", e.Step, msg)
}

func (e *DerivationError) Is(target error) bool {
	switch e.Kind {
	case ActionMismatch:
		return target == ErrMismatch
	case ActionNoRule:
		return target == ErrNoApplicableRule
	case ActionUnknownSymbol:
		return target == ErrUnknownStackSymbol
	case ActionAmbiguous:
		return target == ErrAmbiguousCell
	default:
		return false
	}
}
