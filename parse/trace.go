package parse

import (
	"strings"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/rosed"
)

// ActionKind is the type of transition the derivation machine took at one
// step.
type ActionKind int

const (
	ActionMatch ActionKind = iota
	ActionExpand
	ActionAccept
	ActionMismatch
	ActionNoRule
	ActionUnknownSymbol
	ActionAmbiguous
)

func (k ActionKind) String() string {
	switch k {
	case ActionMatch:
		return "Match"
	case ActionExpand:
		return "Expand"
	case ActionAccept:
		return "Accept"
	case ActionMismatch:
		return "Mismatch"
	case ActionNoRule:
		return "NoRule"
	case ActionUnknownSymbol:
		return "UnknownSymbol"
	case ActionAmbiguous:
		return "Ambiguous"
	default:
		return "Unknown"
	}
}

// IsError returns whether the action ends the derivation in failure.
func (k ActionKind) IsError() bool {
	switch k {
	case ActionMismatch, ActionNoRule, ActionUnknownSymbol, ActionAmbiguous:
		return true
	default:
		return false
	}
}

// Action is what the derivation machine did at one step.
type Action struct {
	Kind ActionKind

	// Symbol is the symbol on top of the stack when the action was taken.
	Symbol string

	// Production is the body the non-terminal was expanded with. It is only set
	// for ActionExpand.
	Production grammar.Production
}

// String gives the action in the form shown in a trace, e.g. "Match id" or
// "E -> T E'".
func (a Action) String() string {
	switch a.Kind {
	case ActionMatch:
		return "Match " + a.Symbol
	case ActionExpand:
		return a.Symbol + " -> " + a.Production.String()
	case ActionAccept:
		return "Accept"
	case ActionMismatch:
		return "Error: Mismatch"
	case ActionNoRule:
		return "Error: No Rule"
	case ActionUnknownSymbol:
		return "Error: Unknown Symbol"
	case ActionAmbiguous:
		return "Error: Conflict"
	default:
		return "Error"
	}
}

// Step is a single entry of a derivation trace. Stack and Input are snapshots
// taken before Action was applied.
type Step struct {
	// Stack is the symbol stack from bottom to top, so the last element is the
	// top.
	Stack []string

	// Input is the unconsumed input, including the trailing end marker.
	Input []string

	Action Action
}

// String gives the step as a single line of stack, input, and action.
func (s Step) String() string {
	return strings.Join(s.Stack, " ") + " | " + strings.Join(s.Input, " ") + " | " + s.Action.String()
}

// Trace is every step taken by a derivation, in order.
type Trace []Step

// Last returns the final step of the trace. It panics if the trace is empty.
func (t Trace) Last() Step {
	if len(t) < 1 {
		panic("last step of empty trace")
	}
	return t[len(t)-1]
}

// Actions returns the string form of the action of each step.
func (t Trace) Actions() []string {
	actions := make([]string, len(t))
	for i := range t {
		actions[i] = t[i].Action.String()
	}
	return actions
}

// String renders the trace as a text table 80 characters wide.
func (t Trace) String() string {
	return t.Render(80)
}

// Render gives the trace as a bordered text table no wider than width with
// columns Stack, Input, and Action.
func (t Trace) Render(width int) string {
	data := [][]string{{"Stack", "Input", "Action"}}

	for _, s := range t {
		data = append(data, []string{
			strings.Join(s.Stack, " "),
			strings.Join(s.Input, " "),
			s.Action.String(),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders: true,
			TableHeaders: true,
		}).
		String()
}
