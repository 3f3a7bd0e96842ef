package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llpred/internal/util"
)

const (
	// Epsilon is the symbol that denotes the empty string. It is only valid as
	// the sole symbol of a production.
	Epsilon = "ε"

	// EndMarker is the terminal that marks the end of input. It is always a
	// terminal of every grammar and is never written in rule text.
	EndMarker = "$"
)

// SymbolKind is the classification of a symbol within a particular Grammar.
type SymbolKind int

const (
	Undefined SymbolKind = iota
	Terminal
	NonTerminal
	EpsilonSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "non-terminal"
	case EpsilonSymbol:
		return "epsilon"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Production is the body of a single alternative of a rule. It does not know
// which non-terminal produces it.
type Production []string

var (
	// EpsilonProduction is the nullable alternative.
	EpsilonProduction = Production{Epsilon}

	// Error is the production returned for an empty table cell.
	Error = Production{}
)

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// IsEpsilon returns whether p is the nullable alternative.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon
}

// HasSymbol returns whether the production has the given symbol in it.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

// Equal returns whether Production is equal to another value. It will not be
// equal if the other value cannot be cast to Production, *Production, or
// []string.
func (p Production) Equal(o any) bool {
	var other Production

	switch v := o.(type) {
	case Production:
		other = v
	case *Production:
		if v == nil {
			return false
		}
		other = *v
	case []string:
		other = Production(v)
	default:
		return false
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// String returns the symbols of p separated by spaces.
func (p Production) String() string {
	return strings.Join(p, " ")
}
