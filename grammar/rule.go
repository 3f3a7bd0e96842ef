package grammar

import "strings"

// Rule is every alternative of a single non-terminal, in declaration order.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

// String gives the rule in the same "A -> x y | z" form it is loaded from. A
// rule left with no alternatives is given as just "A ->".
func (r Rule) String() string {
	if len(r.Productions) < 1 {
		return r.NonTerminal + " ->"
	}

	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")

	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}

	return sb.String()
}

// Equal returns whether Rule is equal to another value. It will not be equal
// if the other value cannot be cast to Rule or *Rule.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}

	return equalProductions(r.Productions, other.Productions)
}

// HasProduction returns whether the rule has the given production as one of
// its alternatives.
func (r Rule) HasProduction(prod Production) bool {
	for _, p := range r.Productions {
		if p.Equal(prod) {
			return true
		}
	}
	return false
}

func equalProductions(p1, p2 []Production) bool {
	if len(p1) != len(p2) {
		return false
	}
	for i := range p1 {
		if !p1[i].Equal(p2[i]) {
			return false
		}
	}
	return true
}
