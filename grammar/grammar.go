// Package grammar contains the model of a context-free grammar along with the
// analyses needed to build a predictive LL(1) parser for it: loading from rule
// text, elimination of immediate left recursion, FIRST and FOLLOW sets, and
// construction of the LL(1) parsing table.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llpred/internal/util"
)

// Grammar is a context-free grammar. Rules are kept in the order their heads
// were first declared.
//
// The zero-value of Grammar is an empty grammar ready for use.
type Grammar struct {
	rulesByName map[string]int

	// main rules store, not just doing a simple map bc
	// rules have an order that matters for display
	rules     []Rule
	terminals util.StringSet

	// Start is the start symbol. It is the head of the first rule added.
	Start string
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		terminals:   util.NewStringSet(g.terminals),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}

	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}

	return g2
}

// String returns every rule of the grammar on its own line, in declaration
// order.
func (g Grammar) String() string {
	var sb strings.Builder

	for i := range g.rules {
		sb.WriteString(g.rules[i].String())
		if i+1 < len(g.rules) {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// Rules returns a copy of all rules in declaration order.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// Rule returns the grammar rule for the given nonterminal symbol.
// If there is no rule defined for that nonterminal, a Rule with an empty
// NonTerminal field is returned; else it will be the same string as the one
// passed in to the function.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	if curIdx, ok := g.rulesByName[nonterminal]; !ok {
		return Rule{}
	} else {
		return g.rules[curIdx]
	}
}

// AddRule adds the given production for a nonterminal. If the nonterminal has
// already been given, the production is added as an alternative for that
// nonterminal with lower priority than all others already added. The first
// nonterminal ever added becomes the start symbol.
//
// Terminals are not updated by AddRule; call classify once every rule is
// present, because a symbol cannot be known to be a terminal until no rule
// declares it.
func (g *Grammar) AddRule(nonterminal string, production Production) {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed for production rule")
	}

	if len(production) < 1 {
		panic("for epsilon production give EpsilonProduction; all rules must have productions")
	}

	if len(production) != 1 && production.HasSymbol(Epsilon) {
		panic("epsilon production only allowed as sole production of an alternative")
	}

	g.declare(nonterminal)

	curIdx := g.rulesByName[nonterminal]
	curRule := g.rules[curIdx]
	curRule.Productions = append(curRule.Productions, production.Copy())
	g.rules[curIdx] = curRule
}

// declare registers nonterminal as the head of a rule without giving it any
// productions. It has no effect if the nonterminal is already declared.
func (g *Grammar) declare(nonterminal string) {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	if _, ok := g.rulesByName[nonterminal]; ok {
		return
	}

	g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
	g.rulesByName[nonterminal] = len(g.rules) - 1

	if g.Start == "" {
		g.Start = nonterminal
	}
}

// insertRule inserts r immediately after the rule at idx.
func (g *Grammar) insertRule(r Rule, idx int) {
	// explicitly copy the end of the slice because trying to
	// save a post list and then modifying has lead to aliasing
	// issues in past
	var postList []Rule = make([]Rule, len(g.rules)-(idx+1))
	copy(postList, g.rules[idx+1:])
	g.rules = append(g.rules[:idx+1], r)
	g.rules = append(g.rules, postList...)

	// update indexes
	for i := idx + 1; i < len(g.rules); i++ {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}
}

// classify recomputes the terminal set from scratch. Every name that appears
// in a body and is neither a declared non-terminal nor Epsilon is a terminal.
// EndMarker is always a terminal.
func (g *Grammar) classify() {
	g.terminals = util.NewStringSet()
	g.terminals.Add(EndMarker)

	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon {
					continue
				}
				if _, isHead := g.rulesByName[sym]; !isHead {
					g.terminals.Add(sym)
				}
			}
		}
	}
}

// NonTerminals returns all non-terminal symbols in the order they were
// declared.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, len(g.rules))
	for i := range g.rules {
		nts[i] = g.rules[i].NonTerminal
	}
	return nts
}

// Terminals returns all terminal symbols, including EndMarker, in alphabetical
// order.
func (g Grammar) Terminals() []string {
	if g.terminals == nil {
		return []string{EndMarker}
	}
	return g.terminals.Sorted()
}

// Kind returns the classification of sym within g.
func (g Grammar) Kind(sym string) SymbolKind {
	if sym == Epsilon {
		return EpsilonSymbol
	}
	if sym == EndMarker {
		return Terminal
	}
	if _, ok := g.rulesByName[sym]; ok {
		return NonTerminal
	}
	if g.terminals.Has(sym) {
		return Terminal
	}
	return Undefined
}

// IsTerminal returns whether sym is a terminal of g. EndMarker is always a
// terminal.
func (g Grammar) IsTerminal(sym string) bool {
	return g.Kind(sym) == Terminal
}

// IsNonTerminal returns whether sym is the head of some rule in g.
func (g Grammar) IsNonTerminal(sym string) bool {
	return g.Kind(sym) == NonTerminal
}

// Equal returns whether g has the same start symbol and the same rules in the
// same order as o. o must be a Grammar or *Grammar.
func (g Grammar) Equal(o any) bool {
	other, ok := o.(Grammar)
	if !ok {
		otherPtr, ok := o.(*Grammar)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if g.Start != other.Start {
		return false
	}
	return util.EqualSlices(g.rules, other.rules)
}

// Validate returns an error describing every structural problem with g. A
// grammar built by Load and RemoveLeftRecursion only fails validation when
// some head was left with no alternatives at all.
func (g Grammar) Validate() error {
	if len(g.rules) < 1 {
		return ErrEmptyGrammar
	}

	var problems []string

	if _, ok := g.rulesByName[g.Start]; !ok {
		problems = append(problems, fmt.Sprintf("start symbol %q has no rule", g.Start))
	}

	for _, r := range g.rules {
		if len(r.Productions) < 1 {
			problems = append(problems, fmt.Sprintf("non-terminal %q has no productions", r.NonTerminal))
		}
		for _, p := range r.Productions {
			for _, sym := range p {
				if g.Kind(sym) == Undefined {
					problems = append(problems, fmt.Sprintf("symbol %q produced by %q is not classified", sym, r.NonTerminal))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid grammar: %s", strings.Join(problems, "; "))
	}
	return nil
}
