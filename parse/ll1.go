package parse

import (
	"strings"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/internal/util"
)

// Result is everything a derivation produced. When the derivation fails, Trace
// ends with the error step and Tree holds the nodes built up to that point.
type Result struct {
	Trace    Trace
	Tree     *Tree
	Accepted bool
}

// LL1Parser derives token sequences using the table of an analyzed grammar.
// Unlike a bare call to Derive, it knows which cells of the table were
// claimed by more than one production and refuses to expand through them.
type LL1Parser struct {
	g         grammar.Grammar
	table     grammar.LL1Table
	conflicts grammar.Conflicts
}

// GenerateLL1Parser generates a parser from the normalized grammar, table, and
// conflicts of a. The grammar does not need to be LL(1); derivations that reach
// a conflicted cell stop with an ActionAmbiguous step.
func GenerateLL1Parser(a grammar.Analysis) LL1Parser {
	conflicts := make(grammar.Conflicts, len(a.Conflicts))
	copy(conflicts, a.Conflicts)

	return LL1Parser{
		g:         a.Grammar.Copy(),
		table:     a.Table,
		conflicts: conflicts,
	}
}

// Grammar returns the grammar the parser derives with.
func (ll1 LL1Parser) Grammar() grammar.Grammar {
	return ll1.g
}

// Table returns the table the parser derives with.
func (ll1 LL1Parser) Table() grammar.LL1Table {
	return ll1.table
}

// Derive runs the derivation machine on tokens. The tokens must not include
// the end marker; it is added automatically.
func (ll1 LL1Parser) Derive(tokens []string) (Result, error) {
	return derive(ll1.g, ll1.table, ll1.conflicts, tokens)
}

// DeriveString tokenizes s and derives the result.
func (ll1 LL1Parser) DeriveString(s string) (Result, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		return Result{}, err
	}
	return ll1.Derive(tokens)
}

// Tokenize splits s into tokens on whitespace. It returns ErrEndMarkerInInput
// if any token is the end marker.
func Tokenize(s string) ([]string, error) {
	tokens := strings.Fields(s)
	for _, tok := range tokens {
		if tok == grammar.EndMarker {
			return nil, ErrEndMarkerInInput
		}
	}
	return tokens, nil
}

// Derive runs the predictive derivation machine for g with table M on tokens.
// The tokens must not include the end marker; it is added automatically.
//
// The machine starts with the end marker below the start symbol on its stack
// and repeatedly takes one of these transitions until it accepts or fails:
//
//   - a terminal on top that equals the current token is popped and the token
//     consumed. If it was the end marker, the input is accepted.
//   - a terminal on top that does not equal the current token is a mismatch.
//   - a non-terminal on top is replaced by the body at M[top, token], which
//     becomes the children of its node in the tree. If there is no such cell
//     there is no applicable rule.
//   - any other symbol on top is unknown to the grammar.
//
// Every transition appends one Step to the trace, made before the transition
// is applied. If derivation fails, the returned error is a *DerivationError and
// the Result still holds the trace and the tree up to the failure.
func Derive(g grammar.Grammar, M grammar.LL1Table, tokens []string) (Result, error) {
	return derive(g, M, nil, tokens)
}

func derive(g grammar.Grammar, M grammar.LL1Table, conflicts grammar.Conflicts, tokens []string) (Result, error) {
	for _, tok := range tokens {
		if tok == grammar.EndMarker {
			return Result{}, ErrEndMarkerInInput
		}
	}

	input := make([]string, len(tokens), len(tokens)+1)
	copy(input, tokens)
	input = append(input, grammar.EndMarker)

	root := &Tree{Symbol: g.Start}
	stack := util.Stack[*Tree]{Of: []*Tree{{Symbol: grammar.EndMarker, Terminal: true}, root}}
	res := Result{Tree: root}
	pos := 0

	fail := func(kind ActionKind, X, a string) (Result, error) {
		return res, &DerivationError{
			Kind:   kind,
			Step:   len(res.Trace),
			Symbol: X,
			Token:  a,
		}
	}

	for !stack.Empty() {
		node := stack.Peek()
		X := node.Symbol
		a := input[pos]

		step := Step{
			Stack: stackSymbols(stack),
			Input: append([]string{}, input[pos:]...),
		}

		if g.IsTerminal(X) {
			if X != a {
				step.Action = Action{Kind: ActionMismatch, Symbol: X}
				res.Trace = append(res.Trace, step)
				return fail(ActionMismatch, X, a)
			}

			stack.Pop()
			pos++

			if X == grammar.EndMarker {
				step.Action = Action{Kind: ActionAccept, Symbol: X}
				res.Trace = append(res.Trace, step)
				res.Accepted = true
				return res, nil
			}

			step.Action = Action{Kind: ActionMatch, Symbol: X}
			res.Trace = append(res.Trace, step)
		} else if g.IsNonTerminal(X) {
			if conflicts.Has(X, a) {
				step.Action = Action{Kind: ActionAmbiguous, Symbol: X}
				res.Trace = append(res.Trace, step)
				return fail(ActionAmbiguous, X, a)
			}
			if !M.Has(X, a) {
				step.Action = Action{Kind: ActionNoRule, Symbol: X}
				res.Trace = append(res.Trace, step)
				return fail(ActionNoRule, X, a)
			}

			alpha := M.Get(X, a)
			stack.Pop()

			if alpha.IsEpsilon() {
				node.Children = []*Tree{{Symbol: grammar.Epsilon, Terminal: true}}
			} else {
				node.Children = make([]*Tree, len(alpha))
				for i, sym := range alpha {
					node.Children[i] = &Tree{Symbol: sym, Terminal: g.IsTerminal(sym)}
				}
				for i := len(node.Children) - 1; i >= 0; i-- {
					stack.Push(node.Children[i])
				}
			}

			step.Action = Action{Kind: ActionExpand, Symbol: X, Production: alpha.Copy()}
			res.Trace = append(res.Trace, step)
		} else {
			step.Action = Action{Kind: ActionUnknownSymbol, Symbol: X}
			res.Trace = append(res.Trace, step)
			return fail(ActionUnknownSymbol, X, a)
		}
	}

	// not reached; the end marker is only popped on accept
	return res, nil
}

func stackSymbols(stack util.Stack[*Tree]) []string {
	syms := make([]string, len(stack.Of))
	for i := range stack.Of {
		syms[i] = stack.Of[i].Symbol
	}
	return syms
}
