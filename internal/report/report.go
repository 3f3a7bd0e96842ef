// Package report builds a serializable summary of a grammar analysis and any
// derivations run with it, and renders it as text, JSON, or YAML.
package report

import (
	"errors"
	"strings"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/parse"
)

// Report is everything known about one analyzed grammar. It holds only plain
// data so it can be marshaled as-is.
type Report struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Start is the start symbol of the grammar.
	Start string `json:"start" yaml:"start"`

	// LL1 is whether the table was built without any conflicts.
	LL1 bool `json:"ll1" yaml:"ll1"`

	// Original is the rules as loaded, one line per non-terminal.
	Original []string `json:"original" yaml:"original"`

	// Grammar is the rules after left recursion was removed, one line per
	// non-terminal.
	Grammar []string `json:"grammar" yaml:"grammar"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// NonTerminals has the alternatives and sets of every non-terminal of
	// Grammar, in declaration order.
	NonTerminals []NonTerminal `json:"non_terminals" yaml:"non_terminals"`

	// Terminals are the columns of the table, with the end marker last.
	Terminals []string `json:"terminals" yaml:"terminals"`

	// Table has the filled cells of the table only.
	Table []Cell `json:"table" yaml:"table"`

	Conflicts []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`

	Derivations []Derivation `json:"derivations,omitempty" yaml:"derivations,omitempty"`
}

// Warning is a line of the grammar text that was skipped.
type Warning struct {
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

// NonTerminal is one non-terminal with its alternatives and sets.
type NonTerminal struct {
	Name         string   `json:"name" yaml:"name"`
	Alternatives []string `json:"alternatives" yaml:"alternatives"`
	First        []string `json:"first" yaml:"first"`
	Follow       []string `json:"follow" yaml:"follow"`
}

// Cell is a single filled cell of the table.
type Cell struct {
	NonTerminal string `json:"non_terminal" yaml:"non_terminal"`
	Terminal    string `json:"terminal" yaml:"terminal"`
	Production  string `json:"production" yaml:"production"`
}

// Conflict is a cell that more than one production claimed. The first of
// Productions is the one in the table.
type Conflict struct {
	NonTerminal string   `json:"non_terminal" yaml:"non_terminal"`
	Terminal    string   `json:"terminal" yaml:"terminal"`
	Productions []string `json:"productions" yaml:"productions"`
}

// Derivation is the outcome of deriving one input.
type Derivation struct {
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Input    []string `json:"input" yaml:"input"`
	Accepted bool     `json:"accepted" yaml:"accepted"`

	// Expected is whether the input was expected to be accepted, if there was
	// an expectation.
	Expected *bool `json:"expected,omitempty" yaml:"expected,omitempty"`

	// ErrorKind is the kind of the failing step, such as "Mismatch". It is
	// empty if the input was accepted.
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`

	Steps []Step `json:"steps" yaml:"steps"`
	Tree  *Node  `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// Step is one step of a derivation trace.
type Step struct {
	Stack  []string `json:"stack" yaml:"stack"`
	Input  []string `json:"input" yaml:"input"`
	Action string   `json:"action" yaml:"action"`
}

// Node is a node of a parse tree.
type Node struct {
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Terminal bool    `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// New creates a Report from a completed analysis.
func New(name string, a grammar.Analysis) Report {
	r := Report{
		Name:      name,
		Start:     a.Grammar.Start,
		LL1:       a.IsLL1(),
		Original:  ruleLines(a.Original),
		Grammar:   ruleLines(a.Grammar),
		Terminals: a.TableTerminals(),
	}

	for _, w := range a.Warnings {
		r.Warnings = append(r.Warnings, Warning{Line: w.Line, Text: w.Text, Reason: w.Reason})
	}

	nts := a.Grammar.NonTerminals()
	for _, nt := range nts {
		rule := a.Grammar.Rule(nt)
		entry := NonTerminal{
			Name:         nt,
			Alternatives: make([]string, len(rule.Productions)),
			First:        a.First[nt].Sorted(),
			Follow:       a.Follow[nt].Sorted(),
		}
		for i := range rule.Productions {
			entry.Alternatives[i] = rule.Productions[i].String()
		}
		r.NonTerminals = append(r.NonTerminals, entry)
	}

	r.Table = []Cell{}
	for _, nt := range nts {
		for _, term := range r.Terminals {
			if a.Table.Has(nt, term) {
				r.Table = append(r.Table, Cell{
					NonTerminal: nt,
					Terminal:    term,
					Production:  a.Table.Get(nt, term).String(),
				})
			}
		}
	}

	for _, c := range a.Conflicts {
		conf := Conflict{
			NonTerminal: c.NonTerminal,
			Terminal:    c.Terminal,
			Productions: make([]string, len(c.Productions)),
		}
		for i := range c.Productions {
			conf.Productions[i] = c.Productions[i].String()
		}
		r.Conflicts = append(r.Conflicts, conf)
	}

	return r
}

// NewDerivation creates a Derivation from the result of deriving tokens and the
// error returned with it, if any.
func NewDerivation(label string, tokens []string, res parse.Result, err error) Derivation {
	d := Derivation{
		Label:    label,
		Input:    append([]string{}, tokens...),
		Accepted: res.Accepted,
		Steps:    []Step{},
	}

	if err != nil {
		d.Error = err.Error()
		var derr *parse.DerivationError
		if errors.As(err, &derr) {
			d.ErrorKind = derr.Kind.String()
		}
	}

	for _, s := range res.Trace {
		d.Steps = append(d.Steps, Step{
			Stack:  append([]string{}, s.Stack...),
			Input:  append([]string{}, s.Input...),
			Action: s.Action.String(),
		})
	}

	if res.Tree != nil {
		d.Tree = nodeFromTree(res.Tree)
	}

	return d
}

// AddDerivation appends d to the derivations of the report.
func (r *Report) AddDerivation(d Derivation) {
	r.Derivations = append(r.Derivations, d)
}

// MetExpectation returns whether the derivation result agrees with what was
// expected of it. A derivation with no expectation always meets it.
func (d Derivation) MetExpectation() bool {
	if d.Expected == nil {
		return true
	}
	return *d.Expected == d.Accepted
}

// Leaves returns the leaf symbols of the node from left to right, skipping
// epsilon leaves.
func (n *Node) Leaves() []string {
	return n.toTree().Leaves()
}

// String gives the tree rooted at n in the same leveled form as parse.Tree.
func (n *Node) String() string {
	return n.toTree().String()
}

func (n *Node) toTree() parse.Tree {
	pt := parse.Tree{Symbol: n.Symbol, Terminal: n.Terminal}
	for _, child := range n.Children {
		childTree := child.toTree()
		pt.Children = append(pt.Children, &childTree)
	}
	return pt
}

func nodeFromTree(pt *parse.Tree) *Node {
	n := &Node{Symbol: pt.Symbol, Terminal: pt.Terminal}
	for _, child := range pt.Children {
		n.Children = append(n.Children, nodeFromTree(child))
	}
	return n
}

func ruleLines(g grammar.Grammar) []string {
	s := g.String()
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
