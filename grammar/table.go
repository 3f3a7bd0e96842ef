package grammar

import (
	"github.com/dekarrin/llpred/internal/util"
	"github.com/dekarrin/rosed"
)

// LL1Table is a predictive parsing table. It maps a non-terminal and a
// lookahead terminal to the production to expand the non-terminal with.
type LL1Table util.Matrix2[string, string, Production]

// NewLL1Table returns an empty table ready for use.
func NewLL1Table() LL1Table {
	return LL1Table(util.NewMatrix2[string, string, Production]())
}

// Set assigns alpha to M[A, a], replacing anything already there.
func (M LL1Table) Set(A string, a string, alpha Production) {
	util.Matrix2[string, string, Production](M).Set(A, a, alpha.Copy())
}

// Get returns the production at M[A, a], or Error if the cell is empty.
func (M LL1Table) Get(A string, a string) Production {
	v := util.Matrix2[string, string, Production](M).Get(A, a)
	if v == nil {
		return Error
	}
	return *v
}

// Has returns whether M[A, a] holds a production.
func (M LL1Table) Has(A string, a string) bool {
	return util.Matrix2[string, string, Production](M).Has(A, a)
}

// Len returns the number of filled cells.
func (M LL1Table) Len() int {
	return util.Matrix2[string, string, Production](M).Len()
}

// NonTerminals returns all non-terminals used as the X keys for values in this
// table.
func (M LL1Table) NonTerminals() []string {
	return util.OrderedKeys(M)
}

// Terminals returns all terminals used as the Y keys for values in this table.
func (M LL1Table) Terminals() []string {
	termSet := map[string]bool{}

	for k := range M {
		for term := range M[k] {
			termSet[term] = true
		}
	}

	return util.OrderedKeys(termSet)
}

// String renders every filled row and column of M as a text table.
func (M LL1Table) String() string {
	return M.Render(M.NonTerminals(), M.Terminals(), 80)
}

// Render gives M as a bordered text table no wider than width, with the given
// non-terminals as rows and the given terminals as columns. Empty cells are
// left blank. The terminal row is not laid out as a header so that terminals
// keep their case.
func (M LL1Table) Render(nonTerminals, terminals []string, width int) string {
	data := [][]string{}

	topRow := []string{""}
	topRow = append(topRow, terminals...)
	data = append(data, topRow)

	for _, A := range nonTerminals {
		dataRow := []string{A}
		for _, a := range terminals {
			var cell string
			if M.Has(A, a) {
				cell = A + " -> " + M.Get(A, a).String()
			}
			dataRow = append(dataRow, cell)
		}
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders: true,
		}).
		String()
}

// LL1Table builds the predictive parsing table for g from its converged FIRST
// and FOLLOW sets.
//
// For each production A -> α, A -> α is added to M[A, a] for each terminal a
// in FIRST(α), and if α is nullable, also to M[A, b] for each terminal b in
// FOLLOW(A) (which covers $ as well).
//
// A cell that is claimed by a second, different production is a conflict. The
// table keeps the first production written and the conflict is recorded with
// every production that competed for the cell. A grammar is LL(1) if and only
// if no conflicts are returned.
func (g Grammar) LL1Table(first FirstSets, follow FollowSets) (LL1Table, Conflicts) {
	M := NewLL1Table()
	var conflicts Conflicts
	conflictIdx := map[[2]string]int{}

	assign := func(A, a string, alpha Production) {
		if !M.Has(A, a) {
			M.Set(A, a, alpha)
			return
		}

		existing := M.Get(A, a)
		if existing.Equal(alpha) {
			return
		}

		cell := [2]string{A, a}
		idx, ok := conflictIdx[cell]
		if !ok {
			conflicts = append(conflicts, Conflict{
				NonTerminal: A,
				Terminal:    a,
				Productions: []Production{existing.Copy()},
			})
			idx = len(conflicts) - 1
			conflictIdx[cell] = idx
		}

		for _, p := range conflicts[idx].Productions {
			if p.Equal(alpha) {
				return
			}
		}
		conflicts[idx].Productions = append(conflicts[idx].Productions, alpha.Copy())
	}

	for _, r := range g.rules {
		A := r.NonTerminal
		for _, alpha := range r.Productions {
			firstAlpha, nullable := first.OfSequence(alpha)

			for _, a := range firstAlpha.Sorted() {
				assign(A, a, alpha)
			}

			if nullable {
				for _, b := range follow[A].Sorted() {
					assign(A, b, alpha)
				}
			}
		}
	}

	return M, conflicts
}
