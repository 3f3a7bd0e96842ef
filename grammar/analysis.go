package grammar

import (
	"fmt"
)

// Analysis is the result of a full analysis run on some grammar text. It owns
// every artifact derived for the run; nothing in it is shared with any other
// Analysis.
type Analysis struct {
	// Source is the rule text the analysis was run on.
	Source string

	// Original is the grammar as loaded, before left recursion removal.
	Original Grammar

	// Grammar is the grammar with immediate left recursion removed. All sets
	// and the table are computed from it.
	Grammar Grammar

	// Warnings holds every line of Source that was skipped because it could not
	// be read as a rule.
	Warnings []MalformedRuleLine

	First  FirstSets
	Follow FollowSets
	Table  LL1Table

	// Conflicts has every cell of Table that more than one production claimed.
	// If it is empty, the grammar is LL(1).
	Conflicts Conflicts
}

// Analyze runs the full pipeline on rule text: load, remove immediate left
// recursion, compute FIRST then FOLLOW, and build the LL(1) table.
//
// Errors from loading or from left recursion removal stop the pipeline and are
// returned. Table conflicts do not; they are recorded in the returned Analysis
// so both the table and the conflicts can be shown.
func Analyze(text string) (Analysis, error) {
	a := Analysis{Source: text}

	var err error
	a.Original, a.Warnings, err = Load(text)
	if err != nil {
		return a, fmt.Errorf("load grammar: %w", err)
	}

	a.Grammar, err = a.Original.RemoveLeftRecursion()
	if err != nil {
		return a, fmt.Errorf("remove left recursion: %w", err)
	}

	a.First = a.Grammar.FirstSets()
	a.Follow = a.Grammar.FollowSets(a.First)
	a.Table, a.Conflicts = a.Grammar.LL1Table(a.First, a.Follow)

	return a, nil
}

// IsLL1 returns whether the table was built without conflicts.
func (a Analysis) IsLL1() bool {
	return len(a.Conflicts) == 0
}

// TableTerminals returns the terminals to use as table columns: every terminal
// of the grammar in alphabetical order, with EndMarker last.
func (a Analysis) TableTerminals() []string {
	var terms []string
	for _, t := range a.Grammar.Terminals() {
		if t != EndMarker {
			terms = append(terms, t)
		}
	}
	return append(terms, EndMarker)
}
