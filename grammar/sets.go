package grammar

import (
	"github.com/dekarrin/llpred/internal/util"
)

// FirstSets maps each non-terminal of a grammar to its FIRST set. A set may
// contain Epsilon, meaning the non-terminal can derive the empty string.
type FirstSets map[string]util.StringSet

// FollowSets maps each non-terminal of a grammar to its FOLLOW set. A FOLLOW
// set never contains Epsilon but may contain EndMarker.
type FollowSets map[string]util.StringSet

// Of returns FIRST(X). For any symbol that is not a non-terminal in the sets,
// including terminals and Epsilon itself, this is the set containing only X.
func (first FirstSets) Of(X string) util.StringSet {
	if s, ok := first[X]; ok {
		return s
	}
	return util.StringSetOf([]string{X})
}

// OfSequence returns FIRST of a sequence of symbols, along with whether the
// whole sequence is nullable. Symbols are scanned left to right, adding FIRST
// of each minus Epsilon, and the scan stops at the first symbol that cannot
// derive ε. The returned set never contains Epsilon; an empty sequence is
// nullable and gives an empty set. The nullable alternative [ε] is nullable
// with an empty set.
func (first FirstSets) OfSequence(seq []string) (set util.StringSet, nullable bool) {
	set = util.NewStringSet()

	if Production(seq).IsEpsilon() {
		return set, true
	}

	for _, sym := range seq {
		symFirst := first.Of(sym)
		for k := range symFirst {
			if k != Epsilon {
				set.Add(k)
			}
		}
		if !symFirst.Has(Epsilon) {
			return set, false
		}
	}

	return set, true
}

// FirstSets computes FIRST for every non-terminal of g.
//
// This is a fixed-point iteration: every (head, body) pair is visited in a full
// pass and passes repeat until one makes no change to any set. Sets only grow
// and are bounded by the symbols of g, so this always terminates.
func (g Grammar) FirstSets() FirstSets {
	first := FirstSets{}
	for _, A := range g.NonTerminals() {
		first[A] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false

		for _, r := range g.rules {
			A := r.NonTerminal
			for _, body := range r.Productions {
				seqFirst, nullable := first.OfSequence(body)

				for a := range seqFirst {
					if !first[A].Has(a) {
						first[A].Add(a)
						changed = true
					}
				}
				if nullable && !first[A].Has(Epsilon) {
					first[A].Add(Epsilon)
					changed = true
				}
			}
		}
	}

	return first
}

// FollowSets computes FOLLOW for every non-terminal of g. first must be the
// converged result of g.FirstSets().
//
// FOLLOW(Start) starts with EndMarker. Then, for every position in every body
// where a non-terminal B is followed by some suffix β, FIRST(β) minus ε is
// added to FOLLOW(B), and if β is nullable (including when it is empty)
// FOLLOW of the head is added to FOLLOW(B) as well. Passes repeat until
// nothing changes.
func (g Grammar) FollowSets(first FirstSets) FollowSets {
	follow := FollowSets{}
	for _, A := range g.NonTerminals() {
		follow[A] = util.NewStringSet()
	}
	if _, ok := follow[g.Start]; ok {
		follow[g.Start].Add(EndMarker)
	}

	changed := true
	for changed {
		changed = false

		for _, r := range g.rules {
			A := r.NonTerminal
			for _, body := range r.Productions {
				if body.IsEpsilon() {
					continue
				}

				for i, B := range body {
					if !g.IsNonTerminal(B) {
						continue
					}

					suffixFirst, nullable := first.OfSequence(body[i+1:])

					add := suffixFirst
					if nullable {
						add = util.NewStringSet(suffixFirst, follow[A])
					}

					for b := range add {
						if !follow[B].Has(b) {
							follow[B].Add(b)
							changed = true
						}
					}
				}
			}
		}
	}

	return follow
}
