package grammar

// LeftRecursionMarker is appended to the name of a non-terminal to name the
// new non-terminal created when its immediate left recursion is removed.
const LeftRecursionMarker = "'"

// RemoveLeftRecursion returns a new Grammar equivalent to g but with all
// immediate left recursion removed. Indirect left recursion is left as-is.
//
// Each head is visited in declaration order. The alternatives of a head A that
// is immediately left-recursive are grouped as
//
//	A -> Aα₁ | Aα₂ | ... | Aαₘ | β₁ | β₂ | ... | βₙ
//
// where no βᵢ starts with A, and are then replaced with
//
//	A  -> β₁A' | β₂A' | ... | βₙA'
//	A' -> α₁A' | α₂A' | ... | αₘA' | ε
//
// with A' placed immediately after A. A βᵢ that is ε becomes A' alone. If
// every alternative of A is left-recursive, A is left with no alternatives.
//
// If A' is already a symbol of the grammar, a *NameCollisionError is returned.
func (g Grammar) RemoveLeftRecursion() (Grammar, error) {
	g = g.Copy()
	g.classify()

	// iterating over a pre-retrieved list of nonterminals so that inserted A'
	// rules are not themselves visited.
	for _, A := range g.NonTerminals() {
		ARule := g.Rule(A)

		alphas := []Production{}
		betas := []Production{}
		for _, p := range ARule.Productions {
			if p[0] == A {
				alphas = append(alphas, p[1:].Copy())
			} else {
				betas = append(betas, p.Copy())
			}
		}

		if len(alphas) < 1 {
			continue
		}

		APrime := A + LeftRecursionMarker
		if g.Kind(APrime) != Undefined {
			return Grammar{}, &NameCollisionError{Head: A, Synthesized: APrime}
		}

		newARule := Rule{NonTerminal: A}
		for _, b := range betas {
			if b.IsEpsilon() {
				newARule.Productions = append(newARule.Productions, Production{APrime})
			} else {
				newARule.Productions = append(newARule.Productions, append(b, APrime))
			}
		}

		newAPrimeRule := Rule{NonTerminal: APrime}
		for _, a := range alphas {
			newAPrimeRule.Productions = append(newAPrimeRule.Productions, append(a, APrime))
		}
		newAPrimeRule.Productions = append(newAPrimeRule.Productions, EpsilonProduction.Copy())

		AIndex := g.rulesByName[A]
		g.rules[AIndex] = newARule
		g.insertRule(newAPrimeRule, AIndex)
	}

	// new bodies may reference symbols that were not visible before
	g.classify()

	return g, nil
}

// HasImmediateLeftRecursion returns whether any alternative of any head in g
// begins with that same head.
func (g Grammar) HasImmediateLeftRecursion() bool {
	for _, r := range g.rules {
		for _, p := range r.Productions {
			if len(p) > 0 && p[0] == r.NonTerminal {
				return true
			}
		}
	}
	return false
}
