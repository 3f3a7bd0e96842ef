package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_LL1Table(t *testing.T) {
	testCases := []struct {
		name            string
		grammar         string
		expect          map[[2]string]string
		expectConflicts []string
	}{
		{
			name:    "expression grammar",
			grammar: exprGrammar,
			expect: map[[2]string]string{
				{"E", "id"}: "T E'",
				{"E", "("}:  "T E'",
				{"E'", "+"}: "+ T E'",
				{"E'", ")"}: "ε",
				{"E'", "$"}: "ε",
				{"T", "id"}: "F T'",
				{"T", "("}:  "F T'",
				{"T'", "*"}: "* F T'",
				{"T'", "+"}: "ε",
				{"T'", ")"}: "ε",
				{"T'", "$"}: "ε",
				{"F", "id"}: "id",
				{"F", "("}:  "( E )",
			},
		},
		{
			name:    "right recursion",
			grammar: "S -> a S | b",
			expect: map[[2]string]string{
				{"S", "a"}: "a S",
				{"S", "b"}: "b",
			},
		},
		{
			name:    "common prefix conflicts",
			grammar: "S -> a | a b",
			expect: map[[2]string]string{
				{"S", "a"}: "a",
			},
			expectConflicts: []string{"M[S, a]: S -> a / S -> a b"},
		},
		{
			name:    "three-way conflict is one record",
			grammar: "S -> a | a b | a c",
			expect: map[[2]string]string{
				{"S", "a"}: "a",
			},
			expectConflicts: []string{"M[S, a]: S -> a / S -> a b / S -> a c"},
		},
		{
			name: "nullable alternatives conflict through follow",
			grammar: "S -> A a\n" +
				"A -> a | ε",
			expect: map[[2]string]string{
				{"S", "a"}: "A a",
				{"A", "a"}: "a",
			},
			expectConflicts: []string{"M[A, a]: A -> a / A -> ε"},
		},
		{
			name:    "duplicate alternative is not a conflict",
			grammar: "S -> a\nS -> a",
			expect: map[[2]string]string{
				{"S", "a"}: "a",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := MustLoad(tc.grammar).RemoveLeftRecursion()
			if !assert.NoError(err) {
				return
			}
			first := g.FirstSets()
			follow := g.FollowSets(first)

			M, conflicts := g.LL1Table(first, follow)

			assert.Equal(len(tc.expect), M.Len())
			for cell, prod := range tc.expect {
				if assert.True(M.Has(cell[0], cell[1]), "M[%s, %s] is empty", cell[0], cell[1]) {
					assert.Equal(prod, M.Get(cell[0], cell[1]).String(), "M[%s, %s]", cell[0], cell[1])
				}
			}

			actualConflicts := []string{}
			for _, c := range conflicts {
				actualConflicts = append(actualConflicts, c.String())
			}
			if tc.expectConflicts == nil {
				tc.expectConflicts = []string{}
			}
			assert.Equal(tc.expectConflicts, actualConflicts)
		})
	}
}

func Test_LL1Table_Get_empty(t *testing.T) {
	assert := assert.New(t)

	M := NewLL1Table()
	M.Set("S", "a", Production{"a"})

	assert.True(M.Get("S", "b").Equal(Error))
	assert.True(M.Get("X", "a").Equal(Error))
	assert.Equal([]string{"S"}, M.NonTerminals())
	assert.Equal([]string{"a"}, M.Terminals())
}

func Test_Conflicts_Err(t *testing.T) {
	assert := assert.New(t)

	var none Conflicts
	assert.NoError(none.Err())

	cs := Conflicts{{NonTerminal: "S", Terminal: "a", Productions: []Production{{"a"}, {"a", "b"}}}}
	err := cs.Err()

	assert.True(errors.Is(err, ErrNotLL1))
	assert.EqualError(err, "grammar is not LL(1): 1 conflict: M[S, a]: S -> a / S -> a b")
	assert.True(cs.Has("S", "a"))
	assert.False(cs.Has("S", "b"))
}

func Test_Analyze(t *testing.T) {
	testCases := []struct {
		name         string
		text         string
		expectLL1    bool
		expectWarns  int
		expectErr    error
		expectColumn []string
	}{
		{
			name:         "expression grammar",
			text:         exprGrammar,
			expectLL1:    true,
			expectColumn: []string{"(", ")", "*", "+", "id", "$"},
		},
		{
			name:         "conflicts do not stop analysis",
			text:         "S -> a | a b",
			expectLL1:    false,
			expectColumn: []string{"a", "b", "$"},
		},
		{
			name:         "warnings are kept",
			text:         "S -> a\nnot a rule",
			expectLL1:    true,
			expectWarns:  1,
			expectColumn: []string{"a", "$"},
		},
		{
			name:      "load error stops analysis",
			text:      "S -> a ε",
			expectErr: ErrMisplacedEpsilon,
		},
		{
			name:      "collision stops analysis",
			text:      "A -> A x | b\nA' -> y",
			expectErr: ErrNameCollision,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Analyze(tc.text)
			if tc.expectErr != nil {
				assert.True(errors.Is(err, tc.expectErr), "expected error to match %q but got: %v", tc.expectErr, err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectLL1, actual.IsLL1())
			assert.Len(actual.Warnings, tc.expectWarns)
			assert.Equal(tc.expectColumn, actual.TableTerminals())
			assert.Equal(tc.text, actual.Source)
		})
	}
}

func Test_LL1Table_String_keepsTerminalCase(t *testing.T) {
	assert := assert.New(t)

	M := NewLL1Table()
	M.Set("S", "id", Production{"id"})
	M.Set("S", "Num", Production{"Num"})

	actual := M.String()

	assert.Contains(actual, "| id ")
	assert.Contains(actual, "| Num ")
	assert.NotContains(actual, "ID")
	assert.NotContains(actual, "NUM")
}
