package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load(t *testing.T) {
	testCases := []struct {
		name          string
		text          string
		expect        string
		expectStart   string
		expectTerms   []string
		expectNonTerm []string
		expectWarns   []int
		expectErr     error
	}{
		{
			name:          "single rule",
			text:          "S -> a S | b",
			expect:        "S -> a S | b",
			expectStart:   "S",
			expectTerms:   []string{"$", "a", "b"},
			expectNonTerm: []string{"S"},
		},
		{
			name: "head declared over multiple lines",
			text: "S -> A b\n" +
				"A -> a\n" +
				"S -> c\n",
			expect:        "S -> A b | c\nA -> a",
			expectStart:   "S",
			expectTerms:   []string{"$", "a", "b", "c"},
			expectNonTerm: []string{"S", "A"},
		},
		{
			name: "non-terminal used before its rule is still a non-terminal",
			text: "S -> X y\n" +
				"X -> x",
			expect:        "S -> X y\nX -> x",
			expectStart:   "S",
			expectTerms:   []string{"$", "x", "y"},
			expectNonTerm: []string{"S", "X"},
		},
		{
			name:          "epsilon alternative",
			text:          "A -> a A | ε",
			expect:        "A -> a A | ε",
			expectStart:   "A",
			expectTerms:   []string{"$", "a"},
			expectNonTerm: []string{"A"},
		},
		{
			name: "blank lines and extra whitespace are ignored",
			text: "\n   \n  E   ->  E + T|T  \r\n\nT -> id\n",
			expect: "E -> E + T | T\n" +
				"T -> id",
			expectStart:   "E",
			expectTerms:   []string{"$", "+", "id"},
			expectNonTerm: []string{"E", "T"},
		},
		{
			name: "line without separator is reported and skipped",
			text: "S -> a\n" +
				"this is not a rule\n" +
				"S -> b",
			expect:        "S -> a | b",
			expectStart:   "S",
			expectTerms:   []string{"$", "a", "b"},
			expectNonTerm: []string{"S"},
			expectWarns:   []int{2},
		},
		{
			name: "line with two separators is reported and skipped",
			text: "S -> a -> b\n" +
				"S -> c",
			expect:        "S -> c",
			expectStart:   "S",
			expectTerms:   []string{"$", "c"},
			expectNonTerm: []string{"S"},
			expectWarns:   []int{1},
		},
		{
			name:      "empty head",
			text:      "S -> a\n -> b",
			expectErr: ErrEmptyHead,
		},
		{
			name:      "empty alternative",
			text:      "S -> a | | b",
			expectErr: ErrEmptyAlternative,
		},
		{
			name:      "empty body",
			text:      "S -> ",
			expectErr: ErrEmptyAlternative,
		},
		{
			name:      "epsilon with other symbols",
			text:      "S -> a ε",
			expectErr: ErrMisplacedEpsilon,
		},
		{
			name:      "end marker in body",
			text:      "S -> a $",
			expectErr: ErrReservedSymbol,
		},
		{
			name:      "no rules",
			text:      "\n\n",
			expectErr: ErrEmptyGrammar,
		},
		{
			name:        "only malformed lines",
			text:        "nothing here",
			expectErr:   ErrEmptyGrammar,
			expectWarns: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, warns, err := Load(tc.text)

			warnLines := []int{}
			for _, w := range warns {
				warnLines = append(warnLines, w.Line)
			}
			if tc.expectWarns == nil {
				tc.expectWarns = []int{}
			}
			assert.Equal(tc.expectWarns, warnLines)

			if tc.expectErr != nil {
				assert.Error(err)
				assert.True(errors.Is(err, tc.expectErr), "expected error to match %q but got: %v", tc.expectErr, err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.Equal(tc.expectStart, actual.Start)
			assert.Equal(tc.expectTerms, actual.Terminals())
			assert.Equal(tc.expectNonTerm, actual.NonTerminals())
		})
	}
}

func Test_Load_errorHasLineNumber(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Load("S -> a\nA -> b\nB -> c ε\n")

	assert.EqualError(err, "line 3: '"+Epsilon+"' must be the only symbol of its alternative")
	line, ok := ErrorLine(err)
	assert.True(ok)
	assert.Equal(3, line)
	assert.ErrorIs(err, ErrMisplacedEpsilon)
}

func Test_ErrorLine_notTiedToLine(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Load("# only a comment\n")

	assert.ErrorIs(err, ErrEmptyGrammar)
	_, ok := ErrorLine(err)
	assert.False(ok)
}

func Test_Load_normalizesText(t *testing.T) {
	assert := assert.New(t)

	// "é" written as "e" followed by a combining acute accent
	decomposed := "S -> cafe\u0301"
	composed := "caf\u00e9"

	g, _, err := Load(decomposed)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Terminal, g.Kind(composed))
}

func Test_Grammar_Kind(t *testing.T) {
	g := MustLoad("S -> A b | ε\nA -> a")

	testCases := []struct {
		name   string
		sym    string
		expect SymbolKind
	}{
		{name: "start symbol", sym: "S", expect: NonTerminal},
		{name: "other head", sym: "A", expect: NonTerminal},
		{name: "terminal", sym: "b", expect: Terminal},
		{name: "end marker", sym: EndMarker, expect: Terminal},
		{name: "epsilon", sym: Epsilon, expect: EpsilonSymbol},
		{name: "unknown", sym: "q", expect: Undefined},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, g.Kind(tc.sym))
		})
	}
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   func() Grammar
		expectErr bool
	}{
		{
			name:    "loaded grammar is valid",
			grammar: func() Grammar { return MustLoad("S -> a S | b") },
		},
		{
			name:      "empty grammar",
			grammar:   func() Grammar { return Grammar{} },
			expectErr: true,
		},
		{
			name: "head with no productions",
			grammar: func() Grammar {
				g := MustLoad("S -> a")
				g.declare("A")
				return g
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.grammar().Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_Copy(t *testing.T) {
	assert := assert.New(t)

	g := MustLoad("S -> a S | b")
	g2 := g.Copy()
	g2.AddRule("S", Production{"c"})

	assert.Equal("S -> a S | b", g.String())
	assert.Equal("S -> a S | b | c", g2.String())
	assert.False(g.Equal(g2))
	assert.True(g.Equal(g.Copy()))
}
