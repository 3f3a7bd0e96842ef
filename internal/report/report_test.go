package report

import (
	"encoding/json"
	"testing"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/parse"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

const exprGrammar = "E -> E + T | T\nT -> T * F | F\nF -> ( E ) | id"

func analyze(t *testing.T, text string) grammar.Analysis {
	a, err := grammar.Analyze(text)
	if err != nil {
		t.Fatalf("analyze %q: %v", text, err)
	}
	return a
}

func Test_New(t *testing.T) {
	assert := assert.New(t)

	r := New("expr", analyze(t, exprGrammar))

	assert.Equal("expr", r.Name)
	assert.Equal("E", r.Start)
	assert.True(r.LL1)
	assert.Equal([]string{"E -> E + T | T", "T -> T * F | F", "F -> ( E ) | id"}, r.Original)
	assert.Equal([]string{
		"E -> T E'",
		"E' -> + T E' | ε",
		"T -> F T'",
		"T' -> * F T' | ε",
		"F -> ( E ) | id",
	}, r.Grammar)
	assert.Equal([]string{"(", ")", "*", "+", "id", "$"}, r.Terminals)
	assert.Len(r.Table, 13)
	assert.Empty(r.Conflicts)

	if assert.Len(r.NonTerminals, 5) {
		ePrime := r.NonTerminals[1]
		assert.Equal("E'", ePrime.Name)
		assert.Equal([]string{"+ T E'", "ε"}, ePrime.Alternatives)
		assert.Equal([]string{"+", "ε"}, ePrime.First)
		assert.Equal([]string{"$", ")"}, ePrime.Follow)
	}

	// cells are in row-major order
	assert.Equal(Cell{NonTerminal: "E", Terminal: "(", Production: "T E'"}, r.Table[0])
}

func Test_New_conflictsAndWarnings(t *testing.T) {
	assert := assert.New(t)

	r := New("", analyze(t, "S -> a | a b\nnonsense"))

	assert.False(r.LL1)
	assert.Equal([]Conflict{{NonTerminal: "S", Terminal: "a", Productions: []string{"a", "a b"}}}, r.Conflicts)
	if assert.Len(r.Warnings, 1) {
		assert.Equal(2, r.Warnings[0].Line)
		assert.Equal("nonsense", r.Warnings[0].Text)
	}
	assert.Contains(r.ConflictsText(), "M[S, a]: S -> a / S -> a b")
	assert.Contains(r.WarningsText(), "line 2")
}

func Test_NewDerivation(t *testing.T) {
	testCases := []struct {
		name            string
		grammar         string
		input           []string
		expected        *bool
		expectAccepted  bool
		expectKind      string
		expectSteps     int
		expectMet       bool
		expectVerdict   string
		expectTreeLeafs []string
	}{
		{
			name:            "accepted",
			grammar:         exprGrammar,
			input:           []string{"id", "*", "id"},
			expectAccepted:  true,
			expectSteps:     11,
			expectMet:       true,
			expectVerdict:   "ACCEPTED",
			expectTreeLeafs: []string{"id", "*", "id"},
		},
		{
			name:            "mismatch as expected",
			grammar:         "S -> a b",
			input:           []string{"a", "c"},
			expected:        boolPtr(false),
			expectKind:      "Mismatch",
			expectSteps:     3,
			expectMet:       true,
			expectVerdict:   `REJECTED (step 3: expected "b" but got "c") as expected`,
			expectTreeLeafs: []string{"a", "b"},
		},
		{
			name:            "no rule against expectation",
			grammar:         "S -> a S | b",
			input:           []string{"a", "a", "c"},
			expected:        boolPtr(true),
			expectKind:      "NoRule",
			expectSteps:     5,
			expectMet:       false,
			expectVerdict:   `REJECTED (step 5: no rule for S on "c") but was expected to be accepted`,
			expectTreeLeafs: []string{"a", "a", "S"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := analyze(t, tc.grammar)
			res, err := parse.GenerateLL1Parser(a).Derive(tc.input)

			d := NewDerivation("", tc.input, res, err)
			d.Expected = tc.expected

			assert.Equal(tc.input, d.Input)
			assert.Equal(tc.expectAccepted, d.Accepted)
			assert.Equal(tc.expectKind, d.ErrorKind)
			assert.Len(d.Steps, tc.expectSteps)
			assert.Equal(tc.expectMet, d.MetExpectation())
			assert.Equal(tc.expectVerdict, d.Verdict())
			if assert.NotNil(d.Tree) {
				assert.Equal(tc.expectTreeLeafs, d.Tree.Leaves())
				assert.Equal(res.Tree.String(), d.Tree.String())
			}
		})
	}
}

func Test_Report_Render(t *testing.T) {
	a := analyze(t, "S -> a S | b")
	res, err := parse.GenerateLL1Parser(a).Derive([]string{"a", "b"})
	r := New("ab", a)
	r.AddDerivation(NewDerivation("sample", []string{"a", "b"}, res, err))

	t.Run("json", func(t *testing.T) {
		assert := assert.New(t)

		data, err := r.Render(JSON, 80)
		if !assert.NoError(err) {
			return
		}

		var decoded Report
		if !assert.NoError(json.Unmarshal(data, &decoded)) {
			return
		}
		assert.Equal(r, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		assert := assert.New(t)

		data, err := r.Render(YAML, 80)
		if !assert.NoError(err) {
			return
		}

		var decoded Report
		if !assert.NoError(yaml.Unmarshal(data, &decoded)) {
			return
		}
		assert.Equal(r.Grammar, decoded.Grammar)
		assert.Equal(r.Table, decoded.Table)
		if assert.Len(decoded.Derivations, 1) {
			assert.True(decoded.Derivations[0].Accepted)
			assert.Equal("sample", decoded.Derivations[0].Label)
		}
	})

	t.Run("text", func(t *testing.T) {
		assert := assert.New(t)

		data, err := r.Render(Text, 80)
		if !assert.NoError(err) {
			return
		}

		text := string(data)
		assert.Contains(text, "Grammar ab")
		assert.Contains(text, "S -> a S | b")
		assert.Contains(text, "FOLLOW")
		assert.Contains(text, "No conflicts; the grammar is LL(1).")
		assert.Contains(text, `sample: Derivation of "a b"`)
		assert.Contains(text, "ACCEPTED")
		assert.Contains(text, `(TERM "b")`)
	})
}

func Test_ParseFormat(t *testing.T) {
	testCases := []struct {
		input     string
		expect    Format
		expectErr bool
	}{
		{input: "text", expect: Text},
		{input: "", expect: Text},
		{input: "JSON", expect: JSON},
		{input: "yml", expect: YAML},
		{input: "yaml", expect: YAML},
		{input: "xml", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseFormat(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func Test_Report_TableText_keepsTerminalCase(t *testing.T) {
	assert := assert.New(t)

	r := New("expr", analyze(t, exprGrammar))

	text := r.TableText(120)

	assert.Contains(text, "| id ")
	assert.NotContains(text, "ID")
	assert.Contains(text, "F -> id")
}
