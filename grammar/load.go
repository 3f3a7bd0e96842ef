package grammar

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RuleSeparator divides the head of a rule from its alternatives.
const RuleSeparator = "->"

// AlternativeSeparator divides the alternatives of a rule.
const AlternativeSeparator = "|"

// Load reads a Grammar from rule text. Each non-blank line must be of the form
// "Head -> alt1 | alt2 | ...", where each alternative is whitespace-separated
// symbol names and "ε" alone denotes the empty alternative. A head may be given
// on more than one line; later alternatives are appended to earlier ones. The
// head of the first rule is the start symbol.
//
// Lines that cannot be read as rules at all are not fatal. They are skipped
// and returned as warnings. Problems within a rule line, or text with no rules
// at all, are returned as an error.
//
// Terminals are decided only once every line has been read: any body symbol
// that is never used as a head is a terminal. EndMarker is always a terminal.
func Load(text string) (Grammar, []MalformedRuleLine, error) {
	var g Grammar
	var warns []MalformedRuleLine

	text = norm.NFC.String(text)
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lineNum := i + 1
		line = strings.TrimRight(line, "\r")

		if strings.TrimSpace(line) == "" {
			continue
		}

		sepCount := strings.Count(line, RuleSeparator)
		if sepCount < 1 {
			warns = append(warns, MalformedRuleLine{Line: lineNum, Text: line, Reason: "missing '" + RuleSeparator + "' separator"})
			continue
		} else if sepCount > 1 {
			warns = append(warns, MalformedRuleLine{Line: lineNum, Text: line, Reason: "more than one '" + RuleSeparator + "' separator"})
			continue
		}

		sides := strings.SplitN(line, RuleSeparator, 2)
		head := strings.TrimSpace(sides[0])

		if head == "" {
			return Grammar{}, warns, lineError{line: lineNum, cause: ErrEmptyHead}
		}
		if len(strings.Fields(head)) > 1 {
			warns = append(warns, MalformedRuleLine{Line: lineNum, Text: line, Reason: "head is more than one symbol"})
			continue
		}
		if head == EndMarker {
			return Grammar{}, warns, lineError{line: lineNum, cause: ErrReservedSymbol}
		}
		if head == Epsilon {
			return Grammar{}, warns, lineError{line: lineNum, cause: ErrMisplacedEpsilon}
		}

		alts, err := parseAlternatives(sides[1])
		if err != nil {
			return Grammar{}, warns, lineError{line: lineNum, cause: err}
		}

		for _, p := range alts {
			g.AddRule(head, p)
		}
	}

	if len(g.rules) < 1 {
		return Grammar{}, warns, ErrEmptyGrammar
	}

	g.classify()

	return g, warns, nil
}

// MustLoad is like Load but panics if there is an error or any line is
// malformed. It is intended for grammars that are fixed in code.
func MustLoad(text string) Grammar {
	g, warns, err := Load(text)
	if err != nil {
		panic(err.Error())
	}
	if len(warns) > 0 {
		panic(warns[0].Error())
	}
	return g
}

// parseAlternatives splits the body of a rule into its productions.
func parseAlternatives(body string) ([]Production, error) {
	var prods []Production

	for _, alt := range strings.Split(body, AlternativeSeparator) {
		symbols := strings.Fields(alt)

		if len(symbols) < 1 {
			return nil, ErrEmptyAlternative
		}

		for _, sym := range symbols {
			if sym == EndMarker {
				return nil, ErrReservedSymbol
			}
			if sym == Epsilon && len(symbols) > 1 {
				return nil, ErrMisplacedEpsilon
			}
		}

		prods = append(prods, Production(symbols))
	}

	return prods, nil
}
