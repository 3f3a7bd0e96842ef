package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyGrammar     = errors.New("grammar does not contain any rules")
	ErrEmptyHead        = errors.New("rule has no non-terminal before '->'")
	ErrEmptyAlternative = errors.New("rule has an alternative with no symbols")
	ErrMisplacedEpsilon = errors.New("'" + Epsilon + "' must be the only symbol of its alternative")
	ErrReservedSymbol   = errors.New("'" + EndMarker + "' is reserved for the end of input")
	ErrNameCollision    = errors.New("synthesized non-terminal name already exists")
	ErrNotLL1           = errors.New("grammar is not LL(1)")
)

// MalformedRuleLine is a line of grammar text that could not be read as a rule.
// Loading does not stop when one is found; they are returned to the caller as
// warnings so it can decide whether to continue.
type MalformedRuleLine struct {
	// Line is the 1-based line number within the loaded text.
	Line int

	// Text is the content of the line as it was given.
	Text string

	// Reason says what is wrong with the line.
	Reason string
}

func (m MalformedRuleLine) Error() string {
	return fmt.Sprintf("line %d: %s: %q", m.Line, m.Reason, m.Text)
}

// lineError is a fatal problem with a single line of grammar text.
type lineError struct {
	line  int
	cause error
}

func (e lineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.cause.Error())
}

func (e lineError) Unwrap() error {
	return e.cause
}

// ErrorLine gives the 1-based line of grammar text that err is about. ok is
// false if err is not tied to a single line.
func ErrorLine(err error) (line int, ok bool) {
	var le lineError
	if errors.As(err, &le) {
		return le.line, true
	}
	return 0, false
}

// NameCollisionError is returned by RemoveLeftRecursion when the name it would
// give the new non-terminal for a head is already used in the grammar.
type NameCollisionError struct {
	Head        string
	Synthesized string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("removing left recursion from %q: %q already exists in the grammar", e.Head, e.Synthesized)
}

func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// Conflict is a single LL(1) table cell that more than one production claims.
type Conflict struct {
	NonTerminal string
	Terminal    string

	// Productions has every competing production in the order they were
	// assigned to the cell. The first is the one the table kept.
	Productions []Production
}

func (c Conflict) String() string {
	prods := make([]string, len(c.Productions))
	for i := range c.Productions {
		prods[i] = c.NonTerminal + " -> " + c.Productions[i].String()
	}
	return fmt.Sprintf("M[%s, %s]: %s", c.NonTerminal, c.Terminal, strings.Join(prods, " / "))
}

// Conflicts is every conflict found while building a table.
type Conflicts []Conflict

// Err returns a *ConflictError holding the conflicts, or nil if there are
// none.
func (cs Conflicts) Err() error {
	if len(cs) < 1 {
		return nil
	}
	return &ConflictError{Conflicts: cs}
}

// Has returns whether there is a conflict recorded for cell (A, a).
func (cs Conflicts) Has(A, a string) bool {
	for i := range cs {
		if cs[i].NonTerminal == A && cs[i].Terminal == a {
			return true
		}
	}
	return false
}

// ConflictError reports that a grammar is not LL(1) along with every
// conflicting cell. errors.Is(err, ErrNotLL1) is true for it.
type ConflictError struct {
	Conflicts Conflicts
}

func (e *ConflictError) Error() string {
	lines := make([]string, len(e.Conflicts))
	for i := range e.Conflicts {
		lines[i] = e.Conflicts[i].String()
	}

	noun := "conflicts"
	if len(lines) == 1 {
		noun = "conflict"
	}
	return fmt.Sprintf("%s: %d %s: %s", ErrNotLL1.Error(), len(lines), noun, strings.Join(lines, "; "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrNotLL1
}
