package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dekarrin/llpred/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    Error
		expect string
	}{
		{name: "message only", err: New("bad"), expect: "bad"},
		{name: "cause only", err: New("", ErrNotFound), expect: ErrNotFound.Error()},
		{name: "message and causes", err: New("user", ErrNotFound, ErrDB), expect: "user: " + ErrNotFound.Error()},
		{name: "empty", err: New(""), expect: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.err.Error())
		})
	}
}

func Test_Error_Is(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrNotFound)

	testCases := []struct {
		name   string
		err    error
		target error
		expect bool
	}{
		{name: "direct cause", err: New("x", ErrBadArgument), target: ErrBadArgument, expect: true},
		{name: "second cause", err: WrapDB("x", errors.New("disk")), target: ErrDB, expect: true},
		{name: "error wrapped by cause", err: New("x", wrapped), target: ErrNotFound, expect: true},
		{name: "equal Error", err: New("x", ErrDB), target: New("x", ErrDB), expect: true},
		{name: "not a cause", err: New("x", ErrBadArgument), target: ErrNotFound, expect: false},
		{name: "different message", err: New("x"), target: New("y"), expect: false},
		{name: "Error wrapped by fmt", err: fmt.Errorf("outer: %w", New("x", ErrGrammar)), target: ErrGrammar, expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, errors.Is(tc.err, tc.target))
		})
	}
}

func Test_Error_As_grammarCause(t *testing.T) {
	assert := assert.New(t)

	_, loadErr := grammar.Analyze("S -> a\n -> b\n")
	err := New("", loadErr, ErrGrammar, ErrBadArgument)

	assert.ErrorIs(err, ErrGrammar)
	assert.ErrorIs(err, ErrBadArgument)
	assert.ErrorIs(err, grammar.ErrEmptyHead)

	line, ok := grammar.ErrorLine(err)
	assert.True(ok)
	assert.Equal(2, line)
}
