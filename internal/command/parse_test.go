package command

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "tokens to derive", input: "id + id", expect: Command{Verb: VerbDerive, Tokens: []string{"id", "+", "id"}}},
		{name: "quit", input: ":quit", expect: Command{Verb: VerbQuit}},
		{name: "quit alias", input: ":Q", expect: Command{Verb: VerbQuit}},
		{name: "table", input: " :table ", expect: Command{Verb: VerbTable}},
		{name: "sets by follow alias", input: ":follow", expect: Command{Verb: VerbSets}},
		{name: "help with topic", input: ":help :table", expect: Command{Verb: VerbHelp, Tokens: []string{"TABLE"}}},
		{name: "samples with labels", input: ":samples sum dangling", expect: Command{Verb: VerbSamples, Tokens: []string{"sum", "dangling"}}},
		{name: "samples with quoted label", input: `:samples "two words" sum`, expect: Command{Verb: VerbSamples, Tokens: []string{"two words", "sum"}}},
		{name: "samples with unclosed quote", input: `:samples "two words`, expectErr: true},
		{name: "explicit derive", input: ":derive :x y", expect: Command{Verb: VerbDerive, Tokens: []string{":x", "y"}}},
		{name: "explicit derive of empty input", input: ":derive", expect: Command{Verb: VerbDerive, Tokens: []string{}}},
		{name: "unknown command", input: ":frobnicate", expectErr: true},
		{name: "bare prefix", input: ":", expectErr: true},
		{name: "arguments to argless command", input: ":quit now", expectErr: true},
		{name: "end marker in input", input: "a $", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseCommand(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

type linesReader struct {
	lines []string
}

func (lr *linesReader) ReadCommand() (string, error) {
	if len(lr.lines) < 1 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *linesReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	out := bufio.NewWriter(&sb)
	in := &linesReader{lines: []string{":nope", ":table"}}

	cmd, err := Get(in, out)

	assert.NoError(err)
	assert.Equal(Command{Verb: VerbTable}, cmd)
	assert.Contains(sb.String(), "I don't know the command :nope")
	assert.Contains(sb.String(), "Try :help")

	_, err = Get(in, out)
	assert.ErrorIs(err, io.EOF)
}
