package command

import (
	"strings"

	"github.com/dekarrin/llpred/internal/llerrors"
	"github.com/dekarrin/llpred/parse"
	"github.com/kballard/go-shellquote"
)

// Prefix starts every line that is a command rather than input to derive.
const Prefix = ":"

const (
	VerbDerive    = "DERIVE"
	VerbHelp      = "HELP"
	VerbQuit      = "QUIT"
	VerbGrammar   = "GRAMMAR"
	VerbSets      = "SETS"
	VerbTable     = "TABLE"
	VerbConflicts = "CONFLICTS"
	VerbSamples   = "SAMPLES"
	VerbTree      = "TREE"
)

var (
	// VerbAliases maps shorthand verbs to their canonical forms. They are all
	// upper case and do not include the Prefix.
	VerbAliases map[string]string = map[string]string{
		"Q":        VerbQuit,
		"EXIT":     VerbQuit,
		"BYE":      VerbQuit,
		"H":        VerbHelp,
		"?":        VerbHelp,
		"G":        VerbGrammar,
		"RULES":    VerbGrammar,
		"FIRST":    VerbSets,
		"FOLLOW":   VerbSets,
		"T":        VerbTable,
		"M":        VerbTable,
		"C":        VerbConflicts,
		"SAMPLE":   VerbSamples,
		"INPUTS":   VerbSamples,
		"S":        VerbSamples,
		"TREES":    VerbTree,
		"DERIVE":   VerbDerive,
		"D":        VerbDerive,
		"PARSE":    VerbDerive,
		"CONFLICT": VerbConflicts,
	}
)

// ParseCommand parses a command from the given text. If it cannot, a non-nil
// error is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	trimmed := strings.TrimSpace(toParse)
	if trimmed == "" {
		return parsedCmd, nil
	}

	if !strings.HasPrefix(trimmed, Prefix) {
		tokens, err := parse.Tokenize(trimmed)
		if err != nil {
			return parsedCmd, llerrors.WrapConsolef(err, "Input must not contain the end marker; it is added automatically")
		}
		parsedCmd.Verb = VerbDerive
		parsedCmd.Tokens = tokens
		return parsedCmd, nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, Prefix))
	if rest == "" {
		return parsedCmd, llerrors.Consolef("Type a command name after %q, or %shelp to list them", Prefix, Prefix)
	}

	typedVerb := strings.Fields(rest)[0]
	argText := strings.TrimSpace(strings.TrimPrefix(rest, typedVerb))
	parsedCmd.Verb = strings.ToUpper(typedVerb)
	if canonical, ok := VerbAliases[parsedCmd.Verb]; ok {
		parsedCmd.Verb = canonical
	}

	// derive input is tokenized as-is; everything else may quote its args
	var args []string
	if parsedCmd.Verb != VerbDerive {
		var err error
		args, err = shellquote.Split(argText)
		if err != nil {
			return parsedCmd, llerrors.WrapConsolef(err, "Arguments to %s%s are not properly quoted", Prefix, typedVerb)
		}
	}

	switch parsedCmd.Verb {
	case VerbDerive:
		// explicit form, for input that would otherwise look like a command
		tokens, err := parse.Tokenize(argText)
		if err != nil {
			return parsedCmd, llerrors.WrapConsolef(err, "Input must not contain the end marker; it is added automatically")
		}
		parsedCmd.Tokens = tokens
	case VerbHelp:
		// help takes an optional argument
		if len(args) > 0 {
			parsedCmd.Tokens = []string{strings.ToUpper(strings.TrimPrefix(args[0], Prefix))}
		}
	case VerbSamples:
		// samples takes optional labels to run
		if len(args) > 0 {
			parsedCmd.Tokens = args
		}
	case VerbQuit, VerbGrammar, VerbSets, VerbTable, VerbConflicts, VerbTree:
		if len(args) > 0 {
			errMsg := "%s%s does not take any arguments"
			return parsedCmd, llerrors.Consolef(errMsg, Prefix, typedVerb)
		}
	default:
		return parsedCmd, llerrors.Consolef("I don't know the command %s%s", Prefix, typedVerb)
	}

	return parsedCmd, nil
}
