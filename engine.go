// Package llpred contains a CLI-driven engine that analyzes a grammar and then
// reads token sequences and commands, deriving each sequence with the
// grammar's LL(1) table until the user quits.
package llpred

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/internal/command"
	"github.com/dekarrin/llpred/internal/gdf"
	"github.com/dekarrin/llpred/internal/input"
	"github.com/dekarrin/llpred/internal/llerrors"
	"github.com/dekarrin/llpred/internal/report"
	"github.com/dekarrin/llpred/parse"
	"github.com/dekarrin/rosed"
)

var commandHelp = [][2]string{
	{":help/:h [command]", "show this help, or only the help for the given command"},
	{":quit/:q", "end the session"},
	{":grammar/:g", "show the grammar with left recursion removed"},
	{":sets", "show the FIRST and FOLLOW sets of every non-terminal"},
	{":table/:m", "show the LL(1) parsing table"},
	{":conflicts", "list the table cells claimed by more than one production"},
	{":samples [label...]", "derive every sample input of the grammar file, or only those with the given labels, and check each against its expected result"},
	{":tree", "toggle showing the parse tree after each derivation"},
	{":derive [tokens]", "derive the tokens even if the first one starts with ':'"},
	{"tokens", "any line that is not a command is split on whitespace and derived"},
}

var textFormatOptions = rosed.Options{
	PreserveParagraphs: true,
	IndentStr:          "  ",
}

// Engine contains the things needed to run an analysis session from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	bundle      gdf.Bundle
	analysis    grammar.Analysis
	parser      parse.LL1Parser
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
	showTree    bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
//
// The grammar file is loaded and analyzed before New returns. A grammar that
// is not LL(1) is not an error; its conflicts are part of the analysis.
func New(inputStream io.Reader, outputStream io.Writer, grammarFilePath string, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	bundle, err := gdf.LoadResourceBundle(grammarFilePath)
	if err != nil {
		return nil, err
	}

	analysis, err := grammar.Analyze(bundle.Rules)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %w", bundle.Name, err)
	}

	eng := &Engine{
		bundle:      bundle,
		analysis:    analysis,
		parser:      parse.GenerateLL1Parser(analysis),
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
		showTree:    true,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		eng.in, err = input.NewInteractiveReader(input.InteractiveOptions{
			Commands: completableCommands(),
		})
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// Analysis returns the analysis of the loaded grammar.
func (eng *Engine) Analysis() grammar.Analysis {
	return eng.analysis
}

// Report returns a new report of the loaded grammar's analysis with no
// derivations in it.
func (eng *Engine) Report() report.Report {
	return report.New(eng.bundle.Name, eng.analysis)
}

// Derive derives tokens with the loaded grammar. A rejected input is not an
// error; the returned Derivation describes why it was rejected.
func (eng *Engine) Derive(label string, tokens []string) report.Derivation {
	res, err := eng.parser.Derive(tokens)
	return report.NewDerivation(label, tokens, res, err)
}

// RunSamples derives the sample inputs of the grammar file. If labels are
// given, only the samples with those labels are run, in the order the labels
// are given; it is an error if any label does not match a sample.
func (eng *Engine) RunSamples(labels []string) ([]report.Derivation, error) {
	var samples []gdf.Input

	if len(labels) < 1 {
		samples = eng.bundle.Inputs
	} else {
		byLabel := map[string]gdf.Input{}
		for _, in := range eng.bundle.Inputs {
			byLabel[in.Label] = in
		}
		for _, l := range labels {
			in, ok := byLabel[l]
			if !ok {
				return nil, llerrors.Consolef("There is no sample input labeled %q", l)
			}
			samples = append(samples, in)
		}
	}

	derivs := make([]report.Derivation, len(samples))
	for i, in := range samples {
		derivs[i] = eng.Derive(in.Label, in.Tokens)
		derivs[i].Expected = in.Accept
	}
	return derivs, nil
}

// Export produces the full report in the given format: the analysis, followed
// by a derivation of tokens if any are given, then a derivation of every sample
// input of the grammar file.
func (eng *Engine) Export(tokens []string, format report.Format) ([]byte, error) {
	r := eng.Report()

	if tokens != nil {
		r.AddDerivation(eng.Derive("", tokens))
	}

	samples, err := eng.RunSamples(nil)
	if err != nil {
		return nil, err
	}
	for _, d := range samples {
		r.AddDerivation(d)
	}

	return r.Render(format, consoleOutputWidth)
}

// RunUntilQuit begins reading commands from the streams and running them
// until the QUIT command is received or the input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to LLPred\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "=================\n"
	introMsg += "\n"
	introMsg += eng.Report().Text(consoleOutputWidth)
	introMsg += "\n"
	introMsg += fmt.Sprintf("Type tokens separated by spaces to derive them, or %shelp for commands.\n", command.Prefix)

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == command.VerbQuit {
			eng.running = false
			break
		}

		output, err := eng.Execute(cmd)
		if err != nil {
			output = llerrors.Message(err)
		}

		output = strings.TrimRight(output, "\n")
		if err := eng.write(output + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// Execute runs a single command other than QUIT and returns its output.
func (eng *Engine) Execute(cmd command.Command) (string, error) {
	r := eng.Report()

	switch cmd.Verb {
	case command.VerbHelp:
		return eng.executeHelp(cmd)
	case command.VerbGrammar:
		return r.GrammarText(), nil
	case command.VerbSets:
		return r.SetsText(consoleOutputWidth), nil
	case command.VerbTable:
		return r.TableText(consoleOutputWidth), nil
	case command.VerbConflicts:
		return r.ConflictsText(), nil
	case command.VerbTree:
		eng.showTree = !eng.showTree
		if eng.showTree {
			return "Parse trees will be shown after each derivation.", nil
		}
		return "Parse trees will no longer be shown.", nil
	case command.VerbSamples:
		return eng.executeSamples(cmd)
	case command.VerbDerive:
		d := eng.Derive("", cmd.Tokens)
		return d.Text(consoleOutputWidth, eng.showTree), nil
	default:
		return "", llerrors.Consolef("I don't know how to run %s%s", command.Prefix, strings.ToLower(cmd.Verb))
	}
}

func (eng *Engine) executeSamples(cmd command.Command) (string, error) {
	if len(eng.bundle.Inputs) < 1 {
		return "The grammar file does not have any sample inputs.", nil
	}

	derivs, err := eng.RunSamples(cmd.Tokens)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	met := 0
	for _, d := range derivs {
		sb.WriteString(d.Text(consoleOutputWidth, eng.showTree))
		sb.WriteString("\n\n")
		if d.MetExpectation() {
			met++
		}
	}
	sb.WriteString(fmt.Sprintf("%d of %d sample(s) met expectations", met, len(derivs)))

	return sb.String(), nil
}

func (eng *Engine) executeHelp(cmd command.Command) (string, error) {
	helpItems := commandHelp

	if len(cmd.Tokens) > 0 {
		verb := cmd.Tokens[0]
		if canonical, ok := command.VerbAliases[verb]; ok {
			verb = canonical
		}
		name := command.Prefix + strings.ToLower(verb)

		helpItems = nil
		for _, item := range commandHelp {
			if strings.HasPrefix(item[0], name+"/") || strings.HasPrefix(item[0], name+" ") || item[0] == name {
				helpItems = append(helpItems, item)
			}
		}
		if len(helpItems) < 1 {
			return "", llerrors.Consolef("There is no command %s", name)
		}
	}

	output := rosed.Edit("").WithOptions(
		textFormatOptions.
			WithParagraphSeparator("\n").
			WithNoTrailingLineSeparators(true)).
		Insert(rosed.End, "Here are the commands you can use:\n").
		InsertDefinitionsTable(rosed.End, helpItems, consoleOutputWidth).String()

	return output, nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func completableCommands() []string {
	names := []string{
		command.VerbHelp,
		command.VerbQuit,
		command.VerbGrammar,
		command.VerbSets,
		command.VerbTable,
		command.VerbConflicts,
		command.VerbSamples,
		command.VerbTree,
		command.VerbDerive,
	}

	for i := range names {
		names[i] = command.Prefix + strings.ToLower(names[i])
	}
	return names
}
