/*
Llpi starts an interactive LLPred session.

It reads in a grammar file, removes immediate left recursion from the grammar,
computes its FIRST and FOLLOW sets, and builds its LL(1) parsing table. The
analysis is printed to stdout, and then lines are read from stdin and derived
with the table until the ":quit" command is input or input ends.

Usage:

	llpi [flags]

The flags are:

	-v, --version
		Give the current version of LLPred and then exit.

	-g, --grammar FILE
		Use the provided grammar file. It may be an LLG data or manifest file or
		a file of plain rule text. Defaults to the file "grammar.llg" in the
		current working directory.

	-i, --input TOKENS
		Do not start an interactive session. Instead, derive the given tokens,
		then every sample input in the grammar file, and print the full report
		to stdout. Exits with a non-zero status if the tokens are rejected.

	-o, --output FORMAT
		Print the full report in the given format and exit without starting an
		interactive session. FORMAT is one of text, json, or yaml. If --input is
		given, defaults to text.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading input even if launched in a tty with stdin
		and stdout.

Once a session has started, any line that does not start with ':' is split on
whitespace and derived. For an explanation of the commands, type ":help" once
in a session. To exit the interpreter, type ":quit".
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/llpred"
	"github.com/dekarrin/llpred/internal/report"
	"github.com/dekarrin/llpred/internal/version"
	"github.com/dekarrin/llpred/parse"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine, such as a grammar that could not be loaded.
	ExitInitError

	// ExitRejected indicates that the input given with --input was not
	// accepted by the grammar.
	ExitRejected
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of LLPred and then exit.")
	flagGrammar = pflag.StringP("grammar", "g", "grammar.llg", "The LLG grammar data or manifest file, or plain rule text file, to analyze.")
	flagInput   = pflag.StringP("input", "i", "", "Derive the given tokens, print the report, and exit.")
	flagOutput  = pflag.StringP("output", "o", "", "Print the full report in the given format (text, json, or yaml) and exit.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	batch := pflag.Lookup("input").Changed || pflag.Lookup("output").Changed

	var format report.Format
	if batch {
		var err error
		format, err = report.ParseFormat(*flagOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	eng, initErr := llpred.New(os.Stdin, os.Stdout, *flagGrammar, *flagDirect || batch)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if batch {
		var tokens []string
		if pflag.Lookup("input").Changed {
			var err error
			tokens, err = parse.Tokenize(*flagInput)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				returnCode = ExitInitError
				return
			}
		}

		out, err := eng.Export(tokens, format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitSessionError
			return
		}
		os.Stdout.Write(out)

		if tokens != nil && !eng.Derive("", tokens).Accepted {
			returnCode = ExitRejected
		}
		return
	}

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
