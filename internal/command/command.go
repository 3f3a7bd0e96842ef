// Package command defines the commands of an interactive session and handles
// parsing of commands from input sources.
package command

// Command is a valid command received from an input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as
	// "TABLE", "SETS", or "QUIT". Some verbs may have shorthand forms which are
	// typed differently, for instance ":q" could be typed instead of ":quit",
	// and for all those cases they would result in a Command with a verb of
	// QUIT.
	//
	// A line that is not a command at all is a sequence of tokens to derive,
	// and results in a Command with a verb of DERIVE.
	Verb string

	// Tokens is the input to derive for DERIVE, or the arguments given after
	// the verb for any other command.
	Tokens []string
}
