package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"gopkg.in/yaml.v3"
)

// Format is an output format a Report can be rendered in.
type Format int

const (
	Text Format = iota
	JSON
	YAML
)

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat gives the Format with the given name, ignoring case. "yml" is
// accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Text, fmt.Errorf("unknown output format %q; must be one of text, json, or yaml", s)
	}
}

var tableOpts = rosed.Options{
	TableHeaders:             true,
	TableBorders:             true,
	NoTrailingLineSeparators: true,
}

// Render gives the report in the given format. For Text, width is the width
// of the console tables are fit to; it is ignored for other formats.
func (r Report) Render(f Format, width int) ([]byte, error) {
	switch f {
	case Text:
		return []byte(r.Text(width)), nil
	case JSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal report to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case YAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal report to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %s", f)
	}
}

// Text gives every section of the report as text, fit to width.
func (r Report) Text(width int) string {
	var sb strings.Builder

	title := "Grammar"
	if r.Name != "" {
		title += " " + r.Name
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")

	if len(r.Warnings) > 0 {
		sb.WriteString("\n" + r.WarningsText() + "\n")
	}

	sb.WriteString("\n" + r.GrammarText() + "\n")
	sb.WriteString("\n" + r.SetsText(width) + "\n")
	sb.WriteString("\n" + r.TableText(width) + "\n")
	sb.WriteString("\n" + r.ConflictsText() + "\n")

	for _, d := range r.Derivations {
		sb.WriteString("\n" + d.Text(width, true) + "\n")
	}

	return sb.String()
}

// WarningsText lists the lines of the grammar that were skipped.
func (r Report) WarningsText() string {
	if len(r.Warnings) < 1 {
		return "No lines were skipped."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skipped %d line(s):", len(r.Warnings)))
	for _, w := range r.Warnings {
		sb.WriteString(fmt.Sprintf("\n  line %d: %s: %q", w.Line, w.Reason, w.Text))
	}
	return sb.String()
}

// GrammarText gives the rules of the grammar after left recursion removal.
func (r Report) GrammarText() string {
	return "Start symbol: " + r.Start + "\n" + strings.Join(r.Grammar, "\n")
}

// SetsText gives a table of every non-terminal with its FIRST and FOLLOW sets.
func (r Report) SetsText(width int) string {
	data := [][]string{{"Non-Terminal", "FIRST", "FOLLOW"}}
	for _, nt := range r.NonTerminals {
		data = append(data, []string{nt.Name, setString(nt.First), setString(nt.Follow)})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}

// TableText gives the LL(1) table as a text table with the non-terminals as
// rows and the terminals as columns. Terminals are case-sensitive, so their
// row is not a header.
func (r Report) TableText(width int) string {
	cells := map[[2]string]string{}
	for _, c := range r.Table {
		cells[[2]string{c.NonTerminal, c.Terminal}] = c.NonTerminal + " -> " + c.Production
	}

	topRow := []string{""}
	topRow = append(topRow, r.Terminals...)
	data := [][]string{topRow}

	for _, nt := range r.NonTerminals {
		row := []string{nt.Name}
		for _, term := range r.Terminals {
			row = append(row, cells[[2]string{nt.Name, term}])
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts.WithTableHeaders(false)).
		String()
}

// ConflictsText lists every conflicting cell, or says the grammar is LL(1) if
// there are none.
func (r Report) ConflictsText() string {
	if len(r.Conflicts) < 1 {
		return "No conflicts; the grammar is LL(1)."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The grammar is not LL(1); %d conflicting cell(s):", len(r.Conflicts)))
	for _, c := range r.Conflicts {
		alts := make([]string, len(c.Productions))
		for i := range c.Productions {
			alts[i] = c.NonTerminal + " -> " + c.Productions[i]
		}
		sb.WriteString(fmt.Sprintf("\n  M[%s, %s]: %s", c.NonTerminal, c.Terminal, strings.Join(alts, " / ")))
	}
	return sb.String()
}

// Text gives the trace of the derivation as a table followed by its outcome,
// and the parse tree as well if withTree is set.
func (d Derivation) Text(width int, withTree bool) string {
	var sb strings.Builder

	heading := "Derivation of \"" + strings.Join(d.Input, " ") + "\""
	if d.Label != "" {
		heading = d.Label + ": " + heading
	}
	sb.WriteString(heading + "\n")

	data := [][]string{{"Stack", "Input", "Action"}}
	for _, s := range d.Steps {
		data = append(data, []string{strings.Join(s.Stack, " "), strings.Join(s.Input, " "), s.Action})
	}
	sb.WriteString(rosed.Edit("").InsertTableOpts(0, data, width, tableOpts).String())
	sb.WriteString("\n")

	sb.WriteString(d.Verdict())

	if withTree && d.Tree != nil {
		sb.WriteString("\n\n" + d.Tree.String())
	}

	return sb.String()
}

// Verdict gives a single line saying whether the input was accepted, and how
// that compares to what was expected.
func (d Derivation) Verdict() string {
	var verdict string
	if d.Accepted {
		verdict = "ACCEPTED"
	} else {
		verdict = "REJECTED"
		if d.Error != "" {
			verdict += " (" + d.Error + ")"
		}
	}

	if d.Expected != nil {
		if d.MetExpectation() {
			verdict += " as expected"
		} else if *d.Expected {
			verdict += " but was expected to be accepted"
		} else {
			verdict += " but was expected to be rejected"
		}
	}

	return verdict
}

func setString(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}
