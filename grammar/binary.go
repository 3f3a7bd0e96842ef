package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// This file contains the binary encoding of grammars, used when they are
// persisted.

func (p Production) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(len(p))...)
	for i := range p {
		data = append(data, rezi.EncString(p[i])...)
	}

	return data, nil
}

func (p *Production) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("symbol count: %w", err)
	}
	data = data[n:]

	if count < 0 {
		return fmt.Errorf("symbol count < 0")
	}

	prod := make(Production, count)
	for i := 0; i < count; i++ {
		prod[i], n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("symbol %d: %w", i, err)
		}
		data = data[n:]
	}

	*p = prod
	return nil
}

func (r Rule) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(r.NonTerminal)...)
	data = append(data, rezi.EncInt(len(r.Productions))...)
	for i := range r.Productions {
		data = append(data, rezi.EncBinary(r.Productions[i])...)
	}

	return data, nil
}

func (r *Rule) UnmarshalBinary(data []byte) error {
	var decoded Rule
	var n int
	var err error

	decoded.NonTerminal, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("non-terminal: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("production count: %w", err)
	}
	data = data[n:]

	if count < 0 {
		return fmt.Errorf("production count < 0")
	}

	decoded.Productions = make([]Production, count)
	for i := 0; i < count; i++ {
		n, err = rezi.DecBinary(data, &decoded.Productions[i])
		if err != nil {
			return fmt.Errorf("production %d: %w", i, err)
		}
		data = data[n:]
	}

	*r = decoded
	return nil
}

func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.Start)...)
	data = append(data, rezi.EncInt(len(g.rules))...)
	for i := range g.rules {
		data = append(data, rezi.EncBinary(g.rules[i])...)
	}

	return data, nil
}

// UnmarshalBinary decodes a Grammar encoded with MarshalBinary. Terminals are
// not part of the encoding; they are reclassified from the decoded rules.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var decoded Grammar

	start, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start symbol: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	if count < 0 {
		return fmt.Errorf("rule count < 0")
	}

	for i := 0; i < count; i++ {
		var r Rule
		n, err = rezi.DecBinary(data, &r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		data = data[n:]

		decoded.declare(r.NonTerminal)
		idx := decoded.rulesByName[r.NonTerminal]
		decoded.rules[idx].Productions = append(decoded.rules[idx].Productions, r.Productions...)
	}

	decoded.Start = start
	decoded.classify()

	*g = decoded
	return nil
}
