package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llpred/grammar"
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

// Tree is a node of a parse tree. Each node owns its children; there are no
// references back up the tree.
type Tree struct {
	// Terminal is whether the node is a terminal. Epsilon leaves are also
	// marked as terminal.
	Terminal bool

	// Symbol is the grammar symbol the node was created for.
	Symbol string

	// Children are the nodes the symbol was expanded into, left to right. A
	// terminal, or a non-terminal never expanded because derivation stopped,
	// has none.
	Children []*Tree
}

// IsEpsilon returns whether the node is the single leaf created when a
// non-terminal is expanded with the empty production.
func (pt Tree) IsEpsilon() bool {
	return pt.Terminal && pt.Symbol == grammar.Epsilon
}

// Leaves returns the symbols of the leaf nodes of the tree from left to right,
// skipping epsilon leaves. For a tree from an accepted derivation, this is the
// input that was derived.
func (pt Tree) Leaves() []string {
	leaves := []string{}

	if len(pt.Children) == 0 {
		if !pt.IsEpsilon() {
			leaves = append(leaves, pt.Symbol)
		}
		return leaves
	}

	for i := range pt.Children {
		leaves = append(leaves, pt.Children[i].Leaves()...)
	}
	return leaves
}

// Copy returns a deep copy of the tree.
func (pt Tree) Copy() Tree {
	cp := Tree{
		Terminal: pt.Terminal,
		Symbol:   pt.Symbol,
	}

	if pt.Children != nil {
		cp.Children = make([]*Tree, len(pt.Children))
		for i := range pt.Children {
			childCopy := pt.Children[i].Copy()
			cp.Children[i] = &childCopy
		}
	}

	return cp
}

// String returns a prettified representation of the entire parse tree suitable
// for use in line-by-line comparisons of tree structure. Two parse trees are
// considered semantically identical if they produce identical String() output.
func (pt Tree) String() string {
	return pt.leveledStr("", "")
}

func (pt Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Symbol))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Symbol))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Equal returns whether the Tree is equal to the given object. If the given
// object is not a Tree, returns false, else returns whether the two parse trees
// have the exact same structure.
func (pt Tree) Equal(o any) bool {
	other, ok := o.(Tree)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Tree)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Terminal != other.Terminal {
		return false
	} else if pt.Symbol != other.Symbol {
		return false
	}

	if len(pt.Children) != len(other.Children) {
		return false
	}
	for i := range pt.Children {
		if !pt.Children[i].Equal(other.Children[i]) {
			return false
		}
	}

	return true
}
