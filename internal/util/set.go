package util

import (
	"sort"
	"strings"
)

// StringSet is a set of strings backed by a map[string]bool.
type StringSet map[string]bool

// NewStringSet returns a StringSet holding every key of the given maps.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf returns a StringSet holding every element of sl. A nil slice
// gives a nil set.
func StringSetOf(sl []string) StringSet {
	if sl == nil {
		return nil
	}

	s := StringSet{}

	for i := range sl {
		s.Add(sl[i])
	}

	return s
}

func (s StringSet) Copy() StringSet {
	return NewStringSet(s)
}

func (s StringSet) Empty() bool {
	return s.Len() == 0
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Len() int {
	return len(s)
}

// Equal returns whether two sets have the same items. If anything other than a
// StringSet or non-nil *StringSet is passed in, they will not be considered
// equal.
func (s StringSet) Equal(o any) bool {
	other, ok := o.(StringSet)
	if !ok {
		otherPtr, ok := o.(*StringSet)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// Elements returns the elements of s as a slice. No particular order is
// guaranteed nor should it be relied on.
func (s StringSet) Elements() []string {
	if s == nil {
		return nil
	}

	sl := make([]string, 0, len(s))

	for item := range s {
		sl = append(sl, item)
	}

	return sl
}

// Sorted returns the elements of s in alphabetical order.
func (s StringSet) Sorted() []string {
	sl := s.Elements()
	sort.Strings(sl)
	return sl
}

// String shows the contents of the set in alphabetical order, such as
// "{a, b, c}".
func (s StringSet) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}
