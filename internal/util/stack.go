package util

// Stack is a LIFO stack backed by a slice. The top of the stack is the last
// element of Of.
type Stack[E any] struct {
	Of []E
}

// Push puts v on top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. It panics if the stack is
// empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) < 1 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top of the stack without removing it. It panics if the
// stack is empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) < 1 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items on the stack.
func (s Stack[E]) Len() int {
	return len(s.Of)
}

// Empty returns whether there are no items on the stack.
func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}
