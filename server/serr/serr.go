// Package serr holds the errors passed between the layers of the LLPred
// server. An Error can have several causes, and errors.Is and errors.As will
// find any of them along with anything they wrap.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")

	// ErrGrammar is a cause of every error from rules text that could not be
	// analyzed. The error from the grammar package is kept as another cause.
	ErrGrammar = errors.New("the grammar could not be analyzed")
)

// Error is a message along with every error that caused it. Create one with New
// or WrapDB.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and causes. Either may be left
// empty.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// WrapDB creates an Error caused by both err and ErrDB.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// Error gives the message followed by the message of the first cause. If there
// is no message, only the first cause's is given.
func (e Error) Error() string {
	if len(e.cause) < 1 {
		return e.msg
	}
	if e.msg == "" {
		return e.cause[0].Error()
	}
	return e.msg + ": " + e.cause[0].Error()
}

// Unwrap gives the causes of e for go1.20 and later. Is and As do the same
// search on go1.19.
func (e Error) Unwrap() []error {
	return e.cause
}

// Is returns whether target is e or is found in any cause of e.
func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok && e.equal(other) {
		return true
	}
	for _, c := range e.cause {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// As finds the first cause of e, or error wrapped by one, that can be assigned
// to target.
func (e Error) As(target any) bool {
	for _, c := range e.cause {
		if errors.As(c, target) {
			return true
		}
	}
	return false
}

func (e Error) equal(other Error) bool {
	if e.msg != other.msg || len(e.cause) != len(other.cause) {
		return false
	}
	for i := range e.cause {
		if e.cause[i] != other.cause[i] {
			return false
		}
	}
	return true
}
