package ssml

import "errors"

var (
	ErrSingleQuotedAttr = errors.New("single-quoted attribute values are not allowed")
	ErrSyntax           = errors.New("invalid markup")
	ErrStrayText        = errors.New("stray top-level text")
	ErrRootCount        = errors.New("multiple top-level tags or missing root element")
	ErrRootName         = errors.New("top-level tag must be speak")
	ErrDuplicateAttr    = errors.New("duplicate attribute")
)

// MalformedInputError is returned by Parse when the input breaks one of
// the dialect rules. Reason is one of the Err* values of this package and
// Err, if not nil, is the underlying cause.
type MalformedInputError struct {
	Reason error
	Err    error
}

func (e *MalformedInputError) Error() string {
	s := "ssml: " + e.Reason.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func malformed(reason, err error) error {
	return &MalformedInputError{Reason: reason, Err: err}
}
