package measurefilter

import "fmt"

// ParseError reports a criteria or column key segment that should hold an
// integer but does not.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("measure filter: invalid %s %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
