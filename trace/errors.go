package trace

import "fmt"

// A MalformedLineError reports a trace line that is neither an access nor the
// end marker.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed trace line %d %q: %s", e.Line, e.Text, e.Reason)
	}

	return fmt.Sprintf("malformed trace line %q: %s", e.Text, e.Reason)
}

// An IOError reports a trace source that cannot be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot read trace: %v", e.Err)
	}

	return fmt.Sprintf("cannot read trace %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
