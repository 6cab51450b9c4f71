package taxon

import (
	"errors"
	"fmt"
)

// ErrFormat marks file-level structural problems in any tabular input.
var ErrFormat = errors.New("format error")

// FormatError describes a fatal structural problem. Line is 0 when the
// problem is not tied to one line.
type FormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("FormatError: %s:%d %s", e.Path, e.Line, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("FormatError: %s: %s", e.Path, e.Reason)
	default:
		return "FormatError: " + e.Reason
	}
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Formatf builds a FormatError with no path; callers that know the file set it.
func Formatf(line int, format string, a ...any) *FormatError {
	return &FormatError{Line: line, Reason: fmt.Sprintf(format, a...)}
}

// WithPath stamps path onto err when it is a FormatError without one.
func WithPath(err error, path string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = path
	}
	return err
}
