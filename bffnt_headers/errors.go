package bffnt_headers

import "fmt"

// FormatError reports a malformed or unexpected value at a fixed position:
// a bad magic, an unknown mapping method, an offset cycle. Always fatal.
type FormatError struct {
	Section string
	Msg     string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Section, e.Msg)
}

func formatErrf(section, format string, args ...interface{}) *FormatError {
	return &FormatError{Section: section, Msg: fmt.Sprintf(format, args...)}
}

// TruncationError reports a stream shorter than a field or a declared
// section size requires. Always fatal.
type TruncationError struct {
	Section string
	Offset  int
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("%s: truncated at offset %#x", e.Section, e.Offset)
}

// GeometryError reports declared dimensions that produce a zero or
// negative block count.
type GeometryError struct {
	Msg string
}

func (e *GeometryError) Error() string {
	return e.Msg
}
