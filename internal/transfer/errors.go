package transfer

import "fmt"

// FormatError reports an import document that is not a list of records.
// Nothing is changed when it is returned.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("import format: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ReadError reports an import file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read import file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
