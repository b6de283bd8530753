package driver

import "fmt"

// OutputError reports that the framed result could not be written.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write output: %v", e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
