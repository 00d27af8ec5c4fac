package oerror

import "fmt"

// MovementError is the error type returned by pmove packages for failures that are not plain I/O errors.
type MovementError struct {
	Err string
}

// New formats a new MovementError.
func New(format string, args ...any) *MovementError {
	if len(args) == 0 {
		return &MovementError{Err: format}
	}
	return &MovementError{Err: fmt.Sprintf(format, args...)}
}

func (e *MovementError) Error() string {
	return e.Err
}
