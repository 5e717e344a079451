package ceph

import "fmt"

// ValidationError is returned when the parameters do not allow the requested action.
// No external mutating call has been made when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConnectionError is returned when the cluster handle cannot be created or connected.
type ConnectionError struct {
	Stage string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.Stage, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ExecutionError is returned when an external call reports a non-zero status.
type ExecutionError struct {
	Action string
	RC     int
	Stderr string

	// Errno is set for mon commands, whose status is a negative errno.
	Errno string
}

func (e *ExecutionError) Error() string {
	if e.Errno != "" {
		return fmt.Sprintf("Error: %d %s", e.RC, e.Errno)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed with rc %d: %s", e.Action, e.RC, e.Stderr)
	}
	return fmt.Sprintf("%s failed with rc %d", e.Action, e.RC)
}
