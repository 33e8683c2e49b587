package weibo

import "fmt"

// TransientError marks a fetch failure worth retrying at the same cursor:
// network errors, malformed responses and the platform's throttling
// signals. It never reaches the pipeline caller directly.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient %s error: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func transient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}
