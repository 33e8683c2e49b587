package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks a malformed or contradictory CrawlRequest.
// It is rejected before any network call and never retried.
var ErrInvalidRequest = errors.New("invalid crawl request")

// StorageError wraps a durable-write failure. It fails the whole request
// since the output_dir contract cannot be honored without the file.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
