package storage

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("object not found")

// StorageError is returned when the object store cannot be reached, rejects the
// request, or holds content that cannot be decoded.
type StorageError struct {
	Op     string
	Bucket string
	Name   string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Bucket, e.Name, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func notFound(bucket, name string) error {
	return fmt.Errorf("object %q in bucket %q: %w", name, bucket, ErrNotFound)
}
