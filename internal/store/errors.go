package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every Store implementation.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// ConflictError reports the unique field a write collided on.
// It matches ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// Is makes errors.Is(err, ErrAlreadyExists) true for conflicts.
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}
