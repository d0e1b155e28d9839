package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced row does not exist.
type ErrNotFound struct {
	Entity string
	ID     any
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is or wraps an *ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

func notFound(entity string, id any) error {
	return &ErrNotFound{Entity: entity, ID: id}
}
