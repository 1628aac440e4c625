package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// RecordError ties a repository failure to the identifier it concerns.
type RecordError struct {
	Entity string
	ID     string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(entity, id string) error {
	return &RecordError{Entity: entity, ID: id, Err: ErrNotFound}
}

func NewDuplicateError(entity, id string) error {
	return &RecordError{Entity: entity, ID: id, Err: ErrDuplicateIdentifier}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateIdentifier)
}
