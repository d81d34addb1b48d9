package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("not found")               // 404
	ErrReferenceNotFound     = errors.New("reference not found")     // 404
	ErrDuplicateRelationship = errors.New("duplicate relationship") // 422
)

// ReferenceError names the related entity a write depends on but that does
// not exist.
type ReferenceError struct {
	Entity string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceNotFound
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func reference(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ReferenceError{Entity: entity, ID: id}
	}
	return err
}
