package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned by TryInsert when a recommendation with the
	// same canonical key already exists.
	ErrDuplicateKey = errors.New("duplicate canonical key")

	// ErrStorageUnavailable wraps every failure of the underlying database.
	// No partial write is possible when it is returned from TryInsert.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrEmptyKey is returned when a recommendation has no usable canonical key.
	ErrEmptyKey = errors.New("empty canonical key")

	// ErrKeyMismatch is returned when CanonicalKey does not match the
	// normalized CompanyName.
	ErrKeyMismatch = errors.New("canonical key does not match company name")
)

// unavailable wraps a driver error so callers can match ErrStorageUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
