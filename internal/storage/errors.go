package storage

import "errors"

var (
	// ErrNotFound is returned by single-record reads when the id is unknown.
	// Updates and deletes of unknown ids are no-ops and do not return it.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when creating an entry whose id already exists.
	ErrDuplicate = errors.New("record already exists")

	// ErrInvalidSnapshot is returned when a backup document fails validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
