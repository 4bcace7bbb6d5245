package repository

import "errors"

var (
	// ErrNotFound covers missing rows and failed state predicates alike: a
	// concurrent confirm that loses the race observes zero affected rows and
	// surfaces as not found, never as success.
	ErrNotFound = errors.New("record not found")

	ErrDuplicateEmail = errors.New("email already taken")
)
