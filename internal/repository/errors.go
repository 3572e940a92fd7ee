package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// Services translate it into their own not-found errors.
var ErrNotFound = errors.New("record not found")
