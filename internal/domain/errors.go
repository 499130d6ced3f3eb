package domain

import "errors"

// ErrNotFound is returned by lookups when no matching record exists.
var ErrNotFound = errors.New("not found")
