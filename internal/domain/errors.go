// Package domain defines the core business entities and errors.
package domain

import "errors"

// ErrMalformedRecord is returned when a stored row cannot be decoded into
// a task, e.g. a column holds a value of an unexpected type.
var ErrMalformedRecord = errors.New("malformed task record")
