package records

import "errors"

// Sentinel kinds shared by everything that reads or edits a collection.
var (
	ErrNotFound = errors.New("record not found")
	ErrInvalid  = errors.New("invalid record")
)
