package repository

import "errors"

// Sentinel kinds for snapshot persistence errors.
var (
	ErrClosed  = errors.New("snapshot store closed")
	ErrOpen    = errors.New("open snapshot store")
	ErrDecode  = errors.New("decode snapshot")
	ErrPersist = errors.New("persist snapshot")
)
