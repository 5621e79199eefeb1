package service

import (
	"errors"

	"github.com/courtevo/vero/internal/domain/records"
)

// Sentinel kinds returned by Service methods.
var (
	ErrNotFound          = records.ErrNotFound
	ErrInvalid           = records.ErrInvalid
	ErrSnapshot          = errors.New("snapshot")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
