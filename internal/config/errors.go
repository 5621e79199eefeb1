package config

import "errors"

var (
	// ErrInvalidConfig marks a loaded configuration that fails Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a defaults, file or environment layer that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
