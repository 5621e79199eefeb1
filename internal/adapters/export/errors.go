package export

import "errors"

// Sentinel kinds for import/export errors.
var (
	ErrEmptyWorkbook = errors.New("workbook has no rows")
	ErrInvalidRow    = errors.New("invalid row")
	ErrWrite         = errors.New("write export")
)
