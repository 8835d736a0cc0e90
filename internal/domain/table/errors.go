package table

import "errors"

// Sentinel kinds for table errors.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrRowWidth        = errors.New("row width does not match header")
	ErrEmptyDocument   = errors.New("empty document")
)
