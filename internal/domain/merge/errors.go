package merge

import "errors"

// Sentinel kinds for merge errors.
var (
	ErrNoTables = errors.New("no tables to merge")
)
