package features

import "errors"

// Sentinel kinds for feature errors.
var (
	ErrUnknownSet = errors.New("unknown feature set")
)
