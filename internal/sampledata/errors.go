package sampledata

import "errors"

// ErrInvalidConfig is returned for a league that cannot be generated.
var ErrInvalidConfig = errors.New("invalid sample data config")
