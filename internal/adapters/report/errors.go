package report

import "errors"

// Sentinel kinds for report encoding errors.
var (
	ErrUnknownFormat = errors.New("unknown report format")
)
