package succession

import "errors"

// Sentinel kinds for succession errors.
var (
	ErrUnknownContract = errors.New("contract not in contract table")
)
