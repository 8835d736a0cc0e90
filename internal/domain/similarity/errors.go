package similarity

import "errors"

// Sentinel kinds for similarity errors. They are wrapped in a model.Error
// carrying the matching kind.
var (
	ErrIndexUnavailable = errors.New("similarity index unavailable")
	ErrUnknownContract  = errors.New("contract not in index")
	ErrDimension        = errors.New("feature dimension mismatch")
	ErrNonFinite        = errors.New("feature value is not finite")
)
