package season

import "errors"

// ErrMalformed is returned for identifiers that are not two consecutive four-digit years.
var ErrMalformed = errors.New("malformed season")
