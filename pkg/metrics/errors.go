package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrNoGateway  = errors.New("pushgateway url not set")
	ErrPushFailed = errors.New("metrics push failed")
)
