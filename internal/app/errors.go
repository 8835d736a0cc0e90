package service

import "errors"

// Sentinel errors returned by the pipeline jobs.
var (
	ErrUnknownJob  = errors.New("unknown job")
	ErrNoContracts = errors.New("no contract ids to recommend for")
	ErrNoStore     = errors.New("no object store configured")
)
