package model

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Callers switch on it instead of
// inspecting messages.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindComputation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindComputation:
		return "computation_failure"
	default:
		return "unknown"
	}
}

// Sentinel kinds for domain errors. These allow errors.Is from callers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrComputation  = errors.New("computation failure")
)

// Error is the typed failure returned by the core.
type Error struct {
	Kind Kind
	Op   string // operation, e.g. "similarity.neighbors"
	Ref  string // contract or player id, when one applies
	Err  error
}

// Errorf builds an *Error with a formatted cause.
func Errorf(kind Kind, op, ref, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Ref: ref, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Ref != "" {
		msg += " [" + e.Ref + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrComputation:
		return e.Kind == KindComputation
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrComputation):
		return KindComputation
	}
	return KindUnknown
}

// ContractError records a per-contract failure collected by a batch.
type ContractError struct {
	ContractID string `json:"contract_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// NewContractError converts err into a batch entry for contractID.
func NewContractError(contractID string, err error) ContractError {
	return ContractError{
		ContractID: contractID,
		Kind:       KindOf(err).String(),
		Message:    err.Error(),
	}
}
