package errors

import "errors"

// User-facing errors.
var (
	ErrValidation = errors.New("invalid article")
	ErrNotFound   = errors.New("article not found")
	ErrCancelled  = errors.New("cancelled by user")
	ErrNoSnapshot = errors.New("no trusted local snapshot available")
)

// Sync errors.
var (
	ErrUnreachable   = errors.New("server unreachable")
	ErrWriteFailed   = errors.New("server rejected write")
	ErrIntegrity     = errors.New("local snapshot failed integrity check")
	ErrSnapshotWrite = errors.New("writing local snapshot failed")
)

// Server/transport errors.
var (
	ErrAPIRequest  = errors.New("API request failed")
	ErrAPIResponse = errors.New("unexpected API response")
	ErrCircuitOpen = errors.New("API circuit breaker open")
)
