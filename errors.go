package sitestate

import (
	"errors"

	"github.com/jpalmerr/sitestate/internal/codec"
)

// ErrStorageUnavailable marks a backend read, write or remove that failed.
//
// Storage absorbs these failures: they are logged and reported to the caller
// as "absent" or false, never as a returned error.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrInvalidInput marks input a store ignores, such as a blank search query.
// Ignored input is a silent no-op; the error only appears in debug logs.
var ErrInvalidInput = errors.New("invalid input")

// DecodeError reports a stored value that could not be parsed. Stores fall
// back to their default value when they see one.
type DecodeError = codec.DecodeError
