package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDocumentsFound indicates the documents directory holds no supported file.
	// Startup cannot continue without documents.
	ErrNoDocumentsFound = errors.New("no documents found")

	// ErrDecode indicates a source file could not be read or decoded.
	ErrDecode = errors.New("decode error")

	// ErrUnsupportedType indicates a file extension outside the supported set.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidChunkConfig indicates chunk size and overlap cannot make progress.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// Cache Errors. None of these are fatal; each one leads to a rebuild.

	// ErrCacheMiss indicates cache metadata is missing or unparsable.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheStale indicates the documents changed since the cache was written.
	ErrCacheStale = errors.New("cache stale")

	// ErrCacheCorrupt indicates the persisted vector index could not be loaded.
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrExternalService indicates the embedding or completion service failed.
	ErrExternalService = errors.New("external service error")

	// ErrMissingModelName indicates no completion model was configured.
	ErrMissingModelName = errors.New("llm model name is required")

	// ErrDimensionMismatch indicates a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// DecodeError reports a source file that could not be turned into text.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s", e.Path)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

// Unwrap allows errors.Is to match both ErrDecode and the cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// ExternalServiceError wraps a failure of an embedding or completion call.
type ExternalServiceError struct {
	// Op names the failed capability, e.g. "embed" or "complete".
	Op  string
	Err error
}

// Error implements error.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap allows errors.Is to match both ErrExternalService and the cause.
func (e *ExternalServiceError) Unwrap() []error {
	return []error{ErrExternalService, e.Err}
}
