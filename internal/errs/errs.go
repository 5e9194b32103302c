// Package errs defines the failure kinds surfaced by the retrieval core.
// Callers classify failures with errors.Is; the core never retries.
package errs

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedInput marks ingestion input with no usable text.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrEmbedding marks an embedding model failure.
	ErrEmbedding = errors.New("embedding failure")

	// ErrIndex marks a vector index failure, including dimension mismatches.
	ErrIndex = errors.New("index failure")

	// ErrCompletion marks a language model completion failure.
	ErrCompletion = errors.New("completion failure")

	// ErrTimeout marks a deadline expiry on any core operation.
	ErrTimeout = errors.New("operation timed out")

	// ErrRetrieval wraps any failure propagated out of the retrieval pipeline.
	ErrRetrieval = errors.New("retrieval failure")
)

// Wrap tags err with the given failure kind, preserving both for errors.Is.
// A context deadline expiry is tagged as ErrTimeout instead of kind.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return fmt.Errorf("%w: %w", kind, err)
}
