package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncodingUndetected indicates no candidate codec decoded the byte buffer.
	// Fatal for the affected book only; the batch continues.
	ErrEncodingUndetected = errors.New("no candidate encoding decoded the input")

	// ErrCancelled indicates a conversion observed a cancellation signal.
	// It is a normal early exit, logged at informational level, never
	// surfaced to the user as a failure.
	ErrCancelled = errors.New("operation cancelled")

	// ErrCoverAttach indicates the cover image was missing or unreadable
	// at assembly time. Recoverable: the book proceeds without a cover.
	ErrCoverAttach = errors.New("cover attach failed")

	// ErrSerialization indicates the container serializer failed to render
	// the document. Fatal for the affected book only.
	ErrSerialization = errors.New("serialization failed")
)
