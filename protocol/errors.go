package protocol

import "errors"

var (
	// ErrDecrypt is returned when an encrypted share cannot be decrypted.
	ErrDecrypt = errors.New("share decryption failed")

	// ErrShareLength is returned when a decoded share does not have the
	// length required by the configured dimension.
	ErrShareLength = errors.New("share has wrong length")

	// ErrMalformedProof is returned when a share cannot be unpacked into a
	// proof for the configured dimension.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrFinalized is returned by operations on a finalized server.
	ErrFinalized = errors.New("server is finalized")

	// ErrInvalidConfig is returned when a server is constructed with
	// unusable parameters.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAccumulatorLength is returned when merging accumulators of different lengths.
	ErrAccumulatorLength = errors.New("accumulator length mismatch")
)
