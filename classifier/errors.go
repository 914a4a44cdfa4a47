// Package classifier provides the rice leaf disease classification runtime.
package classifier

import "errors"

// Sentinel errors for classifier operations.
// These are domain-specific errors that provide clear failure modes.
var (
	// Model-related errors (fatal: the process cannot serve diagnoses)
	ErrModelNotFound   = errors.New("classifier: model file not found")
	ErrModelLoadFailed = errors.New("classifier: failed to load model")
	ErrBadMetadata     = errors.New("classifier: model metadata is missing or invalid")

	// Per-call inference errors
	ErrInvalidImage    = errors.New("classifier: invalid image data")
	ErrInferenceFailed = errors.New("classifier: inference failed")
	ErrBadDistribution = errors.New("classifier: backend returned an invalid distribution")

	// Remote backend errors
	ErrRemoteUnavailable = errors.New("classifier: remote vision endpoint unavailable")
	ErrRemoteBadResponse = errors.New("classifier: remote vision endpoint returned an unparsable response")
)
