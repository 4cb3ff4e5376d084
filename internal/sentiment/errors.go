package sentiment

import "errors"

// Pipeline failure categories. Handlers map these to HTTP statuses; every
// error returned by Analyze wraps exactly one of them.
var (
	// ErrInvalidVideoURL: the submitted URL carries no recognizable video
	// identifier. Not retryable; the caller must correct the input.
	ErrInvalidVideoURL = errors.New("invalid youtube video url")

	// ErrUpstreamUnavailable: the video platform call failed. Safe to retry
	// later.
	ErrUpstreamUnavailable = errors.New("video platform unavailable")

	// ErrClassificationFailed: the batched sentiment classification call
	// failed. Safe to retry later. Per-category summary failures do NOT
	// raise this; they degrade to fallback messages.
	ErrClassificationFailed = errors.New("sentiment classification failed")

	// ErrStorage: persistence failed. Retry safety is ambiguous; AI cost may
	// already have been incurred.
	ErrStorage = errors.New("storage failure")
)
