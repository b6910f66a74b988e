package domain

import "errors"

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrUpstream marks a failed call to the generation or transcription service.
	ErrUpstream = errors.New("upstream service failed")
	// ErrMalformedUpstreamResponse marks an upstream reply that was empty or
	// did not match the expected shape.
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
	// ErrNotScored marks a request that needs results on a session that has none yet.
	ErrNotScored = errors.New("session not scored")
)
