package models

import "errors"

// Domain specific errors for the chat pipeline and its collaborators.
var (
	ErrNotFound            = errors.New("requested item not found")
	ErrUnauthenticated     = errors.New("authentication required or invalid credentials")
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("generative API key is not configured")
	ErrUpstream            = errors.New("generative API call failed")
	ErrParseFailure        = errors.New("model output is not valid JSON")
)
