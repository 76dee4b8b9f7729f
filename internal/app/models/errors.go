package models

import "errors"

// Domain specific errors shared by the chat service and its handlers.
var (
	ErrNotFound         = errors.New("requested item not found")
	ErrBadRequest       = errors.New("bad request")
	ErrValidation       = errors.New("validation failed")
	ErrStreamInProgress = errors.New("a response is still streaming for this session")
	ErrModelUnavailable = errors.New("model service unavailable")
	ErrEmptyResponse    = errors.New("model returned an empty response")
)
