package services

import "errors"

// Domain failures surfaced to the request boundary. Handlers translate
// them into response statuses; none of them leaves partial state behind.
var (
	ErrNotFound           = errors.New("record not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrAmbiguousClient    = errors.New("multiple clients match the given name")
	ErrInvalidSubmission  = errors.New("submission is missing a required answer")
	ErrPhotoLimitExceeded = errors.New("answer already holds the maximum of 10 photos")
	ErrPermissionDenied   = errors.New("permission denied")
)
