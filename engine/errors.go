package engine

import "errors"

// Sentinel errors surfaced to controllers. Anything else coming out of the
// engine is a storage failure and is logged at the boundary.
var (
	ErrNotFound          = errors.New("record not found")
	ErrAttemptsExhausted = errors.New("no attempts remaining")
	ErrDeadlinePassed    = errors.New("assessment deadline has passed")
	ErrNotAssessment     = errors.New("content is not an assessment")
	ErrNoOpenAttempt     = errors.New("no attempt in progress")
)
