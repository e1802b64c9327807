package service

import "errors"

// Per-request failures surfaced to the transport layer. Not-found and
// validation errors are caller-fixable; state errors mean the caller is
// racing the attempt lifecycle. None of these are fatal to the process.
var (
	ErrPuzzleNotFound     = errors.New("puzzle not found")
	ErrClueNotFound       = errors.New("clue not found")
	ErrMentorNotFound     = errors.New("mentor not found")
	ErrAttemptClosed      = errors.New("attempt already evaluated")
	ErrPuzzleExpired      = errors.New("puzzle has expired")
	ErrHypothesisTooShort = errors.New("hypothesis text is too short")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 100")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
