package services

import "errors"

var (
	// ErrModalNotActive is returned for a handle that is not the open modal.
	ErrModalNotActive = errors.New("modal is not active")
	// ErrModalKindMismatch is returned when an action does not apply to the open modal's kind.
	ErrModalKindMismatch = errors.New("action not supported by modal kind")
	ErrInvalidModalKind  = errors.New("invalid modal kind")

	ErrTaskInFlight = errors.New("task already in progress")
	ErrTaskNotFound = errors.New("task not found")

	// ErrConfirmationRequired is returned by destructive actions called without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")

	ErrUnknownAction = errors.New("unknown page action")
	ErrNoReport      = errors.New("no report generated yet")
)
