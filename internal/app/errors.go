package service

import "errors"

var (
	// ErrNotStarted is returned by operations that need running components.
	ErrNotStarted = errors.New("service not started")

	// ErrInvalidRequest marks caller input the service cannot act on.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMomentNotFound is returned for unknown moment ids.
	ErrMomentNotFound = errors.New("moment not found")

	// ErrMomentExists is returned when a moment id is already scheduled.
	ErrMomentExists = errors.New("moment already exists")

	// ErrNothingToUndo is returned when the standings have no history left.
	ErrNothingToUndo = errors.New("nothing to undo")
)
