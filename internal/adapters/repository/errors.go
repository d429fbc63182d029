package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrInvalidLimit = errors.New("invalid page limit")
)
