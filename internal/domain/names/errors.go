package names

import "errors"

// Sentinel errors returned by New.
var (
	ErrUnsupportedCountry = errors.New("unsupported country")
	ErrUnsupportedGender  = errors.New("unsupported gender")
	ErrNoNames            = errors.New("no names available")
	ErrInvalidCorpus      = errors.New("invalid name corpus")
)
