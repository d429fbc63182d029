package state

import "errors"

// ErrListenerPanic wraps a value recovered from a panicking listener.
var ErrListenerPanic = errors.New("state listener panicked")
