package timeline

import "errors"

// ErrCallbackPanic wraps a panic recovered from a moment callback.
var ErrCallbackPanic = errors.New("moment callback panicked")
