package state

import (
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// DefaultMaxHistory bounds the snapshot history when no size is given.
const DefaultMaxHistory = 50

type options struct {
	history    bool
	maxHistory int
	store      Store
	key        string
	debounce   time.Duration
	log        logger.Logger
}

// Option configures a Manager.
type Option func(*options)

// WithHistory records a snapshot on every change.
func WithHistory(enabled bool) Option {
	return func(o *options) { o.history = enabled }
}

// WithMaxHistory caps the number of kept snapshots. Values below one keep
// the default.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHistory = n
		}
	}
}

// WithPersistence loads the state from store at construction and saves it
// under key after every change.
func WithPersistence(store Store, key string) Option {
	return func(o *options) {
		o.store = store
		if key != "" {
			o.key = key
		}
	}
}

// WithDebounce delays listener notification until changes have been quiet
// for d. Listeners then see the latest state once.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger used for listener and persistence failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
