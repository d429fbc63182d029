package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/matchday/internal/adapters/mq/queue"
	"github.com/okian/matchday/internal/adapters/repository"
	service "github.com/okian/matchday/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.kind != nil && e.err != nil:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	case e.kind != nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	default:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
}

func (e *opError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// WrapKind marks err as kind and tags it with op.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrMomentNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrMomentExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNothingToUndo):
		return http.StatusConflict, "nothing_to_undo"
	case errors.Is(err, ErrBackpressure),
		errors.Is(err, queue.ErrQueueFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, queue.ErrQueueClosed):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
