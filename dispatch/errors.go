package dispatch

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/gevent/box"
	"strings"
)

var (
	ErrArgCount      = errors.New("argument count mismatch")
	ErrNotFunc       = errors.New("listener is not a function")
	ErrSignature     = errors.New("unsupported listener signature")
	ErrInvalidConfig = errors.New("invalid registry configuration")
)

// Failure reasons reported by [FailureReason].
const (
	ReasonArgCount     = "arg_count"
	ReasonTypeMismatch = "type_mismatch"
	ReasonListener     = "listener_error"
)

// ListenerError describes a single listener that failed while an event was committed.
type ListenerError struct {
	Key      Key
	Owner    Owner
	Position int // Position is the listener's index in the commit snapshot.
	Err      error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %d for '%s' (owner %s) failed: %v", e.Position, e.Key, e.Owner, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// CommitError collects every [ListenerError] that occurred during one commit.
// It can be inspected with [errors.Is] and [errors.As].
type CommitError struct {
	Key  Key
	errs []error
}

func (e *CommitError) add(err error) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}

// result returns nil when nothing was collected, since an empty CommitError is still a non-nil error.
func (e *CommitError) result() error {
	if len(e.errs) > 0 {
		return e
	}
	return nil
}

// Failures returns the collected errors in commit order.
func (e *CommitError) Failures() []error {
	return e.errs
}

func (e *CommitError) Error() string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%d listener(s) failed for '%s'", len(e.errs), e.Key))
	for _, err := range e.errs {
		buf.WriteString("\n")
		buf.WriteString(err.Error())
	}
	return buf.String()
}

func (e *CommitError) Unwrap() []error {
	return e.errs
}

// FailureReason classifies a listener failure as one of [ReasonArgCount], [ReasonTypeMismatch], or [ReasonListener].
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrArgCount):
		return ReasonArgCount
	case errors.Is(err, box.ErrTypeMismatch):
		return ReasonTypeMismatch
	default:
		return ReasonListener
	}
}

func argCountErr(want, got int) error {
	return fmt.Errorf("%w: expected %d, but got %d", ErrArgCount, want, got)
}

func paramErr(pos int, err error) error {
	return fmt.Errorf("parameter %d: %w", pos, err)
}
