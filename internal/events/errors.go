package events

import (
	"context"
	"errors"
	"os"
	"syscall"
)

// ErrNotConnected is returned when an operation needs a live socket
var ErrNotConnected = errors.New("not connected to daemon")

// ErrQueueFull is returned by SendEvent when the batcher is saturated
var ErrQueueFull = errors.New("event queue full")

// DaemonErrorKind says why the daemon could not be reached
type DaemonErrorKind string

const (
	DaemonNoSocket     DaemonErrorKind = "no_socket"
	DaemonNoPermission DaemonErrorKind = "no_permission"
	DaemonRefused      DaemonErrorKind = "refused"
	DaemonTimeout      DaemonErrorKind = "timeout"
	DaemonUnreachable  DaemonErrorKind = "unreachable"
)

const startHint = "start it with: dashlayout-daemon & (or dashlayout serve --with-daemon)"

// DaemonError explains a failed daemon connection. Open arrangers keep
// working without one; they just stop refreshing.
type DaemonError struct {
	Kind DaemonErrorKind
	Hint string
	Err  error
}

func (e *DaemonError) Error() string {
	msg := "daemon " + string(e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DaemonError) Unwrap() error { return e.Err }

// ClassifyDaemonError wraps a dial or connect failure with a hint
func ClassifyDaemonError(err error) *DaemonError {
	if err == nil {
		return nil
	}

	de := &DaemonError{Kind: DaemonUnreachable, Hint: startHint, Err: err}
	var errno syscall.Errno
	switch {
	case errors.Is(err, os.ErrNotExist):
		de.Kind = DaemonNoSocket
	case errors.Is(err, os.ErrPermission):
		de.Kind = DaemonNoPermission
		de.Hint = "the socket lives in ~/.dashlayout; check it is owned by you with mode 700"
	case errors.Is(err, context.DeadlineExceeded):
		de.Kind = DaemonTimeout
		de.Hint = "the daemon is not answering; restart it"
	case errors.As(err, &errno) && errno == syscall.ECONNREFUSED:
		de.Kind = DaemonRefused
		de.Hint = "a stale socket was left behind; " + startHint
	}
	return de
}
