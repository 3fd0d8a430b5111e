package actor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Inbox.Push once the runtime is gone.
var ErrClosed = errors.New("inbox closed")

// InitError reports a failed initialisation handshake. It is fatal.
type InitError struct {
	Err error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("init: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *InitError) Unwrap() error {
	return e.Err
}

// UnsupportedError is returned by Receive for a message kind the actor has no
// handler for. The message is dropped; no error reply is sent.
type UnsupportedError struct {
	Kind string
	Src  string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported message %q from %s", e.Kind, e.Src)
}

// Unsupported builds an UnsupportedError.
func Unsupported(kind, src string) error {
	return &UnsupportedError{Kind: kind, Src: src}
}

// IsUnsupported reports whether err, or its cause, is an UnsupportedError.
func IsUnsupported(err error) bool {
	var u *UnsupportedError
	return errors.As(err, &u)
}
