// Package backend holds what every key-event adapter shares.
//
// Adapters live in subpackages: terminal converts tcell events and bubble
// converts Bubble Tea key messages. Each offers a From function (event to
// key.Node) and a To function (key.Node to event). Character groups have
// no concrete event and always fail the To direction.
package backend

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKey is wrapped by every conversion failure.
var ErrUnsupportedKey = errors.New("unsupported key")

// UnsupportedKeyError describes a key that an adapter cannot represent.
type UnsupportedKeyError struct {
	// Backend names the adapter, e.g. "tcell".
	Backend string

	// Key describes the offending node or event.
	Key string

	// Reason is an optional explanation.
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedKeyError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: unsupported key %s", e.Backend, e.Key)
	}
	return fmt.Sprintf("%s: unsupported key %s: %s", e.Backend, e.Key, e.Reason)
}

// Unwrap returns ErrUnsupportedKey.
func (e *UnsupportedKeyError) Unwrap() error {
	return ErrUnsupportedKey
}

// Unsupported builds an *UnsupportedKeyError.
func Unsupported(backend, k, reason string) error {
	return &UnsupportedKeyError{Backend: backend, Key: k, Reason: reason}
}

// GroupReason is the reason given when asked to turn a character group
// into a concrete event.
const GroupReason = "character groups have no concrete event"
