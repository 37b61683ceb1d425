// Package transport is the seam between the relay core and the messaging
// network. A Dialer opens a session and hands back a stream of typed events;
// the core never touches wire details.
package transport

import (
	"context"
	"errors"
)

// Session is one live connection to the network.
type Session interface {
	// SendText delivers text to a recipient. Fire-and-forget: the caller
	// logs failures, it never retries.
	SendText(ctx context.Context, to string, text string) error
	Close() error
}

// Dialer opens sessions. Dial returns the session together with the event
// channel that carries everything the session emits until it closes.
type Dialer interface {
	Dial(ctx context.Context) (Session, <-chan Event, error)
}

// Event is a tagged union of everything a session can emit.
type Event interface {
	event()
}

// StateChange reports a connection transition. Connected=false means the
// session closed; Code then distinguishes a logout from a transient drop.
type StateChange struct {
	Connected bool
	Code      StatusCode
	Err       error
}

// MessageBatch carries one or more inbound messages.
type MessageBatch struct {
	Messages []RawMessage
}

// PairingCode is a pairing/QR challenge to be shown out of band.
type PairingCode struct {
	Code string
}

// CredentialUpdate carries refreshed credential material to be persisted
// verbatim.
type CredentialUpdate struct {
	Data []byte
}

func (StateChange) event()      {}
func (MessageBatch) event()     {}
func (PairingCode) event()      {}
func (CredentialUpdate) event() {}

// StatusCode classifies a session closure.
type StatusCode int

const (
	StatusUnknown            StatusCode = 0
	StatusLoggedOut          StatusCode = 401
	StatusConnectionLost     StatusCode = 408
	StatusConnectionClosed   StatusCode = 428
	StatusConnectionReplaced StatusCode = 440
	StatusBadSession         StatusCode = 500
	StatusRestartRequired    StatusCode = 515
)

// Terminal reports whether the closure requires re-authentication before
// another connection attempt can succeed.
func (c StatusCode) Terminal() bool {
	return c == StatusLoggedOut
}

// TerminalError marks a dial failure that reconnecting cannot fix.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string { return e.Err.Error() }
func (e *TerminalError) Unwrap() error { return e.Err }

// IsTerminal reports whether err is flagged as requiring re-authentication.
func IsTerminal(err error) bool {
	var t *TerminalError
	return errors.As(err, &t)
}
