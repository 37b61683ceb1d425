// Package relay is the message-routing core: classify each inbound message,
// greet a correspondent exactly once, relay questions to the answer service,
// and keep the transport session alive.
package relay

import (
	"context"
	"time"
)

// SessionState is the supervisor's view of the transport session. It is
// owned by the Supervisor; transitions are driven only by transport events.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateOpen
	StateClosedTerminal
	StateClosedTransient
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosedTerminal:
		return "closed_terminal"
	case StateClosedTransient:
		return "closed_transient"
	default:
		return "unknown"
	}
}

// CorrespondentID is the stable opaque identifier of an individual sender.
// Group identifiers never reach the core.
type CorrespondentID string

// IncomingMessage is one normalized inbound message. Ephemeral; never
// persisted.
type IncomingMessage struct {
	Sender    CorrespondentID
	Text      string
	FromSelf  bool
	FromGroup bool
}

type ActionKind int

const (
	ActionIgnore ActionKind = iota
	ActionGreet
	ActionAnswer
)

func (k ActionKind) String() string {
	switch k {
	case ActionGreet:
		return "greet"
	case ActionAnswer:
		return "answer"
	default:
		return "ignore"
	}
}

// Action is the single decision the classifier produces for one message.
// Question is set only for ActionAnswer and keeps the original casing.
type Action struct {
	Kind     ActionKind
	Question string
}

// OutboundReply is the at-most-one reply a message can produce.
type OutboundReply struct {
	Recipient CorrespondentID
	Text      string
}

// GreetedStore is the durable record of who already received the one-time
// greeting. Membership is monotonic for the life of the store.
type GreetedStore interface {
	// HasGreeted is a pure membership test.
	HasGreeted(id CorrespondentID) bool
	// MarkGreeted adds id and persists before returning. It reports whether
	// the id was newly added, so concurrent greetings collapse to one.
	MarkGreeted(id CorrespondentID) (bool, error)
}

type Direction string

const (
	DirectionInbound  Direction = "in"
	DirectionOutbound Direction = "out"
)

type ArchiveEntry struct {
	Correspondent CorrespondentID
	Direction     Direction
	Action        string
	Text          string
	CreatedAt     time.Time
}

// Archive is the optional relational log of relayed traffic. Archive
// failures never affect relaying.
type Archive interface {
	Record(ctx context.Context, e ArchiveEntry) error
	Recent(ctx context.Context, limit int) ([]ArchiveEntry, error)
}
