package relay

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/warelay/warelay/internal/ai"
)

const (
	greetingReply   = "Hi 👋"
	fallbackNoReply = "❌ No reply from AI."
	fallbackError   = "⚠️ Error talking to AI."
)

// Sender is the outbound half of a session, as much of it as the
// dispatcher needs.
type Sender interface {
	SendText(ctx context.Context, to string, text string) error
}

// Dispatcher executes the classified action for each inbound message: greet
// a correspondent once, relay a question to the answer service, or do
// nothing. Every failure is contained here; Handle never propagates one.
type Dispatcher struct {
	store   GreetedStore
	answers ai.Answerer
	archive Archive // nil disables the traffic log
	log     *zap.Logger
}

func NewDispatcher(store GreetedStore, answers ai.Answerer, archive Archive, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		answers: answers,
		archive: archive,
		log:     log,
	}
}

// Handle processes one inbound message and sends at most one reply through
// send. A nil send means the session is not open; the message is dropped,
// matching the transport's own delivery guarantees.
func (d *Dispatcher) Handle(ctx context.Context, send Sender, msg IncomingMessage) {
	if send == nil {
		return
	}

	action := Classify(msg)
	if action.Kind == ActionIgnore {
		d.log.Debug("message ignored", zap.String("sender", string(msg.Sender)))
		return
	}

	d.log.Info("inbound message",
		zap.String("sender", string(msg.Sender)),
		zap.Stringer("action", action.Kind),
	)
	d.record(ctx, ArchiveEntry{
		Correspondent: msg.Sender,
		Direction:     DirectionInbound,
		Action:        action.Kind.String(),
		Text:          msg.Text,
	})

	switch action.Kind {
	case ActionGreet:
		// Mark first: a failed send must not earn a second greeting later.
		added, err := d.store.MarkGreeted(msg.Sender)
		if err != nil {
			d.log.Error("greeted store write failed",
				zap.String("sender", string(msg.Sender)), zap.Error(err))
		}
		if !added {
			return
		}
		d.send(ctx, send, OutboundReply{Recipient: msg.Sender, Text: greetingReply}, action.Kind)

	case ActionAnswer:
		text, err := d.answers.Answer(ctx, action.Question)
		switch {
		case err != nil:
			d.log.Warn("answer service failed",
				zap.String("sender", string(msg.Sender)), zap.Error(err))
			text = fallbackError
		case strings.TrimSpace(text) == "":
			text = fallbackNoReply
		}
		d.send(ctx, send, OutboundReply{Recipient: msg.Sender, Text: text}, action.Kind)
	}
}

func (d *Dispatcher) send(ctx context.Context, s Sender, reply OutboundReply, kind ActionKind) {
	if err := s.SendText(ctx, string(reply.Recipient), reply.Text); err != nil {
		// Fire-and-forget: log, never retry.
		d.log.Error("send failed",
			zap.String("recipient", string(reply.Recipient)), zap.Error(err))
		return
	}
	d.record(ctx, ArchiveEntry{
		Correspondent: reply.Recipient,
		Direction:     DirectionOutbound,
		Action:        kind.String(),
		Text:          reply.Text,
	})
}

func (d *Dispatcher) record(ctx context.Context, e ArchiveEntry) {
	if d.archive == nil {
		return
	}
	if err := d.archive.Record(ctx, e); err != nil {
		d.log.Warn("archive write failed", zap.Error(err))
	}
}
