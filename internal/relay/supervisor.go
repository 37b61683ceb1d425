package relay

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warelay/warelay/internal/transport"
)

// reconnectDelay is the fixed pause before redialing after a transient
// closure. Deliberately constant, never scaled by retry count.
const reconnectDelay = 3000 * time.Millisecond

// PairingDisplay receives pairing challenges for out-of-band display.
type PairingDisplay interface {
	ShowCode(code string)
}

// CredentialSaver persists refreshed credential material from the transport.
type CredentialSaver interface {
	Save(data []byte) error
}

// Supervisor owns the transport session: it dials, watches lifecycle
// events, redials after transient drops and gives up for good only when the
// transport reports a logout.
type Supervisor struct {
	dialer     transport.Dialer
	dispatcher *Dispatcher
	pairing    PairingDisplay  // optional
	creds      CredentialSaver // optional
	delay      time.Duration
	log        *zap.Logger

	mu      sync.RWMutex
	state   SessionState
	session transport.Session

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type SupervisorOption func(*Supervisor)

// WithReconnectDelay overrides the reconnect pause. Tests use this; the
// production delay is the contract constant.
func WithReconnectDelay(d time.Duration) SupervisorOption {
	return func(s *Supervisor) { s.delay = d }
}

func WithPairingDisplay(p PairingDisplay) SupervisorOption {
	return func(s *Supervisor) { s.pairing = p }
}

func WithCredentialSaver(c CredentialSaver) SupervisorOption {
	return func(s *Supervisor) { s.creds = c }
}

func NewSupervisor(dialer transport.Dialer, dispatcher *Dispatcher, log *zap.Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		dialer:     dialer,
		dispatcher: dispatcher,
		delay:      reconnectDelay,
		log:        log,
		state:      StateDisconnected,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the session lifecycle and returns immediately; the event
// stream drives everything after that.
func (s *Supervisor) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop closes the current session and waits for the lifecycle loop to exit.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess != nil {
		_ = sess.Close()
	}
	s.wg.Wait()
}

// State reports the current session state.
func (s *Supervisor) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Supervisor) setState(state SessionState, cause string) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()

	s.log.Info("session state changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", state),
		zap.String("cause", cause),
	)
}

func (s *Supervisor) run(ctx context.Context) {
	for {
		s.setState(StateConnecting, "dialing transport")

		sess, events, err := s.dialer.Dial(ctx)
		if err != nil {
			if transport.IsTerminal(err) {
				s.setState(StateClosedTerminal, err.Error())
				s.log.Error("session requires re-authentication", zap.Error(err))
				return
			}
			s.setState(StateClosedTransient, err.Error())
			s.log.Warn("dial failed, will retry",
				zap.Error(err), zap.Duration("delay", s.delay))
			if !s.pause(ctx) {
				return
			}
			continue
		}

		s.mu.Lock()
		s.session = sess
		s.mu.Unlock()

		terminal := s.consume(ctx, sess, events)

		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		_ = sess.Close()

		if terminal {
			s.setState(StateClosedTerminal, "transport reported logout")
			s.log.Error("session requires re-authentication")
			return
		}

		select {
		case <-ctx.Done():
			s.setState(StateDisconnected, "context canceled")
			return
		case <-s.done:
			s.setState(StateDisconnected, "stopped")
			return
		default:
		}

		s.setState(StateClosedTransient, "transport connection dropped")
		if !s.pause(ctx) {
			return
		}
	}
}

// consume drains one session's event stream until the session closes. It
// returns true when the closure was terminal.
func (s *Supervisor) consume(ctx context.Context, sess transport.Session, events <-chan transport.Event) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.done:
			return false
		case evt, ok := <-events:
			if !ok {
				return false
			}
			switch e := evt.(type) {
			case transport.StateChange:
				if e.Connected {
					s.setState(StateOpen, "transport connected")
					continue
				}
				if e.Code.Terminal() {
					return true
				}
				return false

			case transport.MessageBatch:
				if s.State() != StateOpen {
					continue
				}
				for _, raw := range e.Messages {
					s.dispatcher.Handle(ctx, sess, IncomingMessage{
						Sender:    CorrespondentID(raw.Sender),
						Text:      raw.Payload.Text(),
						FromSelf:  raw.FromSelf,
						FromGroup: raw.FromGroup,
					})
				}

			case transport.PairingCode:
				s.log.Info("pairing challenge received")
				if s.pairing != nil {
					s.pairing.ShowCode(e.Code)
				}

			case transport.CredentialUpdate:
				if s.creds == nil {
					continue
				}
				if err := s.creds.Save(e.Data); err != nil {
					s.log.Error("credential save failed", zap.Error(err))
				}
			}
		}
	}
}

// pause waits out the reconnect delay; false means shutdown interrupted it.
func (s *Supervisor) pause(ctx context.Context) bool {
	select {
	case <-time.After(s.delay):
		return true
	case <-ctx.Done():
		s.setState(StateDisconnected, "context canceled")
		return false
	case <-s.done:
		s.setState(StateDisconnected, "stopped")
		return false
	}
}

// LogPairing writes pairing codes to the log. Rendering a scannable QR is
// left to whatever is watching the logs.
type LogPairing struct {
	Log *zap.Logger
}

func (p LogPairing) ShowCode(code string) {
	p.Log.Info("pairing code", zap.String("code", code))
}
