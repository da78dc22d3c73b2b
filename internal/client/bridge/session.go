package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
)

type State int

const (
	StateClosed State = iota
	StateLoading
	StateReady
	StateSuccess
	StateUserExit
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSuccess:
		return "success"
	case StateUserExit:
		return "user_exit"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) terminal() bool {
	return s == StateSuccess || s == StateUserExit || s == StateFailure
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeUserExit
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUserExit:
		return "user_exit"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal result of a session. Enrollment is set only
// for OutcomeSuccess, Err only for OutcomeFailure.
type Outcome struct {
	Kind       OutcomeKind
	Enrollment *models.Enrollment
	Err        error
}

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrLoadFailed        = errors.New("failed to load enrollment widget")
)

// Session tracks one widget session from open to its terminal outcome.
// Methods are safe for concurrent use.
//
// A transport failure moves the session to StateFailure without publishing:
// the user may Reload, which re-enters StateLoading, or Close, which publishes
// the failure.
type Session struct {
	mu       sync.Mutex
	state    State
	loadErr  error
	done     bool
	doneCh   chan struct{}
	outcomes chan Outcome
	logger   logging.Logger
}

func NewSession(logger logging.Logger) *Session {
	return &Session{
		state:    StateClosed,
		doneCh:   make(chan struct{}),
		outcomes: make(chan Outcome, 1),
		logger:   logger.With("module", "bridge"),
	}
}

// Outcomes yields exactly one Outcome and is then closed.
func (s *Session) Outcomes() <-chan Outcome {
	return s.outcomes
}

// Done is closed when the session has ended.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open starts the session. A session can be opened once.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed || s.done {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateLoading
	return nil
}

// DeliverRaw decodes and delivers a message from the widget page. A parse
// error is logged and returned; the session carries on.
func (s *Session) DeliverRaw(ctx context.Context, raw []byte) error {
	msg, err := DecodeMessage(raw)
	if err != nil {
		s.logger.Warn(ctx, "widget message dropped", "error", err)
		return err
	}
	s.Deliver(ctx, msg)
	return nil
}

// Deliver applies a widget message. Messages arriving after the terminal
// outcome, before Open or while a load failure is pending are dropped.
func (s *Session) Deliver(ctx context.Context, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || s.state == StateClosed || s.state == StateFailure {
		s.logger.Debug(ctx, "widget message ignored", "type", msg.messageType(), "state", s.state.String())
		return
	}

	switch m := msg.(type) {
	case Initialized:
		if s.state == StateLoading {
			s.state = StateReady
			s.logger.Info(ctx, "widget ready")
		}
	case Success:
		e := m.Enrollment
		s.finish(ctx, StateSuccess, Outcome{Kind: OutcomeSuccess, Enrollment: &e})
	case Exit:
		s.finish(ctx, StateUserExit, Outcome{Kind: OutcomeUserExit})
	case Failure:
		s.finish(ctx, StateFailure, Outcome{Kind: OutcomeFailure, Err: m.Detail})
	default:
		s.logger.Warn(ctx, "unknown widget message", "type", msg.messageType())
	}
}

// LoadFailed records a transport failure loading the widget page.
func (s *Session) LoadFailed(ctx context.Context, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || (s.state != StateLoading && s.state != StateReady) {
		return
	}
	s.state = StateFailure
	s.loadErr = fmt.Errorf("%w: %w", ErrLoadFailed, cause)
	s.logger.Warn(ctx, "widget load failed", "error", cause)
}

// Reload leaves a transport failure and re-enters StateLoading.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || s.loadErr == nil {
		return fmt.Errorf("%w: reload from %s", ErrInvalidTransition, s.state)
	}
	s.loadErr = nil
	s.state = StateLoading
	return nil
}

// Close is the user dismissing the widget. It publishes UserExit, or the
// pending load failure, and suppresses any later message.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}

	switch {
	case s.loadErr != nil:
		s.finish(ctx, StateFailure, Outcome{Kind: OutcomeFailure, Err: s.loadErr})
	case s.state == StateLoading || s.state == StateReady:
		s.finish(ctx, StateUserExit, Outcome{Kind: OutcomeUserExit})
	default:
		s.done = true
		close(s.doneCh)
		close(s.outcomes)
	}
}

// Wait blocks until the session ends or ctx is done.
func (s *Session) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o, ok := <-s.outcomes:
		if !ok {
			return Outcome{}, fmt.Errorf("%w: session closed without outcome", ErrInvalidTransition)
		}
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// finish must be called with mu held.
func (s *Session) finish(ctx context.Context, state State, o Outcome) {
	s.state = state
	s.done = true
	close(s.doneCh)
	s.outcomes <- o
	close(s.outcomes)
	s.logger.Info(ctx, "widget session finished", "outcome", o.Kind.String())
}
