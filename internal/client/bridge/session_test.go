package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/models"
)

func openSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(logging.Discard())
	require.NoError(t, s.Open())
	return s
}

func outcome(t *testing.T, s *Session) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	o, err := s.Wait(ctx)
	require.NoError(t, err)
	return o
}

func noMoreOutcomes(t *testing.T, s *Session) {
	t.Helper()
	_, ok := <-s.Outcomes()
	assert.False(t, ok, "outcome channel must be closed after the single outcome")
}

func TestSession_HappyPath(t *testing.T) {
	ctx := context.Background()
	s := NewSession(logging.Discard())
	assert.Equal(t, StateClosed, s.State())

	require.NoError(t, s.Open())
	assert.Equal(t, StateLoading, s.State())

	s.Deliver(ctx, Initialized{})
	assert.Equal(t, StateReady, s.State())

	s.Deliver(ctx, Success{Enrollment: models.Enrollment{AccessToken: "tok_abc"}})
	assert.Equal(t, StateSuccess, s.State())

	o := outcome(t, s)
	assert.Equal(t, OutcomeSuccess, o.Kind)
	require.NotNil(t, o.Enrollment)
	assert.Equal(t, "tok_abc", o.Enrollment.AccessToken)
	noMoreOutcomes(t, s)
}

func TestSession_ExitAndFailure(t *testing.T) {
	ctx := context.Background()

	s := openSession(t)
	s.Deliver(ctx, Initialized{})
	s.Deliver(ctx, Exit{})
	assert.Equal(t, OutcomeUserExit, outcome(t, s).Kind)
	assert.Equal(t, StateUserExit, s.State())

	s = openSession(t)
	s.Deliver(ctx, Initialized{})
	s.Deliver(ctx, Failure{Detail: FailureDetail{Message: "bank down"}})
	o := outcome(t, s)
	assert.Equal(t, OutcomeFailure, o.Kind)
	assert.EqualError(t, o.Err, "bank down")
}

func TestSession_OnlyFirstTerminalCounts(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)
	s.Deliver(ctx, Initialized{})
	s.Deliver(ctx, Exit{})
	s.Deliver(ctx, Success{Enrollment: models.Enrollment{AccessToken: "late"}})
	s.Deliver(ctx, Failure{})
	s.Close(ctx)

	assert.Equal(t, OutcomeUserExit, outcome(t, s).Kind)
	noMoreOutcomes(t, s)
	assert.Equal(t, StateUserExit, s.State())
}

func TestSession_ConcurrentTerminalMessages(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)
	s.Deliver(ctx, Initialized{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				s.Deliver(ctx, Exit{})
			case 1:
				s.Deliver(ctx, Failure{})
			default:
				s.Close(ctx)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	for range s.Outcomes() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestSession_UnknownAndParseErrorsAreNotFatal(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)

	s.Deliver(ctx, Unknown{Type: "heartbeat"})
	assert.Equal(t, StateLoading, s.State())

	err := s.DeliverRaw(ctx, []byte(`{broken`))
	assert.ErrorIs(t, err, common.ErrMessageParse)
	assert.Equal(t, StateLoading, s.State())

	require.NoError(t, s.DeliverRaw(ctx, []byte(`{"type":"initialized","payload":{}}`)))
	assert.Equal(t, StateReady, s.State())

	require.NoError(t, s.DeliverRaw(ctx, []byte(`{"type":"exit","payload":{}}`)))
	assert.Equal(t, OutcomeUserExit, outcome(t, s).Kind)
}

func TestSession_CloseSuppressesLaterMessages(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)
	s.Close(ctx)

	s.Deliver(ctx, Initialized{})
	s.Deliver(ctx, Success{Enrollment: models.Enrollment{AccessToken: "tok"}})

	o := outcome(t, s)
	assert.Equal(t, OutcomeUserExit, o.Kind)
	assert.Nil(t, o.Enrollment)
	assert.Equal(t, StateUserExit, s.State())

	select {
	case <-s.Done():
	default:
		t.Fatal("session should be done")
	}
}

func TestSession_LoadFailureReloadThenSuccess(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)

	s.LoadFailed(ctx, errors.New("dns"))
	assert.Equal(t, StateFailure, s.State())

	s.Deliver(ctx, Initialized{})
	assert.Equal(t, StateFailure, s.State(), "messages are dropped while the load failure is pending")

	select {
	case <-s.Outcomes():
		t.Fatal("a load failure is not published before the user gives up")
	default:
	}

	require.NoError(t, s.Reload())
	assert.Equal(t, StateLoading, s.State())

	s.Deliver(ctx, Initialized{})
	s.Deliver(ctx, Success{Enrollment: models.Enrollment{AccessToken: "tok"}})
	assert.Equal(t, OutcomeSuccess, outcome(t, s).Kind)
}

func TestSession_LoadFailureThenClose(t *testing.T) {
	ctx := context.Background()
	s := openSession(t)

	s.LoadFailed(ctx, errors.New("dns"))
	s.Close(ctx)

	o := outcome(t, s)
	assert.Equal(t, OutcomeFailure, o.Kind)
	assert.ErrorIs(t, o.Err, ErrLoadFailed)
	assert.ErrorContains(t, o.Err, "dns")
}

func TestSession_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewSession(logging.Discard())

	assert.ErrorIs(t, s.Reload(), ErrInvalidTransition)

	require.NoError(t, s.Open())
	assert.ErrorIs(t, s.Open(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Reload(), ErrInvalidTransition)

	s.Deliver(ctx, Exit{})
	assert.ErrorIs(t, s.Reload(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Open(), ErrInvalidTransition)
}

func TestSession_CloseBeforeOpen(t *testing.T) {
	s := NewSession(logging.Discard())
	s.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_WaitHonoursContext(t *testing.T) {
	s := openSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
