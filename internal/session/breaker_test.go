package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNetwork fails while err is set and counts the calls it receives.
type stubNetwork struct {
	err   error
	calls int
}

func (s *stubNetwork) CreateSession(context.Context, SessionRequest) (Session, error) {
	s.calls++
	if s.err != nil {
		return Session{}, s.err
	}
	return Session{ID: "ps_ok"}, nil
}

func (s *stubNetwork) SubmitSession(context.Context, string, SubmitRequest) (SubmissionResult, error) {
	s.calls++
	if s.err != nil {
		return SubmissionResult{}, s.err
	}
	return SubmissionResult{ID: "pay_ok"}, nil
}

func newTestBreaker(next NetworkLayer, cfg BreakerConfig) (*Breaker, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBreaker(next, cfg)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestNewBreaker(t *testing.T) {
	assert.Panics(t, func() { NewBreaker(nil, BreakerConfig{}) })

	b := NewBreaker(&stubNetwork{}, BreakerConfig{})
	assert.Equal(t, defaultFailureThreshold, b.cfg.FailureThreshold)
	assert.Equal(t, defaultOpenTimeout, b.cfg.OpenTimeout)
	assert.Equal(t, defaultHalfOpenSuccessThreshold, b.cfg.HalfOpenSuccessThreshold)
	assert.Equal(t, BreakerClosed, b.State("create_session"))
}

func TestBreaker_OpensAndRecovers(t *testing.T) {
	next := &stubNetwork{err: errors.New("connection refused")}
	b, now := newTestBreaker(next, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.CreateSession(ctx, SessionRequest{})
		require.Error(t, err)
	}
	assert.Equal(t, BreakerOpen, b.State("create_session"))
	assert.Equal(t, 2, next.calls)

	before := testutil.ToFloat64(apiRequestsTotal.WithLabelValues("create_session", "circuit_open"))
	_, err := b.CreateSession(ctx, SessionRequest{})
	require.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "circuit is open")
	assert.Equal(t, 2, next.calls, "an open circuit makes no call")
	assert.Equal(t, before+1, testutil.ToFloat64(apiRequestsTotal.WithLabelValues("create_session", "circuit_open")))

	// Circuits are per operation.
	_, err = b.SubmitSession(ctx, "ps_1", SubmitRequest{})
	require.Error(t, err)
	assert.Equal(t, 3, next.calls)

	*now = now.Add(time.Minute)
	next.err = nil
	s, err := b.CreateSession(ctx, SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ps_ok", s.ID)
	assert.Equal(t, BreakerClosed, b.State("create_session"))
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	next := &stubNetwork{err: errors.New("timeout")}
	b, now := newTestBreaker(next, BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	ctx := context.Background()

	_, _ = b.SubmitSession(ctx, "ps_1", SubmitRequest{})
	require.Equal(t, BreakerOpen, b.State("submit_session"))

	*now = now.Add(time.Second)
	_, err := b.SubmitSession(ctx, "ps_1", SubmitRequest{})
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, BreakerOpen, b.State("submit_session"))
}

func TestBreaker_IgnoresClientSideFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"InvalidRequest", ErrInvalidRequest},
		{"Canceled", context.Canceled},
		{"Unauthorized", errors.Join(ErrNetwork, &APIError{StatusCode: 401})},
		{"UnprocessableEntity", errors.Join(ErrNetwork, &APIError{StatusCode: 422})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(&stubNetwork{err: tt.err}, BreakerConfig{FailureThreshold: 1})
			_, err := b.CreateSession(context.Background(), SessionRequest{})
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, BreakerClosed, b.State("create_session"))
		})
	}
}

func TestBreaker_ServerErrorsCount(t *testing.T) {
	b, _ := newTestBreaker(&stubNetwork{err: errors.Join(ErrNetwork, &APIError{StatusCode: 503})}, BreakerConfig{FailureThreshold: 1})
	_, _ = b.CreateSession(context.Background(), SessionRequest{})
	assert.Equal(t, BreakerOpen, b.State("create_session"))
	assert.Equal(t, "open", b.State("create_session").String())
}
