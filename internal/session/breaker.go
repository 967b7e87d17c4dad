package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// BreakerState is the state of one operation's circuit.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

const (
	defaultFailureThreshold         = 5
	defaultOpenTimeout              = 30 * time.Second
	defaultHalfOpenSuccessThreshold = 1
)

// BreakerConfig configures a Breaker. Zero values take the defaults.
type BreakerConfig struct {
	FailureThreshold         int
	OpenTimeout              time.Duration
	HalfOpenSuccessThreshold int
}

type circuit struct {
	state                BreakerState
	consecutiveFailures  int
	consecutiveSuccesses int
	openUntil            time.Time
}

// Breaker guards a NetworkLayer. After FailureThreshold consecutive network
// failures of an operation, calls for it fail fast with ErrNetwork until
// OpenTimeout has passed; one trial call is then let through. A Breaker never
// retries: every call it admits reaches the wrapped layer exactly once.
type Breaker struct {
	next NetworkLayer
	cfg  BreakerConfig
	now  func() time.Time

	mu       sync.Mutex
	circuits map[string]*circuit
}

// NewBreaker wraps next.
func NewBreaker(next NetworkLayer, cfg BreakerConfig) *Breaker {
	if next == nil {
		panic("NetworkLayer cannot be nil")
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenSuccessThreshold <= 0 {
		cfg.HalfOpenSuccessThreshold = defaultHalfOpenSuccessThreshold
	}
	return &Breaker{next: next, cfg: cfg, now: time.Now, circuits: make(map[string]*circuit)}
}

// CreateSession implements NetworkLayer.
func (b *Breaker) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if err := b.allow("create_session"); err != nil {
		return Session{}, err
	}
	s, err := b.next.CreateSession(ctx, req)
	b.record("create_session", err)
	return s, err
}

// SubmitSession implements NetworkLayer.
func (b *Breaker) SubmitSession(ctx context.Context, id string, req SubmitRequest) (SubmissionResult, error) {
	if err := b.allow("submit_session"); err != nil {
		return SubmissionResult{}, err
	}
	res, err := b.next.SubmitSession(ctx, id, req)
	b.record("submit_session", err)
	return res, err
}

// State returns the circuit state of operation without transitioning it.
func (b *Breaker) State(operation string) BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.circuits[operation]; ok {
		return c.state
	}
	return BreakerClosed
}

func (b *Breaker) circuit(operation string) *circuit {
	c, ok := b.circuits[operation]
	if !ok {
		c = &circuit{}
		b.circuits[operation] = c
	}
	return c
}

func (b *Breaker) allow(operation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuit(operation)
	if c.state != BreakerOpen {
		return nil
	}
	if b.now().Before(c.openUntil) {
		apiRequestsTotal.WithLabelValues(operation, "circuit_open").Inc()
		return fmt.Errorf("%w: %s circuit is open until %s", ErrNetwork, operation, c.openUntil.Format(time.RFC3339))
	}
	c.state = BreakerHalfOpen
	c.consecutiveSuccesses = 0
	return nil
}

// record counts only network failures; invalid requests say nothing about the API's health.
func (b *Breaker) record(operation string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuit(operation)
	if err == nil {
		switch c.state {
		case BreakerHalfOpen:
			c.consecutiveSuccesses++
			if c.consecutiveSuccesses >= b.cfg.HalfOpenSuccessThreshold {
				c.state = BreakerClosed
				c.consecutiveFailures = 0
			}
		default:
			c.consecutiveFailures = 0
		}
		return
	}
	if !isNetworkFailure(err) {
		return
	}
	switch c.state {
	case BreakerClosed:
		c.consecutiveFailures++
		if c.consecutiveFailures >= b.cfg.FailureThreshold {
			c.state = BreakerOpen
			c.openUntil = b.now().Add(b.cfg.OpenTimeout)
		}
	case BreakerHalfOpen:
		c.state = BreakerOpen
		c.openUntil = b.now().Add(b.cfg.OpenTimeout)
		c.consecutiveFailures = 0
	}
}

func isNetworkFailure(err error) bool {
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, context.Canceled) {
		return false
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}
	return true
}
